package cmd

import (
	"bytes"
	"testing"

	"github.com/clcollins/srenow/pkg/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		settings    map[string]interface{}
		expectedErr []string
	}{
		{
			name: "token auth is valid",
			settings: map[string]interface{}{
				"instance_url": "https://example.service-now.com",
				"token":        "abc",
			},
		},
		{
			name: "basic auth is valid",
			settings: map[string]interface{}{
				"instance_url": "https://example.service-now.com",
				"username":     "sre",
				"password":     "hunter2",
			},
		},
		{
			name: "deprecated keys are ignored",
			settings: map[string]interface{}{
				"instance_url":   "https://example.service-now.com",
				"token":          "abc",
				"servicenow_url": "https://old.service-now.com",
				"shell":          "bash",
			},
		},
		{
			name:        "missing instance and credentials",
			settings:    map[string]interface{}{},
			expectedErr: []string{"missing required key: instance_url", "missing credentials"},
		},
		{
			name: "username without password",
			settings: map[string]interface{}{
				"instance_url": "https://example.service-now.com",
				"username":     "sre",
			},
			expectedErr: []string{"missing credentials"},
		},
		{
			name: "empty token does not count",
			settings: map[string]interface{}{
				"instance_url": "https://example.service-now.com",
				"token":        "",
			},
			expectedErr: []string{"missing credentials"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := validateConfig(test.settings)
			if len(test.expectedErr) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			for _, e := range test.expectedErr {
				assert.Contains(t, err.Error(), e)
			}
		})
	}
}

func TestOptionalKeysHaveDescriptions(t *testing.T) {
	for k := range defaultOptionalKeys {
		_, ok := optionalKeys[k]
		assert.True(t, ok, "default for %s has no description", k)
	}
}

func TestConfigCreatePrintsExample(t *testing.T) {
	var out bytes.Buffer
	configCmd.SetOut(&out)
	require.NoError(t, configCmd.Flags().Set("create", "true"))
	t.Cleanup(func() {
		configCmd.SetOut(nil)
		_ = configCmd.Flags().Set("create", "false")
	})

	require.NoError(t, configCmd.RunE(configCmd, nil))
	assert.Equal(t, exampleConfig+"\n", out.String())
	assert.Contains(t, out.String(), "%%URL%%")
}

func TestBrowserDefault(t *testing.T) {
	assert.Equal(t, launcher.DefaultBrowserCommand, defaultOptionalKeys["browser"])
}
