package snow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name      string
		opts      ConfigOptions
		expectErr string
	}{
		{
			name: "token auth",
			opts: ConfigOptions{InstanceURL: "https://example.service-now.com", Token: "t"},
		},
		{
			name: "basic auth through a proxy",
			opts: ConfigOptions{InstanceURL: "https://example.service-now.com", APIURL: "https://portal.example.com/api/proxy/servicenow", Username: "u", Password: "p"},
		},
		{
			name:      "missing instance url",
			opts:      ConfigOptions{Token: "t"},
			expectErr: "instance_url is not set",
		},
		{
			name:      "bad scheme",
			opts:      ConfigOptions{InstanceURL: "ftp://example", Token: "t"},
			expectErr: "unsupported scheme",
		},
		{
			name:      "no credentials",
			opts:      ConfigOptions{InstanceURL: "https://example.service-now.com", Username: "u"},
			expectErr: "either token or username and password must be set",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, err := NewConfig(test.opts)
			if test.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.expectErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c.Client)
			assert.Equal(t, defaultPageSize, c.PageSize)
		})
	}
}

func TestGetIncidentsWithMock(t *testing.T) {
	mock := &MockTableClient{
		Incidents: []Incident{
			{SysID: "1", Number: "INC1"},
			{SysID: "2", Number: "INC2"},
			{SysID: "3", Number: "INC3"},
		},
	}

	incidents, total, err := GetIncidents(context.Background(), mock, ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, incidents, 1)
	assert.Equal(t, "INC3", incidents[0].Number)

	_, _, err = GetIncidents(context.Background(), mock, ListOptions{Query: "err"})
	assert.ErrorIs(t, err, ErrMockError)
}
