package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/clcollins/srenow/pkg/snow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIncidents(n int) []snow.Incident {
	var incidents []snow.Incident
	for i := 1; i <= n; i++ {
		incidents = append(incidents, snow.Incident{
			SysID:            fmt.Sprintf("sys%d", i),
			Number:           fmt.Sprintf("INC%07d", i),
			ShortDescription: fmt.Sprintf("incident %d", i),
			State:            "1",
			Priority:         "1",
		})
	}
	return incidents
}

func testConfig(client snow.TableClient) *snow.Config {
	return &snow.Config{
		Client:      client,
		InstanceURL: "https://example.service-now.com",
		PageSize:    5,
	}
}

func defaultListOptions() listOptions {
	return listOptions{output: outputTable, state: "Active", page: 1}
}

func TestRunListTable(t *testing.T) {
	mock := &snow.MockTableClient{Incidents: testIncidents(7)}
	var out bytes.Buffer

	err := runList(context.Background(), &out, testConfig(mock), snow.IncidentTable, defaultListOptions())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "INC0000001")
	assert.Contains(t, out.String(), "INC0000005")
	assert.NotContains(t, out.String(), "INC0000006")
	assert.Contains(t, out.String(), "1 - Critical")
	assert.Contains(t, out.String(), "page 1/2 (7 total)")
	assert.Equal(t, "active=true", mock.LastList.Query)
}

func TestRunListPaging(t *testing.T) {
	mock := &snow.MockTableClient{Incidents: testIncidents(7)}
	var out bytes.Buffer

	opts := defaultListOptions()
	opts.page = 2
	opts.pageSize = 5

	err := runList(context.Background(), &out, testConfig(mock), snow.IncidentTable, opts)
	require.NoError(t, err)

	assert.Equal(t, 5, mock.LastList.Offset)
	assert.Equal(t, 5, mock.LastList.Limit)
	assert.Contains(t, out.String(), "INC0000007")
	assert.Contains(t, out.String(), "page 2/2 (7 total)")
}

func TestRunListJSON(t *testing.T) {
	mock := &snow.MockTableClient{Changes: []snow.Change{
		{SysID: "c1", Number: "CHG0000001", ShortDescription: "upgrade", State: "0", Priority: "2", Risk: "3"},
	}}
	var out bytes.Buffer

	opts := defaultListOptions()
	opts.output = outputJSON
	opts.state = "review"
	opts.search = "upgrade"

	err := runList(context.Background(), &out, testConfig(mock), snow.ChangeTable, opts)
	require.NoError(t, err)

	var result struct {
		Table      string        `json:"table"`
		State      string        `json:"state"`
		Page       int           `json:"page"`
		PageSize   int           `json:"page_size"`
		TotalCount int           `json:"total_count"`
		Records    []snow.Change `json:"records"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.Equal(t, "change_request", result.Table)
	assert.Equal(t, "Review", result.State)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 5, result.PageSize)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "CHG0000001", result.Records[0].Number)
	assert.Equal(t, "state=0^short_descriptionLIKEupgrade", mock.LastList.Query)
}

func TestRunListEmpty(t *testing.T) {
	var out bytes.Buffer
	err := runList(context.Background(), &out, testConfig(&snow.MockTableClient{}), snow.IncidentTable, defaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, "No Incidents found\n", out.String())
}

func TestRunListErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*listOptions)
		cfg    func(*snow.Config)
		err    string
	}{
		{
			name:   "unknown output",
			modify: func(o *listOptions) { o.output = "yaml" },
			err:    "unknown output format",
		},
		{
			name:   "page below one",
			modify: func(o *listOptions) { o.page = 0 },
			err:    "page must be 1 or greater",
		},
		{
			name:   "unknown state",
			modify: func(o *listOptions) { o.state = "Review" },
			err:    "unknown state",
		},
		{
			name:   "fetch failure",
			modify: func(o *listOptions) { o.state = "All" },
			cfg:    func(c *snow.Config) { c.Scope = snow.Scope{Query: "err"} },
			err:    snow.ErrMockError.Error(),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts := defaultListOptions()
			test.modify(&opts)
			cfg := testConfig(&snow.MockTableClient{Incidents: testIncidents(1)})
			if test.cfg != nil {
				test.cfg(cfg)
			}

			var out bytes.Buffer
			err := runList(context.Background(), &out, cfg, snow.IncidentTable, opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
			assert.Empty(t, out.String())
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Number", "Short Description", "State", "Priority", "Opened At"},
		[][]string{
			{"INC0000001", "db down", "New", "1 - Critical", "2024-01-01"},
			{"INC0000002", "disk slow", "New", "4 - Low", "2024-01-02"},
		},
		[]snow.Severity{snow.SeverityCritical, snow.SeverityNeutral},
	)

	assert.Contains(t, out, "Priority")
	assert.Contains(t, out, "1 - Critical")
	assert.Contains(t, out, "4 - Low")
	assert.Contains(t, out, "disk slow")
}
