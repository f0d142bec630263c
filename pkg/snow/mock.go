package snow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/clcollins/srenow/pkg/rand"
)

var ErrMockError = fmt.Errorf("snow.Mock(): mock error") // Used to mock errors in unit tests

// mockErrQuery makes ListRecords fail when used as the query
const mockErrQuery = "err"

// MockCall records a single write made against a MockTableClient
type MockCall struct {
	Method string
	Table  string
	SysID  string
	Fields Fields
}

// MockTableClient is an in-memory TableClient for unit tests. Writes against
// the sys_id "err" and lists with the query "err" fail with ErrMockError.
type MockTableClient struct {
	Incidents []Incident
	Changes   []Change

	mu       sync.Mutex
	Calls    []MockCall
	LastList ListOptions
}

func (m *MockTableClient) ListRecords(ctx context.Context, table string, opts ListOptions) (*ListResponse, error) {
	m.mu.Lock()
	m.LastList = opts
	m.mu.Unlock()

	if opts.Query == mockErrQuery {
		return nil, ErrMockError
	}

	var all []any
	switch table {
	case ChangeTable.Name:
		for _, c := range m.Changes {
			all = append(all, c)
		}
	default:
		for _, i := range m.Incidents {
			all = append(all, i)
		}
	}

	start := min(opts.Offset, len(all))
	end := len(all)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, len(all))
	}

	resp := &ListResponse{TotalCount: len(all)}
	for _, r := range all[start:end] {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		resp.Result = append(resp.Result, b)
	}
	return resp, nil
}

func (m *MockTableClient) CreateRecord(ctx context.Context, table string, fields Fields) (*RecordRef, error) {
	m.record("POST", table, "", fields)
	if fields["short_description"] == mockErrQuery {
		return nil, ErrMockError
	}

	prefix := "INC"
	if table == ChangeTable.Name {
		prefix = "CHG"
	}
	return &RecordRef{
		Table:            table,
		SysID:            rand.SysID(),
		Number:           rand.Number(prefix),
		ShortDescription: fields["short_description"],
	}, nil
}

func (m *MockTableClient) UpdateRecord(ctx context.Context, table string, sysID string, fields Fields) error {
	m.record("PATCH", table, sysID, fields)
	if sysID == mockErrQuery {
		return ErrMockError
	}
	return nil
}

func (m *MockTableClient) record(method, table, sysID string, fields Fields) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Table: table, SysID: sysID, Fields: fields})
}
