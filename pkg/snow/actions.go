package snow

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const defaultPriority = "3"
const defaultRisk = "3"

var (
	ErrEmptyDescription = errors.New("short description is required")
	ErrMissingSysID     = errors.New("sys_id is required")
)

// CreateOptions are the user-supplied fields for a new record
type CreateOptions struct {
	ShortDescription string
	Priority         string
	// Risk only applies to change requests
	Risk    string
	CISysID string
}

// NewCreateOptions returns CreateOptions with the default priority and risk
func NewCreateOptions() CreateOptions {
	return CreateOptions{Priority: defaultPriority, Risk: defaultRisk}
}

// CreateRecord creates an incident or change request linked to the configuration item, if any
func CreateRecord(ctx context.Context, client TableClient, table Table, o CreateOptions) (*RecordRef, error) {
	description := strings.TrimSpace(o.ShortDescription)
	if description == "" {
		return nil, fmt.Errorf("snow.CreateRecord(): %w", ErrEmptyDescription)
	}

	fields := Fields{
		"short_description": description,
		"priority":          valueOrDefault(o.Priority, defaultPriority),
	}
	if o.CISysID != "" {
		fields["cmdb_ci"] = o.CISysID
	}
	if table.Name == ChangeTable.Name {
		fields["risk"] = valueOrDefault(o.Risk, defaultRisk)
	}

	r, err := client.CreateRecord(ctx, table.Name, fields)
	if err != nil {
		return nil, fmt.Errorf("snow.CreateRecord(): failed to create %s: %w", table.Name, err)
	}

	return r, nil
}

// UpdateDescription replaces the short description of a record
func UpdateDescription(ctx context.Context, client TableClient, table Table, sysID string, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("snow.UpdateDescription(): %w", ErrEmptyDescription)
	}

	err := client.UpdateRecord(ctx, table.Name, sysID, Fields{"short_description": description})
	if err != nil {
		return fmt.Errorf("snow.UpdateDescription(): failed to update %s `%v`: %w", table.Name, sysID, err)
	}
	return nil
}

// ResolveRecord moves a record to the table's resolved state with the given notes
func ResolveRecord(ctx context.Context, client TableClient, table Table, sysID string, notes string) error {
	fields := Fields{
		"state":       table.ResolveState,
		"close_notes": strings.TrimSpace(notes),
	}

	if err := client.UpdateRecord(ctx, table.Name, sysID, fields); err != nil {
		return fmt.Errorf("snow.ResolveRecord(): failed to resolve %s `%v`: %w", table.Name, sysID, err)
	}
	return nil
}

// CloseRecord moves a record to the table's closed state with the given notes
func CloseRecord(ctx context.Context, client TableClient, table Table, sysID string, notes string) error {
	fields := Fields{
		"state":       table.CloseState,
		"close_notes": strings.TrimSpace(notes),
	}
	if table.CloseCode != "" {
		fields["close_code"] = table.CloseCode
	}

	if err := client.UpdateRecord(ctx, table.Name, sysID, fields); err != nil {
		return fmt.Errorf("snow.CloseRecord(): failed to close %s `%v`: %w", table.Name, sysID, err)
	}
	return nil
}

func valueOrDefault(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return strings.TrimSpace(v)
}
