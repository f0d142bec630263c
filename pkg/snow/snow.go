package snow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the ServiceNow client used for all the ServiceNow calls and the
// instance and scope information needed to build requests and links
type Config struct {
	Client      TableClient
	InstanceURL string
	Scope       Scope
	PageSize    int
}

// ConfigOptions are the user-facing settings used to build a Config
type ConfigOptions struct {
	// InstanceURL is the ServiceNow UI base URL, used for record links
	InstanceURL string
	// APIURL is the base URL for Table API requests; defaults to InstanceURL.
	// Point it at a proxy prefix to keep credentials out of the client.
	APIURL string

	Token    string
	Username string
	Password string

	Timeout       time.Duration
	RetryAttempts int
	PageSize      int
	Scope         Scope

	// Registerer receives the client metrics; nil disables them
	Registerer prometheus.Registerer
}

func NewConfig(o ConfigOptions) (*Config, error) {
	var errs []error

	if o.InstanceURL == "" {
		errs = append(errs, errors.New("instance_url is not set"))
	} else if err := validateURL(o.InstanceURL); err != nil {
		errs = append(errs, fmt.Errorf("instance_url: %w", err))
	}

	apiURL := o.APIURL
	if apiURL == "" {
		apiURL = o.InstanceURL
	} else if err := validateURL(apiURL); err != nil {
		errs = append(errs, fmt.Errorf("api_url: %w", err))
	}

	if o.Token == "" && (o.Username == "" || o.Password == "") {
		errs = append(errs, errors.New("either token or username and password must be set"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("snow.NewConfig(): %w", errors.Join(errs...))
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retry := DefaultRetryConfig()
	if o.RetryAttempts > 0 {
		retry.MaxAttempts = o.RetryAttempts
	}

	opts := []ClientOption{
		WithHTTPClient(&http.Client{Timeout: timeout}),
		WithRetryConfig(retry),
	}
	if o.Token != "" {
		opts = append(opts, WithBearerToken(o.Token))
	} else {
		opts = append(opts, WithBasicAuth(o.Username, o.Password))
	}
	if o.Registerer != nil {
		opts = append(opts, WithMetrics(o.Registerer))
	}

	pageSize := o.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Config{
		Client:      NewClient(apiURL, opts...),
		InstanceURL: o.InstanceURL,
		Scope:       o.Scope,
		PageSize:    pageSize,
	}, nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// NewListOpts builds the list request for a table, scope, filter and page
func NewListOpts(table Table, scope Scope, filter Filter, page Page) ListOptions {
	limit := page.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	return ListOptions{
		Query:  BuildQuery(scope, filter),
		Fields: table.Fields,
		Limit:  limit,
		Offset: page.Offset(),
	}
}

// GetIncidents fetches one page of incidents and the total number of matches
func GetIncidents(ctx context.Context, client TableClient, opts ListOptions) ([]Incident, int, error) {
	var i []Incident

	response, err := client.ListRecords(ctx, IncidentTable.Name, opts)
	if err != nil {
		return i, 0, fmt.Errorf("snow.GetIncidents(): failed to get incidents: %w", err)
	}

	i, err = decodeRecords[Incident](response.Result)
	if err != nil {
		return i, 0, fmt.Errorf("snow.GetIncidents(): %w", err)
	}

	return i, response.TotalCount, nil
}

// GetChanges fetches one page of change requests and the total number of matches
func GetChanges(ctx context.Context, client TableClient, opts ListOptions) ([]Change, int, error) {
	var c []Change

	response, err := client.ListRecords(ctx, ChangeTable.Name, opts)
	if err != nil {
		return c, 0, fmt.Errorf("snow.GetChanges(): failed to get change requests: %w", err)
	}

	c, err = decodeRecords[Change](response.Result)
	if err != nil {
		return c, 0, fmt.Errorf("snow.GetChanges(): %w", err)
	}

	return c, response.TotalCount, nil
}

func decodeRecords[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return out, fmt.Errorf("failed to decode record: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
