package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/clcollins/srenow/pkg/snow"
	"github.com/clcollins/srenow/pkg/tui/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// priorityColumn is the index of the priority column in both list layouts
const priorityColumn = 3

type listOptions struct {
	output   string
	state    string
	search   string
	page     int
	pageSize int
}

// listResult is the JSON shape printed by `list --output json`
type listResult struct {
	Table      string `json:"table"`
	State      string `json:"state"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalCount int    `json:"total_count"`
	Records    any    `json:"records"`
}

var listOpts listOptions

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:          "list",
	Short:        "Print one page of incidents or change requests",
	Long:         `Fetch a single page of records from the configured table and print it as a table or as JSON.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := snow.LookupTable(viper.GetString("table"))
		if err != nil {
			return err
		}

		cfg, err := loadSnowConfig(nil)
		if err != nil {
			return err
		}

		return runList(cmd.Context(), cmd.OutOrStdout(), cfg, t, listOpts)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.output, "output", "o", outputTable, "Output format: table or json")
	listCmd.Flags().StringVarP(&listOpts.state, "state", "s", "Active", "State preset to filter on")
	listCmd.Flags().StringVar(&listOpts.search, "search", "", "Filter on short descriptions containing this text")
	listCmd.Flags().IntVar(&listOpts.page, "page", 1, "Page to fetch, starting at 1")
	listCmd.Flags().IntVar(&listOpts.pageSize, "page-size", 0, "Records per page (default: page_size from the config)")
}

func runList(ctx context.Context, w io.Writer, cfg *snow.Config, t snow.Table, opts listOptions) error {
	if opts.output != outputTable && opts.output != outputJSON {
		return fmt.Errorf("unknown output format `%v`; use %s or %s", opts.output, outputTable, outputJSON)
	}
	if opts.page < 1 {
		return fmt.Errorf("page must be 1 or greater, got %d", opts.page)
	}

	i, ok := t.StateFilterIndex(opts.state)
	if !ok {
		return fmt.Errorf("unknown state `%v` for %s", opts.state, t.Name)
	}
	filter := snow.Filter{State: t.StateFilter(i), Description: opts.search}

	size := opts.pageSize
	if size <= 0 {
		size = cfg.PageSize
	}
	page := snow.NewPage(size)
	page.Page = opts.page - 1

	req := snow.NewListOpts(t, cfg.Scope, filter, page)
	log.Debug("cmd.runList(): listing records", "table", t.Name, "query", req.Query, "offset", req.Offset)

	var records any
	var header []string
	var rows [][]string
	var severities []snow.Severity

	switch t.Name {
	case snow.ChangeTable.Name:
		changes, total, err := snow.GetChanges(ctx, cfg.Client, req)
		if err != nil {
			return err
		}
		page.TotalCount = total
		records = changes
		header = []string{"Number", "Short Description", "State", "Priority", "Risk", "Start", "End"}
		for _, c := range changes {
			rows = append(rows, []string{
				c.Number,
				c.ShortDescription,
				snow.StateLabel(t.Name, c.State),
				snow.PriorityLabel(c.Priority).Text,
				snow.RiskLabel(c.Risk).Text,
				c.StartDate,
				c.EndDate,
			})
			severities = append(severities, snow.PriorityLabel(c.Priority).Severity)
		}
	default:
		incidents, total, err := snow.GetIncidents(ctx, cfg.Client, req)
		if err != nil {
			return err
		}
		page.TotalCount = total
		records = incidents
		header = []string{"Number", "Short Description", "State", "Priority", "Opened At"}
		for _, inc := range incidents {
			rows = append(rows, []string{
				inc.Number,
				inc.ShortDescription,
				snow.StateLabel(t.Name, inc.State),
				snow.PriorityLabel(inc.Priority).Text,
				inc.OpenedAt,
			})
			severities = append(severities, snow.PriorityLabel(inc.Priority).Severity)
		}
	}

	if opts.output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listResult{
			Table:      t.Name,
			State:      filter.State.Label,
			Page:       page.Page + 1,
			PageSize:   page.PageSize,
			TotalCount: page.TotalCount,
			Records:    records,
		})
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "No %s found\n", t.Label)
		return err
	}

	_, err := fmt.Fprintf(w, "%s\npage %d/%d (%d total)\n",
		renderTable(header, rows, severities),
		page.Page+1, page.TotalPages(), page.TotalCount,
	)
	return err
}

// renderTable draws the rows with the priority column coloured by severity
func renderTable(header []string, rows [][]string, severities []snow.Severity) string {
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(style.Gray)).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			// Row 0 is the header
			if row == 0 {
				return cell.Copy().Bold(true)
			}
			if col == priorityColumn && row-1 < len(severities) {
				return style.Severity(severities[row-1]).Copy().Padding(0, 1)
			}
			return cell
		})

	return tbl.String()
}
