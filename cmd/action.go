package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/clcollins/srenow/pkg/snow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	actionCreate  = "create"
	actionUpdate  = "update"
	actionResolve = "resolve"
	actionClose   = "close"
)

type actionOptions struct {
	description string
	priority    string
	risk        string
	notes       string
}

var actionOpts actionOptions

var createCmd = &cobra.Command{
	Use:          "create",
	Short:        "Create an incident or change request",
	Long:         `Create a record in the configured table, linked to the catalog entity's configuration item if one is set.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeAction(cmd, actionCreate, "")
	},
}

var updateCmd = &cobra.Command{
	Use:          "update SYS_ID",
	Short:        "Replace the short description of a record",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeAction(cmd, actionUpdate, args[0])
	},
}

var resolveCmd = &cobra.Command{
	Use:          "resolve SYS_ID",
	Short:        "Resolve a record with resolution notes",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeAction(cmd, actionResolve, args[0])
	},
}

var closeCmd = &cobra.Command{
	Use:          "close SYS_ID",
	Short:        "Close a record with closure notes",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeAction(cmd, actionClose, args[0])
	},
}

func init() {
	rootCmd.AddCommand(createCmd, updateCmd, resolveCmd, closeCmd)

	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVarP(&actionOpts.description, "description", "D", "", "Short description of the record")
		cobra.CheckErr(c.MarkFlagRequired("description"))
	}

	createCmd.Flags().StringVarP(&actionOpts.priority, "priority", "p", snow.NewCreateOptions().Priority, "Priority, 1 (Critical) to 4 (Low)")
	createCmd.Flags().StringVarP(&actionOpts.risk, "risk", "r", snow.NewCreateOptions().Risk, "Risk for change requests, 1 (Very High) to 4 (Low)")

	for _, c := range []*cobra.Command{resolveCmd, closeCmd} {
		c.Flags().StringVarP(&actionOpts.notes, "notes", "n", "", "Resolution or closure notes")
	}
}

func executeAction(cmd *cobra.Command, action string, sysID string) error {
	t, err := snow.LookupTable(viper.GetString("table"))
	if err != nil {
		return err
	}

	cfg, err := loadSnowConfig(nil)
	if err != nil {
		return err
	}

	return runAction(cmd.Context(), cmd.OutOrStdout(), cfg, t, action, sysID, actionOpts)
}

// runAction performs a single create, update, resolve or close and prints the result
func runAction(ctx context.Context, w io.Writer, cfg *snow.Config, t snow.Table, action string, sysID string, opts actionOptions) error {
	if action != actionCreate && strings.TrimSpace(sysID) == "" {
		return fmt.Errorf("%s: %w", action, snow.ErrMissingSysID)
	}

	log.Debug("cmd.runAction(): running action", "action", action, "table", t.Name, "sys_id", sysID)

	switch action {
	case actionCreate:
		o := snow.NewCreateOptions()
		o.ShortDescription = opts.description
		o.CISysID = cfg.Scope.CISysID
		if opts.priority != "" {
			o.Priority = opts.priority
		}
		if opts.risk != "" {
			o.Risk = opts.risk
		}

		ref, err := snow.CreateRecord(ctx, cfg.Client, t, o)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Created %s %s: %s\n%s\n",
			strings.TrimSuffix(t.Label, "s"), ref.Number, ref.ShortDescription,
			snow.RecordURL(cfg.InstanceURL, t.Name, ref.SysID),
		)
		return err

	case actionUpdate:
		err := snow.UpdateDescription(ctx, cfg.Client, t, sysID, opts.description)
		if err != nil {
			return err
		}

	case actionResolve:
		err := snow.ResolveRecord(ctx, cfg.Client, t, sysID, opts.notes)
		if err != nil {
			return err
		}

	case actionClose:
		err := snow.CloseRecord(ctx, cfg.Client, t, sysID, opts.notes)
		if err != nil {
			return err
		}

	default:
		return errors.New("unknown action: " + action)
	}

	_, err := fmt.Fprintf(w, "%s %s: %s\n%s\n",
		pastTense(action), t.Name, sysID,
		snow.RecordURL(cfg.InstanceURL, t.Name, sysID),
	)
	return err
}

func pastTense(action string) string {
	switch action {
	case actionUpdate:
		return "Updated"
	case actionResolve:
		return "Resolved"
	case actionClose:
		return "Closed"
	}
	return action
}
