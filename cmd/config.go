package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/clcollins/srenow/pkg/deprecation"
	"github.com/clcollins/srenow/pkg/launcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	exampleConfig = `
# Example srenow configuration file
---
# This is an example configuration file for srenow.  It is intended to be used
# as a reference for the configuration options available to the user.  The
# configuration file is located at ~/.config/srenow/srenow.yaml

# Required configuration options

# ServiceNow instance; used for API calls and record links
instance_url: https://<instance>.service-now.com

# Either an OAuth bearer token...
token: <ServiceNow OAuth token>
# ...or basic auth credentials
# username: <ServiceNow user>
# password: <ServiceNow password>

# Optional configuration options

# Base URL for Table API calls, if it differs from instance_url (eg: a proxy)
api_url: https://<proxy>/servicenow

# Records per page (5, 10, 20 or 50)
page_size: 5

# Table shown on start: incident or change_request
table: incident

# State preset shown on start (eg: Active, Resolved, Closed, All)
state: Active

# Browser command for opening records; %%URL%% is replaced with the record link
browser: xdg-open

# Attempts for list and update calls on transient failures
retry_attempts: 3

# Per-request timeout
timeout: 30s

# Address for the Prometheus /metrics endpoint; empty disables it
metrics_listen: 127.0.0.1:9090

# catalog-info.yaml whose servicenow.com/* annotations scope the records
entity: ./catalog-info.yaml`
)

const description = `The config command is used to create or validate the srenow config file.
The config file is located at ~/.config/srenow/srenow.yaml and is used to store
the configuration options for the srenow application.`

var (
	requiredKeys = map[string]string{
		"instance_url": "ServiceNow instance URL",
	}
	defaultOptionalKeys = map[string]string{
		"page_size":      "5",
		"table":          "incident",
		"state":          "Active",
		"browser":        launcher.DefaultBrowserCommand,
		"retry_attempts": "3",
		"timeout":        "30s",
	}
	optionalKeys = map[string]string{
		"api_url":        "Base URL for Table API calls (default: instance_url)",
		"page_size":      fmt.Sprintf("Records per page (default: %v)", defaultOptionalKeys["page_size"]),
		"table":          fmt.Sprintf("Table shown on start (default: %v)", defaultOptionalKeys["table"]),
		"state":          fmt.Sprintf("State preset shown on start (default: %v)", defaultOptionalKeys["state"]),
		"browser":        fmt.Sprintf("Browser command for record links (default: %v)", defaultOptionalKeys["browser"]),
		"retry_attempts": fmt.Sprintf("Attempts on transient failures (default: %v)", defaultOptionalKeys["retry_attempts"]),
		"timeout":        fmt.Sprintf("Per-request timeout (default: %v)", defaultOptionalKeys["timeout"]),
		"metrics_listen": "Address for the /metrics endpoint (default: disabled)",
		"entity":         "catalog-info.yaml scoping the records (default: none)",
	}
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Create or validate the srenow config file",
	Long:         description + "\n\n" + exampleConfig,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case cmd.Flag("create").Value.String() == "true":
			_, err := io.WriteString(cmd.OutOrStdout(), exampleConfig+"\n")
			return err
		case cmd.Flag("validate").Value.String() == "true":
			err := validateConfig(viper.GetViper().AllSettings())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file is valid\n")
			return nil
		default:
			err := cmd.Usage()
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolP("create", "c", false, "print a sample config file")
	configCmd.Flags().BoolP("validate", "v", false, "validate the config file")
	configCmd.MarkFlagsMutuallyExclusive("create", "validate")
}

// validateConfig checks the settings for required keys and credentials,
// reporting deprecated and missing optional keys along the way
func validateConfig(settings map[string]interface{}) error {
	errs := []error{}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if deprecation.Deprecated(k) {
			if r := deprecation.Replacement(k); r != "" {
				log.Warn("Found deprecated key; use its replacement instead", "key_name", k, "replacement", r)
			} else {
				log.Info("Found deprecated key; you may remove this from your config", "key_name", k)
			}
			continue
		}

		log.Debug("Found key", k, maskSetting(k, fmt.Sprintf("%v", settings[k])))
	}

	for k, v := range requiredKeys {
		if !isSet(settings, k) {
			errs = append(errs, fmt.Errorf("missing required key: %s", k))
			log.Error("Missing required key", "key_name", k, "key_description", v)
		}
	}

	if !isSet(settings, "token") && !(isSet(settings, "username") && isSet(settings, "password")) {
		errs = append(errs, errors.New("missing credentials: set token, or username and password"))
		log.Error("Missing credentials", "key_name", "token")
	}

	for k := range optionalKeys {
		if !isSet(settings, k) {
			log.Warn("missing optional key: " + k + "; using default value " + defaultOptionalKeys[k])
		}
	}

	return errors.Join(errs...)
}

func isSet(settings map[string]interface{}, k string) bool {
	v, ok := settings[k]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprintf("%v", v) != ""
}
