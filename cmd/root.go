/*
Copyright © 2023 Chris Collins 'collins.christopher@gmail.com'

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/clcollins/srenow/pkg/catalog"
	"github.com/clcollins/srenow/pkg/launcher"
	"github.com/clcollins/srenow/pkg/snow"
	"github.com/clcollins/srenow/pkg/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cfgFile = "srenow.yaml"
const cfgFilePath = ".config/srenow/"
const envPrefix = "SRENOW"

var debug bool

// loadSnowConfig builds the ServiceNow configuration from viper settings
var loadSnowConfig = newSnowConfig

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "srenow",
	Short: "TUI for ServiceNow incidents and change requests",
	Long: `'srenow' is a TUI application for the ServiceNow incidents
and change requests of a service. Point it at a catalog-info.yaml
with --entity to scope it to one catalog entity's configuration
item, or run it without one to see everything the configured
account can read. Records can be created, updated, resolved and
closed without leaving the terminal.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetLevel(log.DebugLevel)
			logSettings()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		table, err := snow.LookupTable(viper.GetString("table"))
		if err != nil {
			log.Fatal(err)
		}

		var reg prometheus.Registerer
		if addr := viper.GetString("metrics_listen"); addr != "" {
			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())
			srv := startMetricsServer(addr, registry)
			defer stopMetricsServer(srv)
			reg = registry
		}

		// Config errors are shown in the TUI rather than exiting here
		cfg, cfgErr := loadSnowConfig(reg)

		browser, err := launcher.NewBrowserLauncher(viper.GetString("browser"))
		if err != nil {
			log.Warn("browser launcher disabled", "error", err)
		}

		m, _ := tui.InitialModel(cfg, cfgErr, table, viper.GetString("state"), browser, debug)

		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err = p.Run()
		if err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debugging output")
	rootCmd.PersistentFlags().StringP("entity", "E", "", "Path to a catalog-info.yaml whose ServiceNow annotations scope the records")
	rootCmd.PersistentFlags().StringP("table", "t", snow.IncidentTable.Name, "Table to show: incident or change_request")
	rootCmd.PersistentFlags().StringP("browser", "b", "", "Command used to open records in a browser; %%URL%% is replaced with the record link")

	for _, f := range []string{"entity", "table", "browser"} {
		cobra.CheckErr(viper.BindPFlag(f, rootCmd.PersistentFlags().Lookup(f)))
	}

	for k, v := range defaultOptionalKeys {
		viper.SetDefault(k, v)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(home + "/" + cfgFilePath)
	viper.SetConfigName(cfgFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn("Config file not found", "error", err)
		} else {
			log.Error("Config file error", "error", err)
		}
	}
}

// newSnowConfig builds the ServiceNow configuration from viper, scoped by the
// catalog entity if one is set
func newSnowConfig(reg prometheus.Registerer) (*snow.Config, error) {
	scope, err := resolveScope(viper.GetString("entity"))
	if err != nil {
		return nil, err
	}

	return snow.NewConfig(snow.ConfigOptions{
		InstanceURL:   viper.GetString("instance_url"),
		APIURL:        viper.GetString("api_url"),
		Token:         viper.GetString("token"),
		Username:      viper.GetString("username"),
		Password:      viper.GetString("password"),
		Timeout:       viper.GetDuration("timeout"),
		RetryAttempts: viper.GetInt("retry_attempts"),
		PageSize:      viper.GetInt("page_size"),
		Scope:         scope,
		Registerer:    reg,
	})
}

// resolveScope loads the catalog entity at path; an empty path is the unscoped view
func resolveScope(path string) (snow.Scope, error) {
	if path == "" {
		return snow.Scope{}, nil
	}

	entity, err := catalog.LoadFile(path)
	if err != nil {
		return snow.Scope{}, err
	}
	return entity.Scope()
}

func startMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("metrics server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()

	return server
}

func stopMetricsServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("metrics server shutdown error", "error", err)
	}
}

// logSettings logs every setting viper found, with secrets masked
func logSettings() {
	settings := viper.GetViper().AllSettings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		log.Debug("Found key", "key", k, "value", maskSetting(k, fmt.Sprintf("%v", settings[k])))
	}
}

func maskSetting(k, v string) string {
	if strings.Contains(k, "token") || strings.Contains(k, "password") {
		return "*****"
	}
	return v
}
