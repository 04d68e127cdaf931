// main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"signalmap/internal/config"
	"signalmap/internal/decode"
	"signalmap/internal/logging"
	"signalmap/internal/table"
)

type options struct {
	configPath string
	port       string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options
	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := o.load(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	}

	root := &cobra.Command{
		Use:          "signalmap",
		Short:        "Dashboard for radio signal measurement spreadsheets",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serve,
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&o.port, "port", config.DefaultPort, "Port to listen on")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})
	root.AddCommand(&cobra.Command{
		Use:   "inspect [file]",
		Short: "Decode a spreadsheet and print a JSON summary of its sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			logging.SetLevel(cfg.LogLevel)
			return inspect(cmd, args[0])
		},
	})
	return root
}

// load reads the config file and environment, then applies the flags the
// user actually set.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.SetLevel(cfg.LogLevel)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newServer(cfg).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logging.Infof("Server running on http://localhost%s", cfg.Addr())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logging.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type sheetSummary struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	ID      string   `json:"id_column,omitempty"`
	Lon     string   `json:"lon_column,omitempty"`
	Lat     string   `json:"lat_column,omitempty"`
	Signals []string `json:"signal_columns"`
	Sites   bool     `json:"sites,omitempty"`
}

func column(t *table.Table, i int) string {
	if i < 0 || i >= len(t.Columns) {
		return ""
	}
	return t.Columns[i]
}

func inspect(cmd *cobra.Command, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	res := decode.Decode(filepath.Base(path), payload)
	if res.Status != decode.StatusDecoded {
		if res.Err != nil {
			return fmt.Errorf("%s: %w", path, res.Err)
		}
		return fmt.Errorf("%s: %s", path, res.Status)
	}

	out := make([]sheetSummary, 0, len(res.Sheets))
	for _, sh := range res.Sheets {
		t := &sh.Table
		keys := t.Keys()
		sum := sheetSummary{
			Name:    sh.Name,
			Rows:    len(t.Rows),
			Columns: t.Columns,
			ID:      column(t, keys.ID),
			Lon:     column(t, keys.Lon),
			Lat:     column(t, keys.Lat),
			Signals: []string{},
			Sites:   table.IsSites(sh.Name),
		}
		for _, c := range t.SignalColumns() {
			sum.Signals = append(sum.Signals, t.Columns[c])
		}
		out = append(out, sum)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
