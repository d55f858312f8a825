package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cheru-app/cheru/internal/config"
	"github.com/cheru-app/cheru/internal/engine"
	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/server"
	"github.com/cheru-app/cheru/internal/ui"
)

type runtimeFlags struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &runtimeFlags{}

	root := &cobra.Command{
		Use:           "cheru",
		Short:         "Keystroke-driven application and file launcher",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/cheru/config.toml)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newQueryCmd(flags))
	root.AddCommand(newIndexCmd(flags))
	return root
}

func newTUICmd(flags *runtimeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal launcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}
}

func newServeCmd(flags *runtimeFlags) *cobra.Command {
	addr := "127.0.0.1:7345"
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query interface over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, log, err := buildEngine(flags, false)
			if err != nil {
				return err
			}
			defer eng.Close()
			srv := server.New(eng, debounceDelay(cfg), log)
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "listen address")
	return cmd
}

func newQueryCmd(flags *runtimeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query [text]",
		Short: "Run one query and print the ranked results",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, _, err := buildEngine(flags, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			results := engine.GroupForDisplay(eng.Query(strings.Join(args, " ")))
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-40s %s\n", result.Kind, result.Name, result.Exec)
			}
			return nil
		},
	}
}

func newIndexCmd(flags *runtimeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build the index and print bucket sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, _, err := buildEngine(flags, false)
			if err != nil {
				return err
			}
			defer eng.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "apps indexed: %d\n", eng.IndexSize())
			return nil
		},
	}
}

func runTUI(flags *runtimeFlags) error {
	eng, cfg, _, err := buildEngine(flags, true)
	if err != nil {
		return err
	}
	defer eng.Close()
	return ui.Run(eng, debounceDelay(cfg), newLogger(flags, true))
}

// buildEngine loads config, builds the startup index and wires the engine.
// quiet suppresses stderr logging, which would corrupt the terminal UI.
func buildEngine(flags *runtimeFlags, quiet bool) (*engine.Engine, *config.Config, *logrus.Logger, error) {
	log := newLogger(flags, quiet)

	var cfg *config.Config
	if flags.configPath != "" {
		cfg = config.LoadFrom(flags.configPath, log)
	} else {
		cfg = config.Load(log)
	}

	store := index.Build(index.Options{
		FolderDepth: cfg.FolderDepth,
		MaxImages:   cfg.MaxImages,
		Log:         log,
	})

	eng, err := engine.New(store, nil, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return eng, cfg, log, nil
}

func newLogger(flags *runtimeFlags, quiet bool) *logrus.Logger {
	log := logrus.New()
	if quiet && !flags.verbose {
		log.SetOutput(io.Discard)
	}
	if flags.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func debounceDelay(cfg *config.Config) time.Duration {
	return time.Duration(cfg.DebounceMS) * time.Millisecond
}
