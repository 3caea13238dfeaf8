package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alexcabrera/pickr/internal/config"
	"github.com/alexcabrera/pickr/internal/logging"
	"github.com/alexcabrera/pickr/internal/paths"
	"github.com/alexcabrera/pickr/internal/pipe"
	"github.com/alexcabrera/pickr/internal/ui/dropdown"
	"github.com/alexcabrera/pickr/internal/ui/picker"
	"github.com/alexcabrera/pickr/internal/ui/styles"
	"github.com/alexcabrera/pickr/internal/version"
)

var errCancelled = errors.New("cancelled")

// pickFlags holds the flags of the root command. Flags left unset fall back
// to the config file.
type pickFlags struct {
	label             string
	placeholder       string
	value             string
	search            bool
	searchPlaceholder string
	sort              string
	floating          bool
	required          bool
	helperText        string
	noTick            bool
	emptyText         string
	file              string
	width             int
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var debug bool
	var f pickFlags

	cmd := &cobra.Command{
		Use:   "pickr [flags] [label=value ...]",
		Short: "Pick a value from a dropdown",
		Long: "Show a dropdown of options and print the selected value.\n\n" +
			"Options come from arguments, --file (YAML or JSON list, or one per line)\n" +
			"or piped stdin, as \"label=value\" or a bare label.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(&cfgPath, debug, func(cfg config.Config) error {
				data, err := readOptions(args, f.file)
				if err != nil {
					return err
				}
				opts, err := buildOptions(cfg, cmd.Flags(), f, data)
				if err != nil {
					return err
				}

				dd := dropdown.New(opts)
				defer dd.Close()

				p := picker.New(cmd.Context(), dd, nil)
				if err := p.Run(pipe.UIOutput()); err != nil {
					return err
				}
				value, _, ok := p.Selected()
				if !ok {
					slog.Info("picker cancelled")
					return errCancelled
				}
				slog.Info("picked", "value", value)
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to config file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs")

	bindPickFlags(cmd.Flags(), &f)

	cmd.AddCommand(newDemoCmd(&cfgPath, &debug))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
		},
	}
}

func defaultConfigPath() string {
	return paths.FindConfigFile()
}

func loadConfig(cfgPath string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.CheckVersion(version.Version); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// withConfig loads the config, sets up logging and the theme, then runs fn.
func withConfig(cfgPath *string, debug bool, fn func(config.Config) error) error {
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}

	closer, err := setupLogging(cfg, debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	styles.SetTheme(cfg.StyleTheme())
	return fn(cfg)
}

func setupLogging(cfg config.Config, debug bool) (io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if debug {
		level = logging.LevelTrace
	}
	if cfg.LoggingDisabled() {
		logging.Discard()
		return io.NopCloser(nil), nil
	}
	closer, err := logging.Setup(cfg.LogFile, level)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "version", version.Version, "log_level", level)
	return closer, nil
}
