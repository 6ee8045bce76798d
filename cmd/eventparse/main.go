// Package main implements eventparse, a command-line front end for the
// dance event extraction engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Kostroma329/Calendar-bot/extract"
	"github.com/Kostroma329/Calendar-bot/internal/config"
	"github.com/Kostroma329/Calendar-bot/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by the subcommands. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "eventparse",
		Short: "Extract date, venue and dances from dance event messages",
		Long: `eventparse reads short Russian messages about folk dance events and
reports when the event starts, where it happens and which dances are on
the programme.

Configuration comes from an optional YAML file (--config) and
EVENTPARSE_* environment variables, e.g. EVENTPARSE_ENGINE_TIMEZONE.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.log == nil {
				return nil
			}
			return logging.Sync(a.log)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newParseCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newLexiconCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, zapcore.AddSync(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// engine builds an extraction engine from the loaded configuration.
func (a *app) engine(opts ...extract.Option) (*extract.Engine, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	tables, err := a.cfg.LoadTables()
	if err != nil {
		return nil, err
	}
	base := []extract.Option{
		extract.WithTables(tables),
		extract.WithLocation(loc),
		extract.WithLogger(a.log.Named("engine")),
	}
	e, err := extract.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	return e, nil
}
