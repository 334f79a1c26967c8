package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/pkg/config"
	"github.com/noah-isme/sternfield-timetable/pkg/logger"
)

type rootOptions struct {
	logLevel      string
	timetableFile string
	store         string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "timetable",
		Short:         "Timetable lookups and lesson reminders for Sternfield College",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.timetableFile, "timetable", "", "path to the timetable JSON file (overrides TIMETABLE_FILE)")
	flags.StringVar(&opts.store, "store", "", "assignment store: file, postgres or sqlite (overrides ASSIGNMENT_STORE)")

	cmd.AddCommand(
		newServeCommand(opts),
		newLookupCommand(opts, lookupNow),
		newLookupCommand(opts, lookupNext),
		newLookupCommand(opts, lookupFree),
		newTodayCommand(opts),
		newClassCommand(opts),
		newSubjectsCommand(opts),
		newTeacherCommand(opts),
		newRemindCommand(opts),
		newExportCommand(opts),
		newChatCommand(opts),
		newDiffCommand(),
	)
	return cmd
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.timetableFile != "" {
		cfg.Timetable.File = o.timetableFile
	}
	if o.store != "" {
		cfg.Store.Driver = o.store
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// bootstrap loads configuration and wires the services for a one-shot
// command. Command logs go to stderr at warn level unless overridden.
func (o *rootOptions) bootstrap(ctx context.Context) (*app, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	level := "warn"
	if o.logLevel != "" {
		level = o.logLevel
	}
	return newApp(ctx, cfg, logger.NewCLI(level))
}

func syncLogger(l *zap.Logger) {
	_ = l.Sync()
}
