package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/internal/service"
	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	"github.com/noah-isme/sternfield-timetable/pkg/storage"
)

type lookup struct {
	use    string
	short  string
	format func(*timetable.Resolution) string
}

var (
	lookupNow  = lookup{use: "now", short: "Show the lesson in progress", format: service.FormatCurrent}
	lookupNext = lookup{use: "next", short: "Show the next lesson today", format: service.FormatNext}
	lookupFree = lookup{use: "free", short: "List the remaining free periods", format: service.FormatFree}
)

// run bootstraps the services, runs fn and releases resources afterwards.
func run(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := opts.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer syncLogger(a.logger)
	defer a.close()
	return fn(ctx, a)
}

func newLookupCommand(opts *rootOptions, l lookup) *cobra.Command {
	var teacher, day, at string
	cmd := &cobra.Command{
		Use:   l.use,
		Short: l.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.timetable.ResolveInstant(ctx, teacher, day, at)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), l.format(res))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&teacher, "teacher", "", "teacher name")
	cmd.Flags().StringVar(&day, "day", "", "weekday (default today)")
	cmd.Flags().StringVar(&at, "time", "", "time of day as HH:MM (default now)")
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}

func newTodayCommand(opts *rootOptions) *cobra.Command {
	var teacher, day string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show a teacher's full day schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				if day == "" {
					day = a.timetable.Today()
				}
				slots, err := a.timetable.BuildDaySchedule(ctx, teacher, day)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), service.FormatDaySchedule(day, slots))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&teacher, "teacher", "", "teacher name")
	cmd.Flags().StringVar(&day, "day", "", "weekday (default today)")
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}

func newClassCommand(opts *rootOptions) *cobra.Command {
	var day, at string
	cmd := &cobra.Command{
		Use:   "class CLASS",
		Short: "Show what a class has on a day or at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.timetable.QueryClassAtTime(ctx, args[0], dayOrToday(a, day), at)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), service.FormatClassQuery(res))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "weekday (default today)")
	cmd.Flags().StringVar(&at, "time", "", "time of day as HH:MM (default whole day)")
	return cmd
}

func newSubjectsCommand(opts *rootOptions) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "subjects CLASS",
		Short: "List the subjects a class has on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				day = dayOrToday(a, day)
				subjects, err := a.timetable.ListSubjects(ctx, args[0], day)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), service.FormatSubjects(strings.ToUpper(strings.TrimSpace(args[0])), day, subjects))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "weekday (default today)")
	return cmd
}

func newTeacherCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacher",
		Short: "Manage teacher class assignments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered teachers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				teachers, err := a.assignments.Teachers(ctx)
				if err != nil {
					return err
				}
				for _, t := range teachers {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a teacher's assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				assignments, err := a.assignments.List(ctx, args[0])
				if err != nil {
					return err
				}
				printAssignments(cmd, service.NormalizeTeacherName(args[0]), assignments)
				return nil
			})
		},
	}

	var class, subject string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a class and subject for a teacher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				assignments, err := a.assignments.Register(ctx, args[0], service.RegisterAssignmentRequest{Class: class, Subject: subject})
				if err != nil {
					return err
				}
				printAssignments(cmd, service.NormalizeTeacherName(args[0]), assignments)
				return nil
			})
		},
	}
	add.Flags().StringVar(&class, "class", "", "class name, e.g. FORM 1")
	add.Flags().StringVar(&subject, "subject", "", "subject as written in the timetable")
	_ = add.MarkFlagRequired("class")
	_ = add.MarkFlagRequired("subject")

	remove := &cobra.Command{
		Use:   "remove NAME INDEX",
		Short: "Remove a teacher's assignment by its list position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				assignments, err := a.assignments.Remove(ctx, args[0], index)
				if err != nil {
					return err
				}
				printAssignments(cmd, service.NormalizeTeacherName(args[0]), assignments)
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, add, remove)
	return cmd
}

func printAssignments(cmd *cobra.Command, teacher string, assignments []models.Assignment) {
	out := cmd.OutOrStdout()
	if len(assignments) == 0 {
		fmt.Fprintf(out, "%s has no registered classes.\n", teacher)
		return
	}
	fmt.Fprintf(out, "Classes for %s:\n", teacher)
	for i, a := range assignments {
		fmt.Fprintf(out, "%d. %s - %s\n", i, a.Class, a.Subject)
	}
}

func newRemindCommand(opts *rootOptions) *cobra.Command {
	var teacher string
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send lesson reminders for a teacher until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				dispatcher := a.notifier()
				dispatcher.Start(ctx)
				defer dispatcher.Stop()

				manager := a.reminderManager(ctx, dispatcher)
				status, err := manager.Start(ctx, teacher)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reminders running for %s. Press Ctrl+C to stop.\n", status.Teacher)

				<-ctx.Done()
				manager.Stop()
				fmt.Fprintln(cmd.OutOrStdout(), "Reminders stopped.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&teacher, "teacher", "", "teacher name")
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var day, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a schedule to a CSV or PDF file",
	}
	cmd.PersistentFlags().StringVar(&day, "day", "", "weekday (default today)")
	cmd.PersistentFlags().StringVar(&format, "format", service.ExportFormatCSV, "csv or pdf")
	cmd.PersistentFlags().StringVar(&out, "out", "", "output directory (overrides EXPORT_DIR)")

	write := func(cmd *cobra.Command, a *app, file *service.ExportFile) error {
		dir := a.cfg.Export.Dir
		if out != "" {
			dir = out
		}
		store, err := storage.NewLocalStorage(dir)
		if err != nil {
			return err
		}
		path, err := store.Save(file.Filename, file.Body)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	teacher := &cobra.Command{
		Use:   "teacher NAME",
		Short: "Export a teacher's day schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				file, err := a.exports.ExportTeacherDay(ctx, args[0], day, format)
				if err != nil {
					return err
				}
				return write(cmd, a, file)
			})
		},
	}

	class := &cobra.Command{
		Use:   "class CLASS",
		Short: "Export a class's day timetable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				file, err := a.exports.ExportClassDay(ctx, args[0], day, format)
				if err != nil {
					return err
				}
				return write(cmd, a, file)
			})
		},
	}

	cmd.AddCommand(teacher, class)
	return cmd
}

func newChatCommand(opts *rootOptions) *cobra.Command {
	var role, name string
	cmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Ask the timetable assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, a *app) error {
				reply, err := a.chat.Reply(ctx, service.ChatRequest{
					Role:    role,
					Name:    name,
					Message: strings.Join(args, " "),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply.Reply)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", service.RoleTeacher, "teacher or student")
	cmd.Flags().StringVar(&name, "name", "", "your name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func dayOrToday(a *app, day string) string {
	if strings.TrimSpace(day) == "" {
		return a.timetable.Today()
	}
	return day
}
