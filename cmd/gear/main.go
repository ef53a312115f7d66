package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gear/internal/bootstrap"
	"gear/internal/platform/config"
)

const clockLayout = "2006-01-02 15:04:05"

type globalFlags struct {
	dataDir string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "gear",
		Short:         "Gear dial stopwatch and countdown timer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if strings.TrimSpace(flags.dataDir) == "" {
				return fmt.Errorf("--data-dir must not be empty")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", config.DefaultDataDir(), "directory for history, snapshot, settings and logs")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newNotifyCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func loadApp(ctx context.Context, flags *globalFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	opts.DataDir = flags.dataDir
	opts.Verbose = flags.verbose
	return bootstrap.New(ctx, opts)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the gear terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{LogToFile: true, Bell: true})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	var countdown time.Duration
	run := &cobra.Command{
		Use:   "run",
		Short: "Run the timer without a UI, printing every tick",
		Long: "Run the timer without a UI. Interrupt records the session and exits; " +
			"SIGUSR1 and SIGUSR2 move the timer to the background and back.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if countdown < 0 {
				return fmt.Errorf("--countdown must not be negative")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(ctx, flags, bootstrap.Options{Bell: true})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunHeadless(ctx, app, bootstrap.HeadlessOptions{
				Countdown: countdown,
				Out:       cmd.OutOrStdout(),
			})
		},
	}
	run.Flags().DurationVar(&countdown, "countdown", 0, "wind a countdown, e.g. 25m (default counts up)")
	return run
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Recorded timer sessions"}

	history.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.TimerCLI.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, e := range entries {
				start := "-"
				if e.StartTime != nil {
					start = e.StartTime.Local().Format(clockLayout)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					e.ID, start, e.EndTime.Local().Format(clockLayout), e.Duration.Round(time.Second))
			}
			return nil
		},
	})

	var dir string
	export := &cobra.Command{
		Use:   "export --dir <dir>",
		Short: "Write sessions as markdown notes with a history index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(dir) == "" {
				return fmt.Errorf("--dir is required")
			}
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.TimerCLI.Export(cmd.Context(), dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d new sessions to %s (index %s)\n", out.Written, out.Dir, out.IndexPath)
			return nil
		},
	}
	export.Flags().StringVar(&dir, "dir", "", "target directory")
	history.AddCommand(export)
	return history
}

func newNotifyCmd(flags *globalFlags) *cobra.Command {
	notify := &cobra.Command{Use: "notify", Short: "Timer notification backend"}

	notify.AddCommand(&cobra.Command{
		Use:   "permission",
		Short: "Show whether the backend may deliver notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.NotifierCLI.Permission(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tgranted=%t\n", out.Backend, out.Granted)
			return nil
		},
	})

	var after time.Duration
	test := &cobra.Command{
		Use:   "test",
		Short: "Schedule a test notification and wait for it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if after <= 0 {
				return fmt.Errorf("--after must be positive")
			}
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Bell: true})
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.NotifierCLI.Test(cmd.Context(), after); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notification scheduled in %s\n", after)

			// The backend lives in this process, so stay up until delivery.
			deadline := time.NewTimer(after + 2*time.Second)
			defer deadline.Stop()
			select {
			case alert, ok := <-app.Alerts:
				if ok {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "delivered: %s: %s\n", alert.Title, alert.Body)
				}
			case <-deadline.C:
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			return nil
		},
	}
	test.Flags().DurationVar(&after, "after", 5*time.Second, "delay before the notification fires")
	notify.AddCommand(test)

	notify.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check configured notifier plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.NotifierCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no plugins in %s\n", app.Config.PluginsPath)
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tchecksum=%t\tbinary=%t\tlifecycle=%t\t%s\n",
					r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK, r.Error)
			}
			return nil
		},
	})
	return notify
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Data directory layout"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the files gear reads and writes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(flags.dataDir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "data\t%s\n", cfg.DataDir)
			_, _ = fmt.Fprintf(w, "settings\t%s\n", cfg.SettingsPath)
			_, _ = fmt.Fprintf(w, "history\t%s\n", cfg.DBPath)
			_, _ = fmt.Fprintf(w, "snapshot\t%s\n", cfg.SnapshotPath)
			_, _ = fmt.Fprintf(w, "plugins\t%s\n", cfg.PluginsPath)
			_, _ = fmt.Fprintf(w, "log\t%s\n", cfg.LogPath)
			return nil
		},
	})
	return cfgCmd
}
