package deskkit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type CLIConfig struct {
	ConfigPath  string
	JournalPath string
	LogLevel    string
	NoAnimation bool
	Completion  string

	Prefix    string
	OfferUndo bool

	Session int
	ID      string
	Yes     bool

	HTML string

	Plain bool

	Serve    string
	DiskPath string
	Interval time.Duration
}

var cfg = &CLIConfig{}

var rootCmd = &cobra.Command{
	Use:   "deskkit",
	Short: "Bulk rename with undo, folder tidying, a stopwatch and host stats.",
	Long: `Desk Kit bundles small desktop conveniences:

  rename     give every file in a folder the name PREFIX_NNN.ext (undoable)
  undo       restore the names of a rename session
  history    list, export or clear the rename history
  organize   sort files into folders named after their extension
  stopwatch  time something
  sysmon     show CPU, memory and disk usage

Run without a command on a terminal to get the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Completion != "" {
			return handleCompletion(cmd)
		}
		if !IsInteractive() {
			return cmd.Help()
		}
		return runMenu(cmd)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [DIR]",
	Short: "Rename every file in DIR to PREFIX_NNN.ext",
	Long: `Rename every regular file directly inside DIR to PREFIX_001.ext, PREFIX_002.ext, ...
in name order. Files whose new name is already taken are skipped. The batch is
recorded in the rename history so it can be undone.

DIR defaults to the first line of piped stdin, then to the clipboard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		progress := NewProgress(cmd.ErrOrStderr(), "Renaming", cfg.NoAnimation || !IsInteractive())
		app.Engine.SetProgressCallback(progress.Update)

		var res RenameResult
		err = progress.Run(func() error {
			var err error
			res, err = app.Engine.Rename(dir, cfg.Prefix)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprint(out, FormatRenameResult(res))

		if res.Session == nil || !cfg.OfferUndo || !IsInteractive() {
			return nil
		}
		undo, err := HuhPrompter{}.Confirm("Would you like to undo this operation?", "")
		if err != nil || !undo {
			return ignoreAbort(err)
		}
		u, err := app.Engine.Undo(SelectByID(res.Session.ID))
		if err != nil {
			return err
		}
		fmt.Fprint(out, FormatUndoResult(u))
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent rename session, or the one given by --session/--id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		sel := MostRecent()
		switch {
		case cmd.Flags().Changed("session") && cfg.ID != "":
			return errors.New("--session and --id are mutually exclusive")
		case cmd.Flags().Changed("session"):
			sel = SelectIndex(cfg.Session)
		case cfg.ID != "":
			sel = SelectByID(cfg.ID)
		}

		if sel != MostRecent() {
			s, idx, err := app.Engine.Session(sel)
			if err != nil {
				return err
			}
			ok, err := confirm(fmt.Sprintf("Undo session %d?", idx),
				fmt.Sprintf("%d files in %s (prefix %q)", len(s.Operations), s.Directory, s.Prefix))
			if err != nil || !ok {
				return err
			}
		}

		progress := NewProgress(cmd.ErrOrStderr(), "Restoring", cfg.NoAnimation || !IsInteractive())
		app.Engine.SetProgressCallback(progress.Update)

		var res UndoResult
		err = progress.Run(func() error {
			var err error
			res, err = app.Engine.Undo(sel)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), FormatUndoResult(res))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list"},
	Short:   "List recorded rename sessions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()
		fmt.Fprint(cmd.OutOrStdout(), FormatHistory(app.Engine.List(), time.Now()))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every rename session (files keep their current names)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		n := len(app.Engine.List())
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Rename history is already empty.")
			return nil
		}
		ok, err := confirm("Clear the rename history?",
			fmt.Sprintf("%d sessions will be forgotten. This cannot be undone.", n))
		if err != nil || !ok {
			return err
		}
		if err := app.Engine.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("Rename history cleared."))
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the rename history as markdown (stdout) or HTML (--html FILE)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		list := app.Engine.List()
		if cfg.HTML == "" {
			fmt.Fprint(cmd.OutOrStdout(), HistoryMarkdown(list))
			return nil
		}
		page, err := HistoryHTML(list)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.HTML, page, 0644); err != nil {
			return fmt.Errorf("write %s: %w", cfg.HTML, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.HTML)
		return nil
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize [DIR]",
	Short: "Move files in DIR into folders named after their extension",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveDir(args)
		if err != nil {
			return err
		}
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		progress := NewProgress(cmd.ErrOrStderr(), "Organizing", cfg.NoAnimation || !IsInteractive())
		app.Organizer.SetProgressCallback(progress.Update)

		var res OrganizeResult
		err = progress.Run(func() error {
			var err error
			res, err = app.Organizer.Organize(dir)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), FormatOrganizeResult(res))
		return nil
	},
}

var stopwatchCmd = &cobra.Command{
	Use:   "stopwatch",
	Short: "Start a timer and stop it with Enter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := runStopwatch(cfg.Plain || !IsInteractive())
		if err != nil {
			return ignoreAbort(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Elapsed time: %s.\n", FormatElapsed(d))
		return nil
	},
}

var sysmonCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Show CPU, memory and disk usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if cfg.Serve == "" {
			snap, err := app.Monitor.Collect(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatSnapshot(snap))
			return nil
		}
		return serveMetrics(cmd.Context(), app, cfg.Serve)
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func handleCompletion(cmd *cobra.Command) error {
	switch cfg.Completion {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", cfg.Completion)
	}
}

// loadApp merges the config file with command-line overrides.
func loadApp() (*App, error) {
	c, err := LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.JournalPath != "" {
		c.JournalPath = cfg.JournalPath
	}
	if cfg.LogLevel != "" {
		c.Log.Level = cfg.LogLevel
	}
	if cfg.DiskPath != "" {
		c.Sysmon.DiskPath = cfg.DiskPath
	}
	if cfg.Interval > 0 {
		c.Sysmon.SampleInterval = cfg.Interval
	}
	return NewApp(c, EventFuncs{}, nil)
}

func resolveDir(args []string) (string, error) {
	var dir string
	if len(args) > 0 {
		dir = args[0]
	} else {
		d, err := NewDirSource().Get()
		if err != nil {
			return "", fmt.Errorf("no directory given: pass DIR, pipe it or copy it to the clipboard (%w)", err)
		}
		dir = d
	}
	r, err := NewPathResolver()
	if err != nil {
		return "", err
	}
	return r.Resolve(dir), nil
}

// confirm asks before destructive actions. --yes skips the question; without
// a terminal the action is refused.
func confirm(title, description string) (bool, error) {
	if cfg.Yes {
		return true, nil
	}
	if !IsInteractive() {
		return false, errors.New("refusing without confirmation: pass --yes")
	}
	ok, err := HuhPrompter{}.Confirm(title, description)
	return ok, ignoreAbort(err)
}

func ignoreAbort(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

func runStopwatch(plain bool) (time.Duration, error) {
	timer := NewStopwatch()
	if plain {
		timer.Start()
		fmt.Println("Timer started.")
		fmt.Print("⏱️ Press Enter to stop timer...")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		return timer.Stop()
	}

	final, err := tea.NewProgram(NewStopwatchModel(timer)).Run()
	if err != nil {
		return 0, err
	}
	d, stopped := final.(StopwatchModel).Elapsed()
	if !stopped {
		return 0, ErrAborted
	}
	return d, nil
}

func runMenu(cmd *cobra.Command) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()

	resolver, err := NewPathResolver()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("🚀 Welcome to Desk Kit!"))
	m := &Menu{
		App:       app,
		Prompt:    HuhPrompter{},
		Out:       cmd.OutOrStdout(),
		Resolver:  resolver,
		Stopwatch: func() (time.Duration, error) { return runStopwatch(false) },
	}
	if gui, err := exec.LookPath("deskkit-gui"); err == nil {
		m.LaunchGUI = func() error { return exec.Command(gui).Start() }
	}
	return m.Run(cmd.Context())
}

// serveMetrics refreshes the host snapshot every sample interval and
// exposes it with the operation counters until ctx is done.
func serveMetrics(ctx context.Context, app *App, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		for ctx.Err() == nil {
			if _, err := app.Monitor.Collect(ctx); err != nil && ctx.Err() == nil {
				app.Logger.Warn("sysmon snapshot failed", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(app.Config.Sysmon.SampleInterval):
				}
			}
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	app.Logger.Info("serving metrics", "addr", addr, "path", "/metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", "", "Config file (YAML)")
	pf.StringVar(&cfg.JournalPath, "journal", "", "Rename history file (default rename_history.json)")
	pf.StringVar(&cfg.LogLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable spinner")
	rootCmd.Flags().StringVar(&cfg.Completion, "completion", "", "Generate completion script")

	renameCmd.Flags().StringVarP(&cfg.Prefix, "prefix", "p", "", "Prefix for the new names")
	renameCmd.Flags().BoolVarP(&cfg.OfferUndo, "offer-undo", "u", false, "Ask whether to undo right away")
	_ = renameCmd.MarkFlagRequired("prefix")

	undoCmd.Flags().IntVarP(&cfg.Session, "session", "s", 0, "Session number as shown by deskkit history")
	undoCmd.Flags().StringVar(&cfg.ID, "id", "", "Session id")
	undoCmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation")

	historyClearCmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation")
	historyExportCmd.Flags().StringVar(&cfg.HTML, "html", "", "Write an HTML report to this file")

	stopwatchCmd.Flags().BoolVar(&cfg.Plain, "plain", false, "No live display; wait for Enter on stdin")

	sysmonCmd.Flags().StringVar(&cfg.Serve, "serve", "", "Serve Prometheus metrics on this address, e.g. :9100")
	sysmonCmd.Flags().StringVar(&cfg.DiskPath, "disk", "", "Path whose filesystem is measured")
	sysmonCmd.Flags().DurationVar(&cfg.Interval, "interval", 0, "CPU sample interval")

	historyCmd.AddCommand(historyClearCmd, historyExportCmd)
	rootCmd.AddCommand(renameCmd, undoCmd, historyCmd, organizeCmd, stopwatchCmd, sysmonCmd, menuCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
