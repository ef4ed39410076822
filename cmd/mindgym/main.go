// Package main provides the CLI entrypoint for mindgym.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/mindgym/internal/bank"
	"github.com/verte-zerg/mindgym/internal/config"
	"github.com/verte-zerg/mindgym/internal/exercise"
	"github.com/verte-zerg/mindgym/internal/model"
	"github.com/verte-zerg/mindgym/internal/prng"
	"github.com/verte-zerg/mindgym/internal/stats"
	"github.com/verte-zerg/mindgym/internal/statsui"
	"github.com/verte-zerg/mindgym/internal/store"
	"github.com/verte-zerg/mindgym/internal/tui"
)

var (
	playDay     string
	playSeedKey string
	contentDir  string
	dbPath      string

	statsExercise    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakTop     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mindgym [exercise]",
		Short:         "Daily brain-training exercises in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (default: built-in library)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")
	rootCmd.Flags().StringVar(&playDay, "day", "", "play the rounds of a given day (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&playSeedKey, "seed-key", "", "explicit seed key, overrides --day")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// appState is what every subcommand starts from.
type appState struct {
	settings config.Settings
	library  bank.Library
	snapshot exercise.Snapshot
}

// loadRuntime merges settings and builds the exercise snapshot.
// Any content error aborts here, before a session or a database is touched.
func loadRuntime(cmd *cobra.Command) (appState, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return appState{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.ParseEnv()
	if err != nil {
		return appState{}, err
	}
	settings := config.Resolve(fileCfg, envCfg)
	applyStringFlag(cmd, "content", &settings.ContentDir, contentDir)
	applyStringFlag(cmd, "db", &settings.DBPath, dbPath)
	applyStringFlag(cmd, "day", &settings.Day, playDay)
	applyStringFlag(cmd, "seed-key", &settings.SeedKey, playSeedKey)

	var lib bank.Library
	if settings.ContentDir != "" {
		lib, err = bank.LoadDir(settings.ContentDir)
	} else {
		lib, err = bank.Default()
	}
	if err != nil {
		return appState{}, fmt.Errorf("failed to load content: %w", err)
	}
	snap, err := lib.Build()
	if err != nil {
		return appState{}, fmt.Errorf("invalid content: %w", err)
	}
	return appState{settings: settings, library: lib, snapshot: snap}, nil
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if err := writeExerciseList(cmd.OutOrStdout(), rt.snapshot); err != nil {
			return err
		}
		return fmt.Errorf("choose an exercise: mindgym <exercise>")
	}
	cfg, ok := rt.snapshot.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown exercise %q (available: %s)", args[0], strings.Join(rt.snapshot.IDs(), ", "))
	}
	day, err := config.ParseDay(rt.settings.Day, time.Now())
	if err != nil {
		return err
	}

	st, err := store.Open(rt.settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, resolveSeedKey(rt.settings.SeedKey, cfg, day),
		tui.WithRecorder(st),
		tui.WithCatalog(rt.library.Catalog),
	)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if summary, ok := m.Engine().Summary(); ok {
		logErrf("%s: %d/%d in %ds\n", summary.ExerciseID, summary.Correct, summary.Rounds, summary.DurationSec)
	}
	return nil
}

// resolveSeedKey picks the explicit key, then the exercise's fixed key, then the day.
func resolveSeedKey(explicit string, cfg exercise.Config, day time.Time) string {
	if explicit != "" {
		return explicit
	}
	if cfg.SeedKey != "" {
		return cfg.SeedKey
	}
	return day.Format(prng.DayLayout)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List exercises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			return writeExerciseList(cmd.OutOrStdout(), rt.snapshot)
		},
	}
}

func writeExerciseList(w io.Writer, snap exercise.Snapshot) error {
	ids := snap.IDs()
	idWidth := 0
	for _, id := range ids {
		idWidth = max(idWidth, runewidth.StringWidth(id))
	}
	for _, id := range ids {
		cfg, _ := snap.Get(id)
		title := cfg.Title
		if title == "" {
			title = id
		}
		line := fmt.Sprintf("%s  %-11s %2d rounds  %s", runewidth.FillRight(id, idWidth), cfg.Template, cfg.RoundsTotal, title)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check content and report the first error",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			rounds := 0
			for _, id := range rt.snapshot.IDs() {
				cfg, _ := rt.snapshot.Get(id)
				rounds += len(cfg.Pool)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d exercises, %d banks, %d rounds\n",
				rt.snapshot.Len(), len(rt.library.Banks), rounds)
			return err
		},
	}
}

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsExercise, "exercise", "", "exercise filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", config.DefaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakTop, "weak-top", config.DefaultWeakTop, "number of weak rounds to list")
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStats(cmd, func(st *store.Store, cfg model.StatsConfig) error {
				program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("failed to run stats TUI: %w", err)
				}
				return nil
			})
		},
	}
	addStatsFlags(cmd)
	return cmd
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a plain-text stats report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStats(cmd, func(st *store.Store, cfg model.StatsConfig) error {
				report, err := stats.BuildReport(cmd.Context(), st, cfg)
				if err != nil {
					return fmt.Errorf("failed to build report: %w", err)
				}
				return report.Render(cmd.OutOrStdout(), cfg, 0)
			})
		},
	}
	addStatsFlags(cmd)
	return cmd
}

func withStats(cmd *cobra.Command, run func(*store.Store, model.StatsConfig) error) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	cfg, err := statsConfig(cmd, rt.settings)
	if err != nil {
		return err
	}
	if cfg.ExerciseID != "" {
		if _, ok := rt.snapshot.Get(cfg.ExerciseID); !ok {
			return fmt.Errorf("unknown exercise %q", cfg.ExerciseID)
		}
	}
	st, err := store.Open(rt.settings.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return run(st, cfg)
}

func statsConfig(cmd *cobra.Command, settings config.Settings) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation(prng.DayLayout, statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	window := settings.CurveWindow
	applyIntFlag(cmd, "curve-window", &window, statsCurveWindow)
	weakTop := settings.WeakTop
	applyIntFlag(cmd, "weak-top", &weakTop, statsWeakTop)
	if statsLast < 0 || window < 1 || weakTop < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last and --weak-top must be >= 0, --curve-window >= 1")
	}
	return model.StatsConfig{
		ExerciseID:  statsExercise,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: window,
		WeakTop:     weakTop,
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if f := cmd.Flags().Lookup(name); f == nil || !f.Changed {
		return
	}
	*target = value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mindgym configuration
# Uncomment a value to enable it. Environment variables override the file,
# CLI flags override both.

[play]
# day = "2024-06-01"      # Replay a given day (default: today); env MINDGYM_DAY
# seed-key = "practice"   # Fixed seed key instead of the day; env MINDGYM_SEED_KEY

[content]
# dir = "~/mindgym"       # Content directory (default: built-in); env MINDGYM_CONTENT_DIR

[storage]
# SQLite database; env MINDGYM_DB_PATH
# db = %q

[stats]
# curve-window = %d       # Moving average window
# weak-top = %d           # Number of weak rounds to list
`,
		config.DefaultDBPath(),
		config.DefaultCurveWindow,
		config.DefaultWeakTop,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
