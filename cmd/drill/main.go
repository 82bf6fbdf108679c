// Package main provides the CLI entrypoint for drill.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/drill/internal/config"
	"github.com/verte-zerg/drill/internal/grader"
	"github.com/verte-zerg/drill/internal/model"
	"github.com/verte-zerg/drill/internal/scheduler"
	"github.com/verte-zerg/drill/internal/session"
	"github.com/verte-zerg/drill/internal/sets"
	"github.com/verte-zerg/drill/internal/stats"
	"github.com/verte-zerg/drill/internal/statsui"
	"github.com/verte-zerg/drill/internal/store"
	"github.com/verte-zerg/drill/internal/tui"
)

const (
	defaultBackend = store.BackendJSON
	defaultDelayMs = 400
	defaultPolicy  = string(grader.PolicyTiered)
	defaultWeakTop = 10
)

var (
	studySetsDir  string
	studyProgress string
	studyBackend  string
	studyDelayMs  int
	studyPolicy   string
	studySeed     int64

	statsWeakTop int
	statsPlain   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "drill [pattern]",
		Short:         "Spaced-repetition flashcard trainer",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runStudyCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&studySetsDir, "sets", config.DefaultSetsDir(), "question-set directory")
	flags.StringVar(&studyProgress, "progress", "", "progress file (default: user.json, or the XDG data dir for sqlite)")
	flags.StringVar(&studyBackend, "backend", defaultBackend, "progress backend (json or sqlite)")
	rootCmd.Flags().IntVar(&studyDelayMs, "delay-ms", defaultDelayMs, "pause after feedback in milliseconds")
	rootCmd.Flags().StringVar(&studyPolicy, "policy", defaultPolicy, "quiz mode policy (tiered or threshold)")
	rootCmd.Flags().Int64Var(&studySeed, "seed", 0, "random seed for question order (default: time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSetsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func loadStudyConfig(cmd *cobra.Command, args []string) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "sets", &studySetsDir, fileCfg.Study.SetsDir)
	applyStringConfig(cmd, "progress", &studyProgress, fileCfg.Study.ProgressPath)
	applyStringConfig(cmd, "backend", &studyBackend, fileCfg.Study.Backend)
	applyIntConfig(cmd, "delay-ms", &studyDelayMs, fileCfg.Study.DelayMs)
	applyStringConfig(cmd, "policy", &studyPolicy, fileCfg.Study.Policy)

	cfg := model.Config{
		SetsDir:      studySetsDir,
		ProgressPath: studyProgress,
		Backend:      studyBackend,
		DelayMs:      studyDelayMs,
		Policy:       studyPolicy,
		Seed:         studySeed,
	}
	if len(args) > 0 {
		cfg.Pattern = args[0]
	}
	if cfg.ProgressPath == "" {
		cfg.ProgressPath = defaultProgressPath(cfg.Backend)
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runStudyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadStudyConfig(cmd, args)
	if err != nil {
		return err
	}
	policy, err := grader.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	selected, err := sets.Select(cfg.SetsDir, cfg.Pattern)
	if err != nil {
		return setsError(cfg, err)
	}
	questions, err := sets.LoadAll(ctx, selected)
	if err != nil {
		return fmt.Errorf("failed to load question sets: %w", err)
	}

	st, err := store.Open(cfg.Backend, cfg.ProgressPath)
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}
	defer closeStore(st)

	sched := scheduler.New()
	if cmd.Flags().Changed("seed") {
		sched = scheduler.NewWithSeed(cfg.Seed)
	}

	screen := newTerminal(ctx, os.Stdin, os.Stdout)
	g := grader.New(screen, grader.AnswerPool(questions),
		grader.WithPolicy(policy),
		grader.WithRand(sched.Rand()),
	)
	driver := session.New(session.Options{
		Store:     st,
		Scheduler: sched,
		Grader:    g,
		UI:        screen,
		Delay:     time.Duration(cfg.DelayMs) * time.Millisecond,
	})
	if err := driver.Load(ctx, questions); err != nil {
		return err
	}

	screen.ShowBanner(sets.Titles(selected))
	return driver.Run(ctx)
}

// newTerminal picks the interactive prompter when stdin is a terminal and
// plain line input otherwise.
func newTerminal(ctx context.Context, in *os.File, out *os.File) *tui.Terminal {
	interactiveOut := term.IsTerminal(int(out.Fd()))
	width := 0
	if interactiveOut {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil {
			width = w
		}
	}
	var prompter tui.Prompter
	if term.IsTerminal(int(in.Fd())) {
		prompter = tui.NewTeaPrompter(ctx, in, out)
	} else {
		prompter = tui.NewLinePrompter(ctx, in, out)
	}
	return tui.NewTerminal(out, prompter, width, interactiveOut)
}

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets [pattern]",
		Short: "List question sets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSetsCmd,
	}
}

func runSetsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadStudyConfig(cmd, args)
	if err != nil {
		return err
	}
	selected, err := sets.Select(cfg.SetsDir, cfg.Pattern)
	if err != nil {
		return setsError(cfg, err)
	}
	questions, err := sets.LoadAll(cmd.Context(), selected)
	if err != nil {
		return fmt.Errorf("failed to load question sets: %w", err)
	}
	return writeSetList(cmd.OutOrStdout(), selected, questions)
}

func writeSetList(w io.Writer, selected []model.Set, questions []model.Question) error {
	counts := make(map[string]int, len(selected))
	for _, q := range questions {
		counts[q.Set]++
	}
	for _, set := range selected {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", set.Name, set.Title, counts[set.Name]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [pattern]",
		Short: "Show rank summary per set",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsWeakTop, "weak", defaultWeakTop, "number of lowest-ranked questions to list (0 disables)")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain table instead of the interactive viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadStudyConfig(cmd, args)
	if err != nil {
		return err
	}
	if statsWeakTop < 0 {
		return fmt.Errorf("--weak must be >= 0")
	}
	selected, err := sets.Select(cfg.SetsDir, cfg.Pattern)
	if err != nil {
		return setsError(cfg, err)
	}
	questions, err := sets.LoadAll(cmd.Context(), selected)
	if err != nil {
		return fmt.Errorf("failed to load question sets: %w", err)
	}

	st, err := store.Open(cfg.Backend, cfg.ProgressPath)
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}
	defer closeStore(st)

	// The driver is only used to seed ranks; nothing is saved.
	driver := session.New(session.Options{Store: st})
	if err := driver.Load(cmd.Context(), questions); err != nil {
		return err
	}
	ranked := driver.Questions()
	report := stats.BuildReport(selected, ranked, driver.Iteration())
	weakest := stats.Weakest(ranked, statsWeakTop)

	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && !statsPlain && term.IsTerminal(int(f.Fd())) {
		program := tea.NewProgram(statsui.NewModel(report, weakest), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}
	if err := stats.Render(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderWeakest(out, weakest, driver.Iteration()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# drill configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# sets = %q            # Question-set directory
# progress = %q   # Progress file (sqlite default: %s)
# backend = %q           # Progress backend: json or sqlite
# delay-ms = %d            # Pause after feedback in milliseconds
# policy = %q          # Quiz mode policy: tiered or threshold
`,
		config.DefaultSetsDir(),
		config.DefaultProgressPath(),
		config.DefaultDBPath(),
		defaultBackend,
		defaultDelayMs,
		defaultPolicy,
	)
}

func defaultProgressPath(backend string) string {
	if backend == store.BackendSQLite {
		return config.DefaultDBPath()
	}
	return config.DefaultProgressPath()
}

func validateConfig(cfg model.Config) error {
	if cfg.SetsDir == "" {
		return fmt.Errorf("--sets must not be empty")
	}
	switch cfg.Backend {
	case store.BackendJSON, store.BackendSQLite:
	default:
		return fmt.Errorf("--backend must be %q or %q", store.BackendJSON, store.BackendSQLite)
	}
	if cfg.DelayMs < 0 {
		return fmt.Errorf("--delay-ms must be >= 0")
	}
	if _, err := grader.ParsePolicy(cfg.Policy); err != nil {
		return fmt.Errorf("--policy: %w", err)
	}
	return nil
}

func setsError(cfg model.Config, err error) error {
	if errors.Is(err, model.ErrNoSets) {
		pattern := cfg.Pattern
		if pattern == "" {
			pattern = "."
		}
		return fmt.Errorf("no question sets in %s match %q", cfg.SetsDir, pattern)
	}
	return fmt.Errorf("failed to find question sets: %w", err)
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close progress store: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
