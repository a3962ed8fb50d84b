package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jask/adlens/internal/analysis"
	"github.com/jask/adlens/internal/client"
	"github.com/jask/adlens/internal/config"
	"github.com/jask/adlens/internal/logging"
	"github.com/jask/adlens/internal/metrics"
	"github.com/jask/adlens/internal/session"
	"github.com/jask/adlens/internal/tui"
)

const usage = `adlens analyzes ad creatives with the remote analysis service.

Usage:
  adlens [flags]                      open the interactive client
  adlens submit --mode ID [flags]     run one analysis and print the result
  adlens insights CATEGORY [flags]    print competitor insights for a category
  adlens --save-config [flags]        write the resolved settings to the config file

Modes: qc, crm, competitor-single, competitor-batch, competitor-compare, fetch-ads
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Recorder
	client  *client.Client
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := ""
	if len(args) > 0 && (args[0] == "submit" || args[0] == "insights" || args[0] == "help") {
		cmd, args = args[0], args[1:]
	}

	fs := pflag.NewFlagSet("adlens", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage+"\nFlags:\n")
		fs.PrintDefaults()
	}
	config.Flags(fs)
	saveConfig := fs.Bool("save-config", false, "write the resolved settings to the config file and exit")
	var sub submitFlags
	if cmd == "submit" {
		sub.register(fs)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if cmd == "help" {
		fs.Usage()
		return 0
	}
	if *saveConfig {
		return runSaveConfig(fs, stdout, stderr)
	}

	e, cleanup, err := setup(ctx, fs)
	if err != nil {
		fmt.Fprintf(stderr, "adlens: %v\n", err)
		return 1
	}
	defer cleanup()

	switch cmd {
	case "submit":
		return runSubmit(ctx, e, sub, stdout, stderr)
	case "insights":
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "usage: adlens insights CATEGORY")
			return 2
		}
		return runInsights(ctx, e, fs.Arg(0), stdout, stderr)
	}
	return runTUI(ctx, e, stderr)
}

func setup(ctx context.Context, fs *pflag.FlagSet) (env, func(), error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return env{}, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return env{}, nil, fmt.Errorf("logging: %w", err)
	}

	rec := metrics.New()
	srvCtx, stopMetrics := context.WithCancel(ctx)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := rec.Serve(srvCtx, cfg.Metrics.Addr, log); err != nil {
				log.Error("metrics server", zap.Error(err))
			}
		}()
	}

	cl := client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log,
		Metrics: rec,
	})
	log.Info("starting",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout),
	)

	cleanup := func() {
		stopMetrics()
		_ = log.Sync()
	}
	return env{cfg: cfg, log: log, metrics: rec, client: cl}, cleanup, nil
}

func newMachine(ctx context.Context, e env) *session.Machine {
	return session.New(e.client,
		session.WithLogger(e.log),
		session.WithObserver(e.metrics),
		session.WithContext(ctx),
	)
}

func runTUI(ctx context.Context, e env, stderr io.Writer) int {
	app := tui.New(tui.Options{
		Machine:  newMachine(ctx, e),
		Logger:   e.log,
		StartDir: e.cfg.UI.StartDir,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runSaveConfig(fs *pflag.FlagSet, stdout, stderr io.Writer) int {
	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "adlens: config: %v\n", err)
		return 1
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(stderr, "adlens: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "saved %s\n", config.Path())
	return 0
}

func runInsights(ctx context.Context, e env, category string, stdout, stderr io.Writer) int {
	out := e.client.Insights(ctx, category)
	if !out.OK() {
		printError(stderr, out.Err)
		return 1
	}
	printJSON(stdout, out.Body)
	return 0
}

type submitFlags struct {
	mode     string
	images   []string
	prd      string
	keyword  string
	platform string
	limit    int
}

func (s *submitFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&s.mode, "mode", "m", "", "analysis mode id")
	fs.StringArrayVarP(&s.images, "image", "i", nil, "ad image (jpeg, jpg, png); repeat for competitor-batch")
	fs.StringVar(&s.prd, "prd", "", "PRD document (pdf), qc and crm only")
	fs.StringVar(&s.keyword, "keyword", "", "fetch-ads keyword")
	fs.StringVar(&s.platform, "platform", "", "fetch-ads platform")
	fs.IntVar(&s.limit, "limit", 0, "fetch-ads result limit")
}

func runSubmit(ctx context.Context, e env, f submitFlags, stdout, stderr io.Writer) int {
	mode, ok := analysis.ModeByID(f.mode)
	if !ok {
		fmt.Fprintf(stderr, "unknown mode %q", f.mode)
		if s, ok := analysis.SuggestMode(f.mode); ok {
			fmt.Fprintf(stderr, ", did you mean %q?", s)
		}
		fmt.Fprintln(stderr)
		return 2
	}

	if len(f.images) > 1 && mode.Operation != analysis.OpCompetitorBatch {
		fmt.Fprintf(stderr, "mode %s takes a single --image\n", mode.ID)
		return 2
	}

	m := newMachine(ctx, e)
	m.SelectMode(mode)
	for i, path := range f.images {
		var code int
		if i == 0 {
			code = pick(m, session.SlotPrimary, path, stderr)
		} else {
			code = pickBatch(m, path, stderr)
		}
		if code != 0 {
			return code
		}
	}
	if f.prd != "" {
		if code := pick(m, session.SlotSecondary, f.prd, stderr); code != 0 {
			return code
		}
	}
	m.SetParams(analysis.FetchParams{Keyword: f.keyword, Platform: f.platform, Limit: f.limit})

	cmd := m.Submit()
	if cmd == nil {
		if st := m.State(); st.LastError != nil {
			printError(stderr, st.LastError)
		} else {
			fmt.Fprintln(stderr, "nothing to submit: --image is required")
		}
		return 1
	}

	lastStep := m.State().Step
	fmt.Fprintf(stderr, "%s (%s)\n", session.StageText(lastStep), session.StepLabel(lastStep))
	st := m.Await(ctx, cmd, func(s session.State) {
		if s.Phase == session.InFlight && s.Step != lastStep {
			lastStep = s.Step
			fmt.Fprintf(stderr, "%s (%s)\n", session.StageText(s.Step), session.StepLabel(s.Step))
		}
	})

	switch st.Phase {
	case session.Succeeded:
		printResult(stdout, analysis.Present(*st.LastResult))
		return 0
	case session.Failed:
		printError(stderr, st.LastError)
	case session.Idle, session.Validating, session.InFlight:
		fmt.Fprintln(stderr, analysis.MsgCancelled)
	}
	return 1
}

func pick(m *session.Machine, slot session.Slot, path string, stderr io.Writer) int {
	f, err := analysis.FileFromPath(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", slot, err)
		return 1
	}
	if v := m.SelectFile(slot, f); !v.Accepted() {
		fmt.Fprintf(stderr, "%s %s: %s\n", slot, f.Name, v.Reason)
		return 1
	}
	return 0
}

func pickBatch(m *session.Machine, path string, stderr io.Writer) int {
	f, err := analysis.FileFromPath(path)
	if err != nil {
		fmt.Fprintf(stderr, "image: %v\n", err)
		return 1
	}
	if v := m.AddBatchImage(f); !v.Accepted() {
		fmt.Fprintf(stderr, "image %s: %s\n", f.Name, v.Reason)
		return 1
	}
	return 0
}
