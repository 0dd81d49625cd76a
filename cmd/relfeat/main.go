package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/classifier"
	"github.com/revelaction/relfeat/config"
	"github.com/revelaction/relfeat/logging"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer

	// Terminal enables progress bars and colors
	Terminal bool
}

// app holds the state shared by the commands of one invocation.
type app struct {
	ui     UI
	cfg    config.Config
	log    *slog.Logger
	closer io.Closer

	// newClassifier is replaced by tests
	newClassifier func(cfg config.Config, log *slog.Logger) classifier.Classifier
}

func newApp(ui UI) *app {
	return &app{
		ui:  ui,
		log: logging.Discard(),
		newClassifier: func(cfg config.Config, log *slog.Logger) classifier.Classifier {
			return classifier.NewMallet(cfg.Classifier.Mallet, cfg.Classifier.Trainer, cfg.Classifier.WorkDir, log)
		},
	}
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr, Terminal: isTerminal()}

	// an interrupt cancels a running classifier
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(ui).run(ctx, os.Args)
	stop()

	if err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "relfeat: %v\n", err)
}

func (a *app) run(ctx context.Context, args []string) error {
	return a.cli().RunContext(ctx, args)
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:      "relfeat",
		Usage:     "extract relation features from parsed documents and drive the classifier",
		Writer:    a.ui.Out,
		ErrWriter: a.ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default: ./relfeat.yaml, then the user config dir)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides log.level)",
			},
		},
		Before:         a.setup,
		After:          a.teardown,
		HideVersion:    true,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			a.extractCmd(),
			a.trainCmd(),
			a.classifyCmd(),
			a.scoreCmd(),
			a.runCmd(),
			a.statCmd(),
			a.showCmd(),
			a.inspectCmd(),
			a.importCmd(),
			a.exportCmd(),
			a.versionCmd(),
		},
	}
}

func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	logger, closer, err := logging.New(a.ui.Err, logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger
	a.closer = closer

	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}
	return nil
}

func (a *app) teardown(c *cli.Context) error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
