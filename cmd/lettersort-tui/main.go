// Command lettersort-tui plays the letter sort game in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lettersort/internal/config"
	"github.com/robalobadob/lettersort/internal/logging"
	"github.com/robalobadob/lettersort/internal/session"
	"github.com/robalobadob/lettersort/internal/shutdown"
	"github.com/robalobadob/lettersort/internal/tui"
)

func main() {
	mode := flag.String("mode", "random", "letter source: random or daily")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the board; logs go to LOG_FILE or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := logging.New(cfg.LogLevel, false, out)
	log.Logger = logger

	ctx, done := shutdown.New()
	defer done()

	sess := session.New(session.Options{
		Mode:    session.ParseMode(*mode),
		Seconds: cfg.GameSeconds,
		Salt:    cfg.DailySalt,
		Logger:  &logger,
	})
	defer sess.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	if err := tui.New(screen, sess).Run(ctx); err != nil {
		log.Error().Err(err).Msg("terminal client exited")
	}
}
