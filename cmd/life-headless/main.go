package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/apex/log"
	"github.com/atotto/clipboard"

	"sparse-life/internal/app"
	"sparse-life/internal/pattern"
	"sparse-life/pkg/life"
)

type options struct {
	generations int
	every       int
	printRLE    bool
	copyRLE     bool
}

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	var opts options
	flag.IntVar(&opts.generations, "generations", 100, "generations to run")
	flag.IntVar(&opts.every, "every", 10, "log a summary every N generations (0 = only at the end)")
	flag.BoolVar(&opts.printRLE, "print", false, "print the final pattern as RLE on stdout")
	flag.BoolVar(&opts.copyRLE, "clipboard", false, "copy the final pattern as RLE to the clipboard")
	flag.Parse()

	if err := app.SetupLogging(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		log.WithError(err).Fatal("headless run failed")
	}
}

func run(ctx context.Context, cfg *app.Config, opts options, out io.Writer) error {
	simCfg := life.FromMap(cfg.SimMap())
	simCfg.Playback.Playing = false
	sim, err := life.New(simCfg, log.Log)
	if err != nil {
		return err
	}

	if cfg.Pattern != "" {
		m, err := pattern.Load(cfg.Pattern)
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.Pattern, err)
		}
		if err := sim.SeedCentered(m); err != nil {
			return err
		}
	} else if err := sim.SeedRandom(cfg.Seed, cfg.Density); err != nil {
		return err
	}

	for i := 1; i <= opts.generations; i++ {
		if err := sim.StepOnce(ctx); err != nil {
			return err
		}
		if opts.every > 0 && i%opts.every == 0 {
			logReport(sim)
		}
		if sim.Population() == 0 {
			log.WithField("generation", sim.Generation()).Info("population died out")
			break
		}
	}
	logReport(sim)

	doc := sim.ExportRLE()
	if opts.printRLE {
		if _, err := io.WriteString(out, doc); err != nil {
			return err
		}
	}
	if opts.copyRLE {
		if err := clipboard.WriteAll(doc); err != nil {
			return fmt.Errorf("clipboard: %w", err)
		}
	}
	return nil
}

func logReport(sim *life.Simulation) {
	rep := sim.LastReport()
	bounds := sim.Bounds()
	log.WithFields(log.Fields{
		"generation": rep.Generation,
		"population": rep.Population,
		"births":     rep.Births,
		"deaths":     rep.Deaths,
		"tracked":    rep.Tracked,
		"bounds":     fmt.Sprintf("%dx%d", bounds.W(), bounds.H()),
		"classify":   rep.Classify,
		"commit":     rep.Commit,
	}).Info("generation")
}
