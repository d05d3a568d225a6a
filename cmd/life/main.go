//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"

	"github.com/apex/log"
	"github.com/hajimehoshi/ebiten/v2"

	"sparse-life/internal/app"
	"sparse-life/internal/pattern"
	"sparse-life/pkg/life"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := app.SetupLogging(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("invalid log level")
	}

	simCfg := life.FromMap(cfg.SimMap())
	playing := simCfg.Playback.Playing
	simCfg.Playback.Playing = false

	sim, err := life.New(simCfg, log.Log)
	if err != nil {
		log.WithError(err).Fatal("unknown rule")
	}
	if cfg.Pattern != "" {
		m, err := pattern.Load(cfg.Pattern)
		if err != nil {
			log.WithError(err).WithField("pattern", cfg.Pattern).Fatal("load pattern")
		}
		err = sim.SeedCentered(m)
		if err != nil {
			log.WithError(err).Fatal("seed pattern")
		}
	} else if err := sim.SeedRandom(cfg.Seed, cfg.Density); err != nil {
		log.WithError(err).Fatal("seed soup")
	}
	if playing {
		sim.Toggle()
	}

	game := app.New(context.Background(), sim, cfg.Width, cfg.Height, cfg.Scale)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle(app.WindowTitle(sim.Name()))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("game loop")
	}
}
