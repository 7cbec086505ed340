package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	cfr "kuhn-cfr"
	"kuhn-cfr/kuhn"
	"kuhn-cfr/store"
)

type CLI struct {
	Iterations      int      `short:"n" default:"20000" help:"Number of CFR iterations"`
	LogEvery        int      `default:"1000" help:"Snapshot log interval in iterations (0 logs only the final snapshot)"`
	Focus           []string `help:"Restrict snapshot output to these infoset keys (e.g. 0 1 2 1pb)"`
	ShowRegret      bool     `help:"Include cumulative regret in snapshot output"`
	ShowCurrent     bool     `help:"Include the instantaneous strategy in snapshot output"`
	Players         int      `default:"2" help:"Number of players"`
	Ante            float64  `default:"1" help:"Ante paid by every player"`
	BetSize         float64  `default:"1" help:"Fixed bet size"`
	Checkpoint      string   `help:"LevelDB directory for snapshot checkpoints"`
	CheckpointEvery int      `default:"0" help:"Checkpoint interval in iterations (0 disables)"`
	Out             string   `help:"Write the final solver table to this file"`
	Verbose         bool     `short:"v" help:"Verbose logging"`
}

func (c CLI) validate() error {
	if c.Iterations <= 0 {
		return errors.Errorf("--iterations must be positive, got %d", c.Iterations)
	}

	if c.LogEvery < 0 {
		return errors.Errorf("--log-every must be >= 0, got %d", c.LogEvery)
	}

	if c.CheckpointEvery < 0 {
		return errors.Errorf("--checkpoint-every must be >= 0, got %d", c.CheckpointEvery)
	}

	if c.CheckpointEvery > 0 && c.Checkpoint == "" {
		return errors.New("--checkpoint-every requires --checkpoint")
	}

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("kuhn-cfr"),
		kong.Description("Train a vanilla CFR solver for Kuhn poker."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(cli.validate())

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
	})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	game, err := kuhn.NewGame(kuhn.Config{
		NumPlayers: cli.Players,
		Ante:       cli.Ante,
		BetSize:    cli.BetSize,
	})
	ctx.FatalIfErrorf(err)

	solver, err := cfr.New(game)
	ctx.FatalIfErrorf(err)

	var checkpoints *store.Store
	if cli.Checkpoint != "" {
		checkpoints, err = store.Open(cli.Checkpoint, nil)
		ctx.FatalIfErrorf(err)
		defer checkpoints.Close()
	}

	if cli.LogEvery > 0 {
		logSnapshot(logger, 0, solver.GetSnapshot(), cli)
	}

	for step := 1; step <= cli.Iterations; step++ {
		ev := solver.TrainStep()
		logger.Debug("training step", "step", step, "ev", ev)

		if cli.LogEvery > 0 && step%cli.LogEvery == 0 {
			logSnapshot(logger, step, solver.GetSnapshot(), cli)
		}

		if checkpoints != nil && cli.CheckpointEvery > 0 && step%cli.CheckpointEvery == 0 {
			ctx.FatalIfErrorf(checkpoints.Put(step, solver.GetSnapshot()))
		}
	}

	if cli.LogEvery == 0 || cli.Iterations%cli.LogEvery != 0 {
		logSnapshot(logger, cli.Iterations, solver.GetSnapshot(), cli)
	}

	if cli.Out != "" {
		f, err := os.Create(cli.Out)
		ctx.FatalIfErrorf(err)
		err = solver.Save(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		ctx.FatalIfErrorf(err)
		logger.Info("wrote solver table", "path", cli.Out)
	}
}

func logSnapshot(logger *log.Logger, step int, snapshot cfr.Snapshot, cli CLI) {
	keys := cli.Focus
	if len(keys) == 0 {
		keys = make([]string, 0, len(snapshot))
		for key := range snapshot {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}

	logger.Info("snapshot", "step", step, "infosets", len(snapshot))
	for _, key := range keys {
		data, ok := snapshot[key]
		if !ok {
			logger.Warn("infoset not yet visited", "infoset", key)
			continue
		}

		fields := []interface{}{"infoset", key, "avg", formatStrategy(data.AvgStrategy)}
		if cli.ShowCurrent {
			fields = append(fields, "current", formatStrategy(data.CurrentStrategy))
		}
		if cli.ShowRegret {
			fields = append(fields, "regret", fmt.Sprintf("[%.3f %.3f]", data.Regret[0], data.Regret[1]))
		}

		logger.Info("  strategy", fields...)
	}
}

func formatStrategy(strategy []float64) string {
	return fmt.Sprintf("pass=%.3f bet=%.3f", strategy[0], strategy[1])
}
