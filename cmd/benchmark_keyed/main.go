package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/fiberparty/internal/observability"
)

const (
	sizesKey       = "sizes"
	transitionsKey = "transitions"
	seedKey        = "seed"
	logLevelKey    = "log-level"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_keyed",
		Usage: "Check keyed list reconciliation against key set differences",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  sizesKey,
				Usage: "List sizes (default 8, 64, 512)",
			},
			&cli.IntFlag{
				Name:  transitionsKey,
				Usage: "Random transitions per size",
				Value: 200,
			},
			&cli.IntFlag{
				Name:  seedKey,
				Usage: "Random seed",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  logLevelKey,
				Usage: "zerolog level",
				Value: "info",
			},
		},
		Action: report,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("benchmark_keyed failed")
	}
}

func report(ctx context.Context, cmd *cli.Command) error {
	logger, err := observability.InitLogger("benchmark_keyed", cmd.String(logLevelKey))
	if err != nil {
		return err
	}
	logger.Info().Msg("Starting keyed list benchmark, please wait...")
	defer logger.Info().Msg("Finished keyed list benchmark")

	rng := rand.New(rand.NewSource(int64(cmd.Int(seedKey))))
	transitions := int(cmd.Int(transitionsKey))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "transitions", "created", "removed", "moved",
		"host ops", "non-minimal", "rate",
	})

	sizes := []int{8, 64, 512}
	if cmd.IsSet(sizesKey) {
		sizes = sizes[:0]
		for _, s := range cmd.IntSlice(sizesKey) {
			sizes = append(sizes, int(s))
		}
	}

	for _, size := range sizes {
		var total result
		nonMinimal := 0
		start := time.Now()
		for range transitions {
			res, err := transition(randomKeys(rng, size), randomKeys(rng, size))
			if err != nil {
				return fmt.Errorf("size %d: %w", size, err)
			}
			if !res.minimal() {
				nonMinimal++
			}
			total.counters.Created += res.counters.Created
			total.counters.Removed += res.counters.Removed
			total.counters.Moved += res.counters.Moved
			total.ops += res.ops
		}
		elapsed := time.Since(start)
		rate := float64(transitions) / elapsed.Seconds()

		table.Append([]string{
			humanize.Comma(int64(size)),
			humanize.Comma(int64(transitions)),
			humanize.Comma(int64(total.counters.Created)),
			humanize.Comma(int64(total.counters.Removed)),
			humanize.Comma(int64(total.counters.Moved)),
			humanize.Comma(int64(total.ops)),
			fmt.Sprint(nonMinimal),
			humanize.Comma(int64(rate)) + "/s",
		})
		logger.Debug().Int("size", size).Dur("elapsed", elapsed).Msg("size done")
		if nonMinimal > 0 {
			logger.Warn().Int("size", size).Int("count", nonMinimal).Msg("non-minimal transitions")
		}
	}
	table.Render()
	return nil
}
