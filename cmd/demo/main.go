package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/internal/observability"
	"github.com/delaneyj/fiberparty/pkg/loop"
	"github.com/delaneyj/fiberparty/pkg/metrics"
)

const (
	debounceKey    = "debounce"
	metricsAddrKey = "metrics-addr"
	logLevelKey    = "log-level"
)

func main() {
	cmd := &cli.Command{
		Name:  "demo",
		Usage: "Play a scripted session against a todo app and print the host tree",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  debounceKey,
				Usage: "Loop debounce window",
				Value: 5 * time.Millisecond,
			},
			&cli.StringFlag{
				Name:  metricsAddrKey,
				Usage: "Serve Prometheus metrics on this address and keep running until interrupted",
			},
			&cli.StringFlag{
				Name:  logLevelKey,
				Usage: "zerolog level",
				Value: "info",
			},
		},
		Action: demo,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("demo failed")
	}
}

func demo(ctx context.Context, cmd *cli.Command) error {
	logger, err := observability.InitLogger("demo", cmd.String(logLevelKey))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	rec := metrics.New("fiber")
	reg.MustRegister(rec)

	addr := cmd.String(metricsAddrKey)
	if addr != "" {
		srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			logger.Info().Str("addr", addr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	l := loop.New(loop.WithDebounce(cmd.Duration(debounceKey)), loop.WithLogger(logger))
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := l.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("loop stopped")
		}
	}()

	onLeft := func(n int) {
		logger.Info().Int("left", n).Msg("open todos changed")
	}
	snapshot := func(step, html string) {
		fmt.Printf("%-20s %s\n", step, html)
	}
	if err := play(ctx, l, []fiber.Option{fiber.WithObserver(rec.Observe)}, onLeft, snapshot, logger); err != nil {
		return err
	}

	if addr != "" {
		<-ctx.Done()
	}
	return nil
}
