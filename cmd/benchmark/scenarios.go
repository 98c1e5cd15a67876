package main

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
)

// step runs iteration i of a scenario, including its cycle.
type step func(i int) error

type scenario struct {
	name  string
	sizes func(Config) []int
	setup func(rt *fiber.Root, size int, seed int64) (step, error)
}

var scenarios = []scenario{
	{name: "update row", sizes: func(c Config) []int { return c.Rows }, setup: setupRows},
	{name: "update leaf", sizes: func(c Config) []int { return c.Depths }, setup: setupDeep},
	{name: "shuffle keyed", sizes: func(c Config) []int { return c.Shuffles }, setup: setupShuffle},
}

func addOne(n int) int {
	return n + 1
}

func setupRows(rt *fiber.Root, size int, _ int64) (step, error) {
	setters := make([]fiber.Setter[int], size)
	row := func(r *fiber.Render, p fiber.Props) any {
		n, set := fiber.UseState(r, 0)
		setters[p["i"].(int)] = set
		return fiber.H("li", nil, n)
	}
	items := make([]any, size)
	for i := range items {
		items[i] = fiber.H(row, fiber.Props{"i": i}).WithKey(strconv.Itoa(i))
	}
	if err := rt.RenderRoot(fiber.H("ul", fiber.Props{fiber.ChildrenProp: items})); err != nil {
		return nil, err
	}
	return func(i int) error {
		setters[i%size].Update(addOne)
		return rt.Flush()
	}, nil
}

func setupDeep(rt *fiber.Root, depth int, _ int64) (step, error) {
	var leaf fiber.Setter[int]
	var level fiber.Component
	level = func(r *fiber.Render, p fiber.Props) any {
		d := p["depth"].(int)
		if d == 0 {
			n, set := fiber.UseState(r, 0)
			leaf = set
			return fiber.H("span", nil, n)
		}
		return fiber.H("div", nil, fiber.H(level, fiber.Props{"depth": d - 1}))
	}
	if err := rt.RenderRoot(fiber.H(level, fiber.Props{"depth": depth})); err != nil {
		return nil, err
	}
	return func(int) error {
		leaf.Update(addOne)
		return rt.Flush()
	}, nil
}

func setupShuffle(rt *fiber.Root, size int, seed int64) (step, error) {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]string, size)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	list := func() *fiber.Element {
		items := make([]any, len(keys))
		for i, k := range keys {
			items[i] = fiber.H("li", fiber.Props{"id": k}, k).WithKey(k)
		}
		return fiber.H("ul", fiber.Props{fiber.ChildrenProp: items})
	}
	if err := rt.RenderRoot(list()); err != nil {
		return nil, err
	}
	return func(int) error {
		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		return rt.RenderRoot(list())
	}, nil
}

// run measures every scenario and writes one table per scenario to out.
func run(cfg Config, out io.Writer, logger zerolog.Logger) error {
	for _, sc := range scenarios {
		tbl := table.NewWriter()
		tbl.SetTitle(sc.name)
		tbl.SetOutputMirror(out)
		tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "rendered/op", "host ops/op"})

		for _, size := range sc.sizes(cfg) {
			doc := memhost.NewDocument()
			rendered := 0
			rt := fiber.Attach(doc, doc.Root,
				fiber.WithLogger(logger),
				fiber.WithObserver(func(s fiber.CycleStats) { rendered += s.Rendered }),
			)
			next, err := sc.setup(rt, size, cfg.Seed)
			if err != nil {
				return fmt.Errorf("%s %d: %w", sc.name, size, err)
			}
			doc.Reset()
			rendered = 0

			tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})
			for i := 0; i < cfg.Iterations; i++ {
				start := time.Now()
				if err := next(i); err != nil {
					return fmt.Errorf("%s %d: iteration %d: %w", sc.name, size, i, err)
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRow(table.Row{
				fmt.Sprintf("%s: %d", sc.name, size),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				rendered / cfg.Iterations,
				len(doc.Ops) / cfg.Iterations,
			})
			logger.Debug().Str("scenario", sc.name).Int("size", size).Dur("avg", calc.Time.Avg).Msg("measured")
		}
		tbl.Render()
	}
	return nil
}
