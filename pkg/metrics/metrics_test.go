package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
	"github.com/delaneyj/fiberparty/pkg/metrics"
)

func TestRecorder(t *testing.T) {
	rec := metrics.New("fiber")
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(rec))

	rec.Observe(fiber.CycleStats{Duration: time.Millisecond, Rendered: 3, Created: 7, Placed: 1, LiveNodes: 9})
	rec.Observe(fiber.CycleStats{Duration: time.Millisecond, Rendered: 1, Bailouts: 2, Updated: 1, Deleted: 1, Setups: 2, Teardowns: 1, EffectErrors: 1, LiveNodes: 7})

	want := `
# HELP fiber_cycles_total Committed render cycles.
# TYPE fiber_cycles_total counter
fiber_cycles_total 2
# HELP fiber_live_nodes Nodes held by the arena after the last cycle.
# TYPE fiber_live_nodes gauge
fiber_live_nodes 7
# HELP fiber_node_ops_total Node operations by kind.
# TYPE fiber_node_ops_total counter
fiber_node_ops_total{op="bailout"} 2
fiber_node_ops_total{op="created"} 7
fiber_node_ops_total{op="deleted"} 1
fiber_node_ops_total{op="effect_error"} 1
fiber_node_ops_total{op="placed"} 1
fiber_node_ops_total{op="rendered"} 4
fiber_node_ops_total{op="setup"} 2
fiber_node_ops_total{op="teardown"} 1
fiber_node_ops_total{op="updated"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"fiber_cycles_total", "fiber_live_nodes", "fiber_node_ops_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(rec, "fiber_cycle_duration_seconds"))
}

func TestRecorderAsObserver(t *testing.T) {
	rec := metrics.New("ui")
	doc := memhost.NewDocument()
	rt := fiber.Attach(doc, doc.Root, fiber.WithObserver(rec.Observe))

	require.NoError(t, rt.RenderRoot(fiber.H("p", nil, "hi")))
	require.NoError(t, rt.RenderRoot(fiber.H("p", nil, "there")))

	err := testutil.CollectAndCompare(rec, strings.NewReader(`
# HELP ui_cycles_total Committed render cycles.
# TYPE ui_cycles_total counter
ui_cycles_total 2
`), "ui_cycles_total")
	assert.NoError(t, err)
}
