package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalierhq/espalier"
	"github.com/espalierhq/espalier/pkg/domain"
)

func doorConfig() domain.MachineConfig {
	return domain.MachineConfig{
		ID:      "door",
		Initial: "closed",
		Context: domain.Context{"locked": true},
		States: map[string]domain.StateDef{
			"closed": {On: map[string]domain.Transition{
				"OPEN": {
					Target: "open",
					Guard: func(ctx domain.Context, _ domain.Event) bool {
						locked, _ := ctx["locked"].(bool)
						return !locked
					},
				},
				"UNLOCK": {
					Target:  "closed",
					Actions: []domain.Action{domain.Assign(domain.Context{"locked": false})},
				},
			}},
			"open": {On: map[string]domain.Transition{"CLOSE": domain.To("closed")}},
		},
	}
}

func TestObserver_CountsTransitionsAndRejections(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	cfg := doorConfig()
	m, err := espalier.New(cfg, espalier.WithObserver(metrics.Observer(cfg.ID)))
	require.NoError(t, err)

	m.SendType("OPEN") // guard rejects while locked
	m.SendType("UNLOCK")
	m.SendType("OPEN")
	m.SendType("CLOSE")

	opened := metrics.transitions.WithLabelValues("door", "closed", "open", "OPEN")
	assert.Equal(t, 1.0, testutil.ToFloat64(opened))

	unlocked := metrics.transitions.WithLabelValues("door", "closed", "closed", "UNLOCK")
	assert.Equal(t, 1.0, testutil.ToFloat64(unlocked))

	rejected := metrics.guardRejections.WithLabelValues("door", "closed", "OPEN")
	assert.Equal(t, 1.0, testutil.ToFloat64(rejected))

	// three transitions means two observed intervals
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "espalier_transition_interval_seconds" {
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, uint64(2), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}

func TestObserver_SharedCollectorsAcrossMachines(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	for _, id := range []string{"front-door", "back-door"} {
		cfg := doorConfig()
		cfg.ID = id
		m, err := espalier.New(cfg, espalier.WithObserver(metrics.Observer(id)))
		require.NoError(t, err)
		m.SendType("UNLOCK")
		m.SendType("OPEN")
	}

	front := metrics.transitions.WithLabelValues("front-door", "closed", "open", "OPEN")
	back := metrics.transitions.WithLabelValues("back-door", "closed", "open", "OPEN")
	assert.Equal(t, 1.0, testutil.ToFloat64(front))
	assert.Equal(t, 1.0, testutil.ToFloat64(back))
}
