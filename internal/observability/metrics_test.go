package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/games/duel/match"
)

var _ match.Telemetry = (*Metrics)(nil)

func TestCounters(t *testing.T) {
	m := NewMetrics()

	m.AttackResolved("table")
	m.AttackResolved("formula")
	m.AttackResolved("formula")
	m.RuleTableDegraded(true)
	m.PayloadEnqueued("strike")
	m.UnitsLanded("garbage", 5)
	m.UnitConverted("garbage")
	m.PlacementOverflow()
	m.PayloadDropped()
	m.MatchFinished("timeout")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.tableHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degraded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.enqueued.WithLabelValues("strike")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.unitsLanded.WithLabelValues("garbage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.overflows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))

	m.RuleTableDegraded(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.degraded))
}

func TestSummary(t *testing.T) {
	m := NewMetrics()
	m.PayloadEnqueued("garbage")
	m.PayloadEnqueued("garbage")
	m.AttackResolved("formula")

	lines, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"blockduel_attack_fallback_total 1",
		`blockduel_payload_enqueued_total{kind="garbage"} 2`,
	}, lines)
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.PayloadDropped()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "blockduel_payload_dropped_total 1"))
}
