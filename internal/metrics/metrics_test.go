package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGatewayCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := New(reg)

	g.Request("ASSISTANT", OutcomeSuccess)
	g.Request("ASSISTANT", OutcomeSuccess)
	g.Request("ASSISTANT", "Timeout")
	g.ModelDuration("ASSISTANT", 1500*time.Millisecond)
	g.RecordFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(g.requests.WithLabelValues("ASSISTANT", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(g.requests.WithLabelValues("ASSISTANT", "Timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(g.recordFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(g.modelDuration))
}

func TestNilGatewayIsNoop(t *testing.T) {
	var g *Gateway
	g.Request("ASSISTANT", OutcomeSuccess)
	g.ModelDuration("ASSISTANT", time.Second)
	g.RecordFailure()
}
