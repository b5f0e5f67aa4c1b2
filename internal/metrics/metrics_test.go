package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(workflowTransitions.WithLabelValues("booking", "confirm"))
	RecordTransition("booking", "confirm")
	RecordTransition("booking", "confirm")
	after := testutil.ToFloat64(workflowTransitions.WithLabelValues("booking", "confirm"))
	assert.Equal(t, before+2, after)
}

func TestRecordOutboxEvent(t *testing.T) {
	RecordOutboxEvent("email.send", "failed")
	assert.GreaterOrEqual(t, testutil.ToFloat64(outboxEvents.WithLabelValues("email.send", "failed")), 1.0)
}

func TestRegistryGathers(t *testing.T) {
	RecordWorkerRun("outbox_relay", true)
	RecordTransition("verification", "approve")
	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["rentease_worker_runs_total"])
	assert.True(t, names["rentease_workflow_transitions_total"])
}
