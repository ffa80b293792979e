package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobCounters(t *testing.T) {
	m := NewWith(prometheus.NewRegistry(), "test")

	m.RecordJobRun("cancel_unpaid_bookings", nil)
	m.RecordJobRun("cancel_unpaid_bookings", nil)
	m.RecordJobRun("cancel_unpaid_bookings", errors.New("db down"))

	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("cancel_unpaid_bookings", "ok")))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("cancel_unpaid_bookings", "error")))

	m.RecordJobActions("cancel_unpaid_bookings", "cancelled", 3)
	m.RecordJobActions("cancel_unpaid_bookings", "cancelled", 0)
	assert.Equal(t, 3.0,
		testutil.ToFloat64(m.JobActionsTotal.WithLabelValues("cancel_unpaid_bookings", "cancelled")))
}
