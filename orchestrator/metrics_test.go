package orchestrator

import (
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestConfirmedSignLabelsBounded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	for i := 0; i < MaxSignLabels+10; i++ {
		m.confirmed("sign-" + strconv.Itoa(i))
	}
	m.confirmed("sign-0")

	if got := testutil.CollectAndCount(m.confirmedTotal); got != MaxSignLabels+1 {
		t.Fatalf("expected %d series, got %d", MaxSignLabels+1, got)
	}
	if got := testutil.ToFloat64(m.confirmedTotal.WithLabelValues(OtherSign)); got != 10 {
		t.Fatalf("overflow count %v", got)
	}
	if got := testutil.ToFloat64(m.confirmedTotal.WithLabelValues("sign-0")); got != 2 {
		t.Fatalf("known sign count %v", got)
	}
}
