package monitor

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountTransition(t *testing.T) {
	counter := reviewTransitionsTotal.WithLabelValues("message_thread", "close", "ok")
	before := testutil.ToFloat64(counter)

	CountTransition("message_thread", "close", "ok")
	CountTransition("message_thread", "close", "ok")
	CountTransition("message_thread", "reopen", "noop")

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Fatalf("close/ok count = %v, want %v", got, before+2)
	}

	noop := reviewTransitionsTotal.WithLabelValues("message_thread", "reopen", "noop")
	if got := testutil.ToFloat64(noop); got < 1 {
		t.Fatalf("reopen/noop count = %v, want at least 1", got)
	}
}
