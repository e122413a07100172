package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpstream(t *testing.T) {
	success := UpstreamRequests.WithLabelValues("test.op", OutcomeSuccess)
	failure := UpstreamRequests.WithLabelValues("test.op", OutcomeError)
	beforeOK, beforeErr := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	ObserveUpstream("test.op", nil)
	ObserveUpstream("test.op", errors.New("boom"))
	ObserveUpstream("test.op", errors.New("boom"))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeErr+2, testutil.ToFloat64(failure))
}
