package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackCounts(t *testing.T) {
	before := FallbackCounts()[FallbackDecision]

	RecordFallback(FallbackDecision)
	RecordFallback(FallbackDecision)
	RecordFallback(FallbackSeedSynthesis)

	counts := FallbackCounts()
	assert.Equal(t, before+2, counts[FallbackDecision])
	assert.GreaterOrEqual(t, counts[FallbackSeedSynthesis], 1)
	assert.NotContains(t, counts, "never_recorded")
}
