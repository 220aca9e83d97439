package skepticism

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

func sample(stars ...float64) []simv1.Review {
	out := make([]simv1.Review, 0, len(stars))
	for i, s := range stars {
		out = append(out, review(fmt.Sprintf("extra%d", i), s, day(i+1)))
	}
	return out
}

func highAssessment() simv1.SkepticismAssessment {
	return simv1.SkepticismAssessment{
		Score:            6,
		Level:            simv1.SkepticismHigh,
		ConfidenceImpact: -0.30,
	}
}

func TestResolveNoAdditionalReviews(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := Resolve(customer("analytical", "medium"), highAssessment(), nil, rng)
	assert.False(t, got.Resolved)
	assert.True(t, got.OngoingDoubt)
	assert.InDelta(t, -0.30, got.ConfidenceDelta, 0.0001)
	assert.Equal(t, ReasonNoAdditionalReviews, got.Reason)
}

func TestResolveAnalytical(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name         string
		stars        []float64
		wantResolved bool
		wantDelta    float64
		wantReason   string
	}{
		{
			name:         "negative evidence confirms concerns",
			stars:        []float64{2, 3, 2, 4},
			wantResolved: true,
			wantDelta:    -0.2,
			wantReason:   ReasonAnalyticalConfirmed,
		},
		{
			name:         "strong evidence resolves concerns",
			stars:        []float64{4, 5, 4, 5},
			wantResolved: true,
			wantDelta:    0.1,
			wantReason:   ReasonAnalyticalResolved,
		},
		{
			name:         "mixed evidence falls back to general reading",
			stars:        []float64{3, 4, 4, 4},
			wantResolved: true,
			wantDelta:    0,
			wantReason:   ReasonConcernsAddressed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(customer("analytical", "medium"), highAssessment(), sample(tc.stars...), rng)
			assert.Equal(t, tc.wantResolved, got.Resolved)
			assert.InDelta(t, tc.wantDelta, got.ConfidenceDelta, 0.0001)
			assert.Equal(t, tc.wantReason, got.Reason)
		})
	}
}

func TestResolvePickyNeverSatisfied(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Even a perfect second sample leaves a picky customer doubting.
	got := Resolve(customer("picky", "medium"), highAssessment(), sample(5, 5, 5, 5, 5), rng)
	assert.False(t, got.Resolved)
	assert.True(t, got.OngoingDoubt)
	assert.InDelta(t, -0.40, got.ConfidenceDelta, 0.0001)
	assert.Equal(t, ReasonPickyNeverSatisfied, got.Reason)
}

func TestResolveDiscerning(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	got := Resolve(customer("discerning", "medium"), highAssessment(), sample(5, 4.5, 4.5, 5), rng)
	assert.True(t, got.Resolved)
	assert.InDelta(t, 0.05, got.ConfidenceDelta, 0.0001)
	assert.Equal(t, ReasonDiscerningConfirmed, got.Reason)

	got = Resolve(customer("discerning", "medium"), highAssessment(), sample(4, 4, 4, 4), rng)
	assert.False(t, got.Resolved)
	assert.True(t, got.OngoingDoubt)
	assert.InDelta(t, -0.30, got.ConfidenceDelta, 0.0001)
	assert.Equal(t, ReasonDiscerningUnsatisifd, got.Reason)
}

func TestResolveAnxiousStubbornness(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	good := sample(5, 5, 4, 5)

	stubborn := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		got := Resolve(customer("anxious", "medium"), highAssessment(), good, rng)
		if got.Reason == ReasonAnxiousWorry {
			assert.False(t, got.Resolved)
			assert.InDelta(t, -0.35, got.ConfidenceDelta, 0.0001)
			stubborn++
		} else {
			// The calm path reads the evidence like the default case.
			assert.Equal(t, ReasonConcernsAddressed, got.Reason)
			assert.True(t, got.Resolved)
		}
	}
	assert.InDelta(t, stubbornnessProbability, float64(stubborn)/trials, 0.04)
}

func TestResolveDefaultCase(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Recovery never flips the confidence delta positive.
	got := Resolve(customer("cheerful", "medium"), highAssessment(), sample(4, 4, 3.5, 4), rng)
	assert.True(t, got.Resolved)
	assert.InDelta(t, 0, got.ConfidenceDelta, 0.0001)
	assert.Equal(t, ReasonConcernsAddressed, got.Reason)

	low := simv1.SkepticismAssessment{Score: 1, Level: simv1.SkepticismLow, ConfidenceImpact: -0.05}
	got = Resolve(customer("cheerful", "medium"), low, sample(4, 4, 3.5, 4), rng)
	assert.True(t, got.Resolved)
	assert.InDelta(t, 0.10, got.ConfidenceDelta, 0.0001)

	got = Resolve(customer("cheerful", "medium"), highAssessment(), sample(2, 3, 2, 3), rng)
	assert.False(t, got.Resolved)
	assert.True(t, got.OngoingDoubt)
	assert.InDelta(t, -0.40, got.ConfidenceDelta, 0.0001)
	assert.Equal(t, ReasonStillConcerning, got.Reason)
}
