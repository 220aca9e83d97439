package belief

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

func reviews(stars ...float64) []simv1.Review {
	out := make([]simv1.Review, 0, len(stars))
	for i, s := range stars {
		out = append(out, simv1.NewReview(fmt.Sprintf("r%d", i), "u", "A", s, "t", time.Now(), ""))
	}
	return out
}

func TestPosterior(t *testing.T) {
	tests := []struct {
		name         string
		alpha, beta  float64
		stars        []float64
		wantA, wantB float64
	}{
		{"no reviews keeps prior", 1, 1, nil, 1, 1},
		{"all positive", 1, 1, []float64{4, 5, 4.5}, 4, 1},
		{"all negative", 1, 1, []float64{1, 2, 3}, 1, 4},
		{"threshold at four stars", 1, 1, []float64{3.9, 4.0}, 2, 2},
		{"informative prior", 2, 3, []float64{5, 1}, 3, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, b := Posterior(tc.alpha, tc.beta, reviews(tc.stars...))
			assert.Equal(t, tc.wantA, a)
			assert.Equal(t, tc.wantB, b)
		})
	}
}

func TestPosteriorMean(t *testing.T) {
	assert.InDelta(t, 0.5, PosteriorMean(1, 1), 1e-9)
	a, b := Posterior(1, 1, reviews(5, 5, 5, 1))
	assert.InDelta(t, 4.0/6.0, PosteriorMean(a, b), 1e-9)
}

func TestValuation(t *testing.T) {
	theta := 50.0
	assert.InDelta(t, 50+0.5*80, Valuation(&theta, 0.5), 1e-9)
	assert.InDelta(t, 0.5*120, Valuation(nil, 0.5), 1e-9)
}

func TestPurchaseRule(t *testing.T) {
	assert.True(t, WillPurchase(20.01, 20))
	assert.False(t, WillPurchase(20, 20))
	assert.InDelta(t, 5, Surplus(25, 20), 1e-9)
}

func TestPreference(t *testing.T) {
	c := &simv1.Customer{ID: "c1"}
	assert.Zero(t, Preference(c, "A"))

	c.AddExperience(simv1.Experience{VendorID: "A", WasSatisfied: true})
	c.AddExperience(simv1.Experience{VendorID: "A", WasSatisfied: true})
	c.AddExperience(simv1.Experience{VendorID: "A", WasSatisfied: true})
	c.AddExperience(simv1.Experience{VendorID: "A", WasSatisfied: false})
	c.AddExperience(simv1.Experience{VendorID: "B", WasSatisfied: false})

	// (1 + 1 + 1 - 0.5) / 4
	assert.InDelta(t, 0.625, Preference(c, "A"), 1e-9)
	assert.InDelta(t, -0.5, Preference(c, "B"), 1e-9)
	assert.Equal(t, 4, VisitCount(c, "A"))
	assert.Equal(t, 0, VisitCount(c, "C"))

	last, ok := LastExperience(c, "A")
	assert.True(t, ok)
	assert.False(t, last.WasSatisfied)
	_, ok = LastExperience(c, "C")
	assert.False(t, ok)
}

func TestStarsForQuality(t *testing.T) {
	tests := []struct {
		q         float64
		wantStars float64
		wantSat   bool
	}{
		{0.0, 1, false},
		{0.1, 1, false},
		{0.11, 2, false},
		{0.3, 2, false},
		{0.5, 3, false},
		{0.51, 4, true},
		{0.8, 4, true},
		{0.81, 5, true},
		{1.0, 5, true},
	}
	for _, tc := range tests {
		stars, sat := StarsForQuality(tc.q)
		assert.Equal(t, tc.wantStars, stars, "q=%v", tc.q)
		assert.Equal(t, tc.wantSat, sat, "q=%v", tc.q)
	}
}

func TestStarsForQualityMonotonic(t *testing.T) {
	prev := 0.0
	for q := 0.0; q <= 1.0; q += 0.01 {
		stars, _ := StarsForQuality(q)
		assert.GreaterOrEqual(t, stars, prev)
		prev = stars
	}
}

func TestQualityDrawBoundsAndMean(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, mu := range []float64{0.2, 0.5, 0.8} {
		sum := 0.0
		const n = 5000
		for i := 0; i < n; i++ {
			q := QualityDraw(mu, rng)
			assert.GreaterOrEqual(t, q, 0.0)
			assert.LessOrEqual(t, q, 1.0)
			sum += q
		}
		// Beta(5mu, 5(1-mu)) has mean mu.
		assert.InDelta(t, mu, sum/n, 0.02, "mu=%v", mu)
	}
}

func TestQualityDrawDegenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assert.Zero(t, QualityDraw(0, rng))
	assert.Equal(t, 1.0, QualityDraw(1, rng))
}
