// Package belief holds the quantitative customer model: Beta-Bernoulli
// quality estimation, valuation and purchase rules, repeat-visit preference,
// and the experience-quality draws that feed reviews.
package belief

import (
	"math"
	"math/rand"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

// QualityScale converts a posterior-mean quality estimate into valuation
// units. ThetaFreeScale applies when a customer has no idiosyncratic taste
// parameter.
const (
	QualityScale   = 80.0
	ThetaFreeScale = 120.0

	positiveThreshold = 4.0
)

// Posterior folds a review sample into the customer's Beta prior. A review
// counts as positive evidence at 4 stars and above.
func Posterior(alpha, beta float64, reviews []simv1.Review) (float64, float64) {
	positive := 0
	for _, r := range reviews {
		if r.Stars >= positiveThreshold {
			positive++
		}
	}
	return alpha + float64(positive), beta + float64(len(reviews)-positive)
}

// PosteriorMean is the mean of a Beta(a, b) distribution.
func PosteriorMean(a, b float64) float64 {
	return a / (a + b)
}

// Valuation is the customer's willingness to pay given a quality estimate.
func Valuation(theta *float64, mu float64) float64 {
	if theta == nil {
		return mu * ThetaFreeScale
	}
	return *theta + mu*QualityScale
}

// WillPurchase applies the purchase rule: buy iff valuation exceeds price.
func WillPurchase(valuation, price float64) bool {
	return valuation > price
}

// Surplus is the expected gain from buying at the given price.
func Surplus(valuation, price float64) float64 {
	return valuation - price
}

// Preference scores a customer's accumulated history with one vendor:
// each satisfying visit counts +1.0, each disappointment -0.5, averaged.
// A customer with no history there scores 0.
func Preference(c *simv1.Customer, vendorID string) float64 {
	total, n := 0.0, 0
	for _, exp := range c.Experiences {
		if exp.VendorID != vendorID {
			continue
		}
		if exp.WasSatisfied {
			total += 1.0
		} else {
			total -= 0.5
		}
		n++
	}
	if n == 0 {
		return 0.0
	}
	return total / float64(n)
}

// VisitCount returns how many times the customer has visited the vendor.
func VisitCount(c *simv1.Customer, vendorID string) int {
	n := 0
	for _, exp := range c.Experiences {
		if exp.VendorID == vendorID {
			n++
		}
	}
	return n
}

// LastExperience returns the customer's most recent visit to the vendor.
func LastExperience(c *simv1.Customer, vendorID string) (simv1.Experience, bool) {
	for i := len(c.Experiences) - 1; i >= 0; i-- {
		if c.Experiences[i].VendorID == vendorID {
			return c.Experiences[i], true
		}
	}
	return simv1.Experience{}, false
}

// StarsForQuality maps an experience quality in [0,1] onto the review star
// scale. Satisfaction starts at 4 stars.
func StarsForQuality(q float64) (stars float64, satisfied bool) {
	switch {
	case q <= 0.1:
		return 1.0, false
	case q <= 0.3:
		return 2.0, false
	case q <= 0.5:
		return 3.0, false
	case q <= 0.8:
		return 4.0, true
	default:
		return 5.0, true
	}
}

// QualityDraw samples an experience quality around the vendor's true quality
// from Beta(5q, 5(1-q)), clamped to [0,1]. Degenerate true qualities at the
// endpoints return the endpoint.
func QualityDraw(trueQuality float64, rng *rand.Rand) float64 {
	a := trueQuality * 5.0
	b := (1.0 - trueQuality) * 5.0
	if a <= 0 {
		return 0.0
	}
	if b <= 0 {
		return 1.0
	}
	x := gammaDraw(a, rng)
	y := gammaDraw(b, rng)
	q := x / (x + y)
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

// gammaDraw samples Gamma(shape, 1) using the Marsaglia-Tsang method. Shapes
// below 1 are boosted and corrected with a uniform power.
func gammaDraw(shape float64, rng *rand.Rand) float64 {
	if shape < 1 {
		u := rng.Float64()
		return gammaDraw(shape+1, rng) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
