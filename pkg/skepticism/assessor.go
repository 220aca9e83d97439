// Package skepticism scores a shown review sample for suspicious patterns
// and decides whether a customer digs for more evidence before choosing.
package skepticism

import (
	"math/rand"
	"strings"
	"time"

	configv1 "github.com/uzairabid1/customer-simulator/pkg/apis/config/v1"
	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

// Concern tags, recorded on the assessment so downstream logging can explain
// why a customer got suspicious.
const (
	ConcernUniformDistribution = "uniform_distribution"
	ConcernNoNegative          = "no_negative_reviews"
	ConcernVeryOutdated        = "very_outdated_reviews"
	ConcernOutdated            = "outdated_reviews"
	ConcernClusteredDates      = "clustered_dates"
	ConcernTooFewReviews       = "too_few_reviews"
	ConcernNoDiversity         = "no_rating_diversity"
	ConcernLimitedDiversity    = "limited_rating_diversity"
	ConcernCherryPickPositive  = "cherry_pick_positive"
	ConcernCherryPickNegative  = "cherry_pick_negative"
)

var skepticalTraits = []string{
	"analytical", "meticulous", "discerning", "strict", "picky",
	"reserved", "thoughtful", "critical", "demanding", "perfectionist",
}

var trustingTraits = []string{
	"easy-going", "easygoing", "relaxed", "carefree", "cheerful",
	"optimistic", "friendly", "outgoing",
}

// ConfidenceImpactFor maps a skepticism level to its valuation dampener.
func ConfidenceImpactFor(level simv1.SkepticismLevel) float64 {
	switch level {
	case simv1.SkepticismHigh:
		return -0.30
	case simv1.SkepticismMedium:
		return -0.15
	case simv1.SkepticismLow:
		return -0.05
	default:
		return 0
	}
}

// Assessor turns review samples into skepticism verdicts using an injected
// weight table, so experiment variants tune weights without forking code.
type Assessor struct {
	weights configv1.SkepticismConfig
}

func NewAssessor(weights configv1.SkepticismConfig) *Assessor {
	return &Assessor{weights: weights}
}

// Assess scores the shown sample against the vendor's aggregate rating. The
// investigate decision at each non-zero level is a Bernoulli draw from rng,
// so two customers with identical scores can behave differently. An empty
// sample short-circuits to a zero assessment.
func (a *Assessor) Assess(customer *simv1.Customer, shown []simv1.Review, vendorAggregate float64, now time.Time, rng *rand.Rand) simv1.SkepticismAssessment {
	if len(shown) == 0 {
		return simv1.SkepticismAssessment{Level: simv1.SkepticismNone, Concerns: []string{}}
	}

	var concerns []string
	score := 0
	addConcern := func(tag string, weight int) {
		concerns = append(concerns, tag)
		score += weight
	}

	distinct := distinctStars(shown)
	switch {
	case distinct == 1 && len(shown) >= 3:
		addConcern(ConcernUniformDistribution, a.weights.UniformDistribution)
	case distinct == 1:
		addConcern(ConcernNoDiversity, a.weights.NoDiversity)
	case distinct == 2:
		addConcern(ConcernLimitedDiversity, a.weights.LimitedDiversity)
	}

	if len(shown) >= 5 && countAtMost(shown, 2.0) == 0 {
		addConcern(ConcernNoNegative, a.weights.NoNegative)
	}

	if len(shown) < 3 {
		addConcern(ConcernTooFewReviews, a.weights.TooFewReviews)
	}

	// Recency analysis only considers reviews whose dates parsed; a sample
	// full of garbage dates contributes no recency signal rather than an
	// error.
	if newest, oldest, ok := dateSpan(shown); ok {
		switch {
		case newest.Before(now.AddDate(-1, 0, 0)):
			addConcern(ConcernVeryOutdated, a.weights.VeryOutdated)
		case newest.Before(now.AddDate(0, -6, 0)):
			addConcern(ConcernOutdated, a.weights.Outdated)
		}
		if countParsed(shown) >= 5 && newest.Sub(oldest) <= 7*24*time.Hour {
			addConcern(ConcernClusteredDates, a.weights.ClusteredDates)
		}
	}

	if delta := meanStars(shown) - vendorAggregate; delta >= 1.0 {
		addConcern(ConcernCherryPickPositive, a.weights.CherryPickPositive)
	} else if delta <= -1.0 {
		addConcern(ConcernCherryPickNegative, a.weights.CherryPickNegative)
	}

	personalityMod := a.personalityModifier(customer.Personality())
	score += personalityMod
	score += a.criticalityModifier(customer.Criticality())
	if score < 0 {
		score = 0
	}

	level, investigateProb := a.levelFor(score)
	assessment := simv1.SkepticismAssessment{
		Score:               score,
		Level:               level,
		Concerns:            concerns,
		ConfidenceImpact:    ConfidenceImpactFor(level),
		PersonalityModifier: personalityMod,
	}
	if investigateProb > 0 {
		assessment.WillInvestigate = rng.Float64() < investigateProb
	}
	return assessment
}

func (a *Assessor) levelFor(score int) (simv1.SkepticismLevel, float64) {
	switch {
	case score >= 5:
		return simv1.SkepticismHigh, a.weights.InvestigateHigh
	case score >= 3:
		return simv1.SkepticismMedium, a.weights.InvestigateMedium
	case score >= 1:
		return simv1.SkepticismLow, a.weights.InvestigateLow
	default:
		return simv1.SkepticismNone, 0
	}
}

func (a *Assessor) personalityModifier(personality string) int {
	for _, trait := range skepticalTraits {
		if strings.Contains(personality, trait) {
			return a.weights.SkepticalPersonality
		}
	}
	for _, trait := range trustingTraits {
		if strings.Contains(personality, trait) {
			return a.weights.TrustingPersonality
		}
	}
	return 0
}

func (a *Assessor) criticalityModifier(criticality string) int {
	switch criticality {
	case "easy":
		return a.weights.CriticalityEasy
	case "critical":
		return a.weights.CriticalityCritical
	default:
		return 0
	}
}

func distinctStars(reviews []simv1.Review) int {
	seen := map[float64]bool{}
	for _, r := range reviews {
		seen[r.Stars] = true
	}
	return len(seen)
}

func countAtMost(reviews []simv1.Review, stars float64) int {
	n := 0
	for _, r := range reviews {
		if r.Stars <= stars {
			n++
		}
	}
	return n
}

func countParsed(reviews []simv1.Review) int {
	n := 0
	for _, r := range reviews {
		if r.ParsedOK {
			n++
		}
	}
	return n
}

func dateSpan(reviews []simv1.Review) (newest, oldest time.Time, ok bool) {
	for _, r := range reviews {
		if !r.ParsedOK {
			continue
		}
		if !ok {
			newest, oldest, ok = r.ParsedDate, r.ParsedDate, true
			continue
		}
		if r.ParsedDate.After(newest) {
			newest = r.ParsedDate
		}
		if r.ParsedDate.Before(oldest) {
			oldest = r.ParsedDate
		}
	}
	return newest, oldest, ok
}

func meanStars(reviews []simv1.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range reviews {
		sum += r.Stars
	}
	return sum / float64(len(reviews))
}
