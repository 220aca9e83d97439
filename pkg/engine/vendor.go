package engine

import (
	"math/rand"
	"time"

	configv1 "github.com/uzairabid1/customer-simulator/pkg/apis/config/v1"
	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
	"github.com/uzairabid1/customer-simulator/pkg/exposure"
	"github.com/uzairabid1/customer-simulator/pkg/reviewstore"
)

// Vendor is one competing seller: its configuration, review population, and
// the running tallies the orchestrator mutates when a purchase lands.
type Vendor struct {
	ID          string
	Name        string
	Description string
	Policy      exposure.Policy
	TrueQuality float64
	Menu        map[string]float64

	Store   *reviewstore.Store
	Revenue float64

	visitLog   map[int][]string
	visitCount map[string]int
}

func NewVendor(id string, cfg configv1.VendorConfig) *Vendor {
	return &Vendor{
		ID:          id,
		Name:        cfg.Name,
		Description: cfg.Description,
		Policy:      exposure.ParsePolicy(cfg.Policy),
		TrueQuality: cfg.TrueQuality,
		Menu:        cfg.Menu,
		Store:       reviewstore.New(id),
		visitLog:    map[int][]string{},
		visitCount:  map[string]int{},
	}
}

// RecordVisit books revenue and visit tracking for one purchase. Called only
// by the orchestrator, between customers.
func (v *Vendor) RecordVisit(day int, customerID string, price float64) {
	v.Revenue += price
	v.visitLog[day] = append(v.visitLog[day], customerID)
	v.visitCount[customerID]++
}

// RepeatStats summarizes how often customers came back.
func (v *Vendor) RepeatStats() simv1.RepeatStats {
	stats := simv1.RepeatStats{UniqueCustomers: len(v.visitCount)}
	for _, count := range v.visitCount {
		stats.TotalVisits += count
		if count > 1 {
			stats.RepeatCustomers++
		}
	}
	if stats.UniqueCustomers > 0 {
		stats.RepeatRate = float64(stats.RepeatCustomers) / float64(stats.UniqueCustomers)
		stats.AvgVisitsPerCust = float64(stats.TotalVisits) / float64(stats.UniqueCustomers)
	}
	return stats
}

// BiasAnalysis compares the sample a bounded-attention customer would be
// shown right now against the whole review population. The random policy
// draws one representative sample from rng.
func (v *Vendor) BiasAnalysis(limit int, now time.Time, rng *rand.Rand) simv1.BiasAnalysis {
	all := v.Store.All()
	if len(all) == 0 {
		return simv1.BiasAnalysis{BiasType: "no_reviews"}
	}

	shown := exposure.Select(all, v.Policy, limit, now, rng)

	analysis := simv1.BiasAnalysis{
		TotalReviews: len(all),
		ShownReviews: len(shown),
		AllAvg:       meanStars(all),
		ShownAvg:     meanStars(shown),
		SeesAll:      len(all) <= limit,
	}
	analysis.BiasDelta = analysis.ShownAvg - analysis.AllAvg

	switch {
	case analysis.BiasDelta > 0.1:
		analysis.BiasType = "positive_bias"
	case analysis.BiasDelta < -0.1:
		analysis.BiasType = "negative_bias"
	default:
		analysis.BiasType = "minimal_bias"
	}
	switch delta := abs(analysis.BiasDelta); {
	case delta > 1.0:
		analysis.BiasMagnitude = "high"
	case delta > 0.5:
		analysis.BiasMagnitude = "medium"
	default:
		analysis.BiasMagnitude = "low"
	}
	return analysis
}

// PositiveRatio is the share of reviews at 4 stars and above.
func (v *Vendor) PositiveRatio() float64 {
	all := v.Store.All()
	if len(all) == 0 {
		return 0.0
	}
	positive := 0
	for _, r := range all {
		if r.Stars >= 4.0 {
			positive++
		}
	}
	return float64(positive) / float64(len(all))
}

// PersistenceScore measures how much of the top of the vendor's current
// exposure window is negative: the share of the top five policy-ordered
// reviews below 4 stars.
func (v *Vendor) PersistenceScore(now time.Time, rng *rand.Rand) float64 {
	top := exposure.Select(v.Store.All(), v.Policy, 5, now, rng)
	if len(top) == 0 {
		return 0.0
	}
	negative := 0
	for _, r := range top {
		if r.Stars < 4.0 {
			negative++
		}
	}
	return float64(negative) / float64(len(top))
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

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
