package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
	"github.com/uzairabid1/customer-simulator/pkg/belief"
	"github.com/uzairabid1/customer-simulator/pkg/metrics"
)

func (e *Engine) buildResults(experimentType string, dailyA, dailyB []simv1.DailyStats, customers []*simv1.Customer) *simv1.RunResults {
	now := e.start.AddDate(0, 0, e.cfg.Days)

	resultsA := e.vendorResults(e.vendorA, dailyA, now)
	resultsB := e.vendorResults(e.vendorB, dailyB, now)

	totalVisits := resultsA.Visits + resultsB.Visits
	if totalVisits > 0 {
		resultsA.MarketShare = float64(resultsA.Visits) / float64(totalVisits)
		resultsB.MarketShare = float64(resultsB.Visits) / float64(totalVisits)
	}

	return &simv1.RunResults{
		ExperimentType: experimentType,
		Seed:           e.seed,
		Days:           e.cfg.Days,
		TotalCustomers: len(customers),
		VendorA:        resultsA,
		VendorB:        resultsB,
		Loyalty:        loyaltyMetrics(customers),
		Preferences:    preferenceDistribution(customers),
		Fallbacks:      metrics.FallbackCounts(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}

func (e *Engine) vendorResults(v *Vendor, daily []simv1.DailyStats, now time.Time) simv1.VendorResults {
	results := simv1.VendorResults{
		VendorID:            v.ID,
		Policy:              string(v.Policy),
		Revenue:             v.Revenue,
		Daily:               daily,
		FinalRating:         v.Store.OverallRating(),
		FinalReviewCount:    v.Store.Count(),
		BiasAnalysis:        v.BiasAnalysis(e.cfg.AttentionLimit, now, e.rng),
		PositiveRatio:       v.PositiveRatio(),
		PersistenceScore:    v.PersistenceScore(now, e.rng),
		RepeatCustomerStats: v.RepeatStats(),
	}
	for _, day := range daily {
		results.Visits += day.Visits
		results.Purchases += day.Purchases
	}
	if results.Visits > 0 {
		results.PurchaseRate = float64(results.Purchases) / float64(results.Visits)
		results.RevenuePerVisitor = results.Revenue / float64(results.Visits)
	}
	return results
}

// loyaltyMetrics aggregates per-customer visit shares and the switch rate:
// the fraction of consecutive-visit pairs that changed vendor.
func loyaltyMetrics(customers []*simv1.Customer) simv1.LoyaltyMetrics {
	var loyaltyA, loyaltyB, switchRates []float64
	for _, c := range customers {
		if len(c.Experiences) == 0 {
			continue
		}
		visitsA := 0
		switches := 0
		for i, exp := range c.Experiences {
			if exp.VendorID == "A" {
				visitsA++
			}
			if i > 0 && exp.VendorID != c.Experiences[i-1].VendorID {
				switches++
			}
		}
		total := len(c.Experiences)
		loyaltyA = append(loyaltyA, float64(visitsA)/float64(total))
		loyaltyB = append(loyaltyB, float64(total-visitsA)/float64(total))
		if total > 1 {
			switchRates = append(switchRates, float64(switches)/float64(total-1))
		}
	}

	return simv1.LoyaltyMetrics{
		LoyaltyA:      meanOrZero(loyaltyA),
		LoyaltyB:      meanOrZero(loyaltyB),
		AvgSwitchRate: meanOrZero(switchRates),
	}
}

// preferenceDistribution buckets customers by which vendor their accumulated
// experiences favor. Customers with no history, or equal scores, are neutral.
func preferenceDistribution(customers []*simv1.Customer) simv1.PreferenceDistribution {
	var dist simv1.PreferenceDistribution
	for _, c := range customers {
		prefA := belief.Preference(c, "A")
		prefB := belief.Preference(c, "B")
		switch {
		case prefA > prefB:
			dist.PreferA++
		case prefB > prefA:
			dist.PreferB++
		default:
			dist.Neutral++
		}
	}
	return dist
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0.0
	}
	return mean
}

// Export writes the results record as indented JSON under dir.
func Export(results *simv1.RunResults, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling results")
	}
	path := filepath.Join(dir, results.ExperimentType+"_results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing results file")
	}
	log.WithField("path", path).Info("results written")
	return path, nil
}

// Summarize logs the headline numbers of a finished run.
func Summarize(results *simv1.RunResults) {
	log.WithField("policy_a", results.VendorA.Policy).
		WithField("visits_a", results.VendorA.Visits).
		WithField("revenue_a", results.VendorA.Revenue).
		WithField("market_share_a", results.VendorA.MarketShare).
		Info("vendor A totals")
	log.WithField("policy_b", results.VendorB.Policy).
		WithField("visits_b", results.VendorB.Visits).
		WithField("revenue_b", results.VendorB.Revenue).
		WithField("market_share_b", results.VendorB.MarketShare).
		Info("vendor B totals")
	log.WithField("loyalty_a", results.Loyalty.LoyaltyA).
		WithField("loyalty_b", results.Loyalty.LoyaltyB).
		WithField("switch_rate", results.Loyalty.AvgSwitchRate).
		Info("loyalty metrics")
	log.WithField("prefer_a", results.Preferences.PreferA).
		WithField("prefer_b", results.Preferences.PreferB).
		WithField("neutral", results.Preferences.Neutral).
		Info("customer preference distribution")
	if results.CoNFRatio != 0 {
		log.WithField("revenue_ratio_a_over_b", results.CoNFRatio).Info("cost of newest-first")
	}
	for path, count := range results.Fallbacks {
		log.WithField("path", path).WithField("count", count).Warning("run used a degraded path")
	}
}

func sortedItems(menu map[string]float64) []string {
	items := make([]string, 0, len(menu))
	for item := range menu {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
