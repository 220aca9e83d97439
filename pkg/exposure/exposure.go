// Package exposure implements the review-ordering policies that decide which
// subset of a vendor's reviews a bounded-attention customer actually sees.
package exposure

import (
	"math/rand"
	"sort"
	"time"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

// Policy tags a review-ordering strategy.
type Policy string

const (
	PolicyHighestRating Policy = "highest_rating"
	PolicyNewestFirst   Policy = "newest_first"
	PolicyRandom        Policy = "random"
	PolicyRecencyBoost  Policy = "recency_boost"
)

// ParsePolicy maps a configured policy name (including the aliases used by
// older experiment configs) to a Policy. Unknown names fall back to
// newest-first.
func ParsePolicy(name string) Policy {
	switch name {
	case "highest_rating":
		return PolicyHighestRating
	case "newest_first", "latest":
		return PolicyNewestFirst
	case "random":
		return PolicyRandom
	case "recency_boost", "recent_quality_boost":
		return PolicyRecencyBoost
	default:
		return PolicyNewestFirst
	}
}

const (
	recentBoostWindow     = 30 * 24 * time.Hour
	semiRecentBoostWindow = 90 * 24 * time.Hour
	recentBoost           = 0.5
	semiRecentBoost       = 0.25
	maxStars              = 5.0
)

// Select returns at most limit reviews ordered under the given policy.
// len(result) == min(limit, len(all)) always; empty input yields an empty
// result rather than an error. now is the simulated clock and rng the run's
// shared random source, so selections are reproducible from a seed.
func Select(all []simv1.Review, policy Policy, limit int, now time.Time, rng *rand.Rand) []simv1.Review {
	if limit <= 0 || len(all) == 0 {
		return nil
	}

	var ordered []simv1.Review
	switch policy {
	case PolicyHighestRating:
		ordered = sortedBy(all, func(a, b simv1.Review) bool {
			return a.Stars > b.Stars
		})
	case PolicyRandom:
		if len(all) <= limit {
			ordered = append(ordered, all...)
		} else {
			for _, i := range rng.Perm(len(all))[:limit] {
				ordered = append(ordered, all[i])
			}
		}
	case PolicyRecencyBoost:
		ordered = recencyBoosted(all, now)
	default: // newest-first, also the fallback for unknown policies
		ordered = sortedBy(all, func(a, b simv1.Review) bool {
			return a.ParsedDate.After(b.ParsedDate)
		})
	}

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}

// BoostedRating returns the review's effective rating under recency boost:
// +0.5 within 30 days of now, +0.25 within 90 days, capped at 5.0. Reviews
// whose dates failed to parse get no boost.
func BoostedRating(r simv1.Review, now time.Time) float64 {
	if !r.ParsedOK {
		return r.Stars
	}
	boosted := r.Stars
	age := now.Sub(r.ParsedDate)
	switch {
	case age <= recentBoostWindow:
		boosted += recentBoost
	case age <= semiRecentBoostWindow:
		boosted += semiRecentBoost
	}
	if boosted > maxStars {
		boosted = maxStars
	}
	return boosted
}

func recencyBoosted(all []simv1.Review, now time.Time) []simv1.Review {
	type scored struct {
		review  simv1.Review
		boosted float64
	}
	rows := make([]scored, 0, len(all))
	for _, r := range all {
		rows = append(rows, scored{review: r, boosted: BoostedRating(r, now)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].boosted != rows[j].boosted {
			return rows[i].boosted > rows[j].boosted
		}
		return rows[i].review.ParsedDate.After(rows[j].review.ParsedDate)
	})
	out := make([]simv1.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.review)
	}
	return out
}

func sortedBy(all []simv1.Review, less func(a, b simv1.Review) bool) []simv1.Review {
	out := make([]simv1.Review, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
