package skepticism

import (
	"math/rand"
	"strings"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

// Resolution reason tags.
const (
	ReasonNoAdditionalReviews  = "no_additional_reviews_found"
	ReasonAnalyticalConfirmed  = "analytical_confirmed_concerns"
	ReasonAnalyticalResolved   = "analytical_concerns_resolved"
	ReasonPickyNeverSatisfied  = "picky_never_satisfied"
	ReasonDiscerningConfirmed  = "discerning_quality_confirmed"
	ReasonDiscerningUnsatisifd = "discerning_quality_insufficient"
	ReasonAnxiousWorry         = "anxious_persistent_worry"
	ReasonConcernsAddressed    = "general_concerns_addressed"
	ReasonStillConcerning      = "additional_reviews_concerning"
)

// stubbornnessProbability is the chance that an anxious/reserved customer's
// doubt persists no matter what the extra evidence shows.
const stubbornnessProbability = 0.7

// Resolve decides whether a second, larger review sample settles the doubts
// raised by the initial assessment. The outcome is personality-dependent:
// investigation does not uniformly restore trust.
func Resolve(customer *simv1.Customer, initial simv1.SkepticismAssessment, additional []simv1.Review, rng *rand.Rand) simv1.Resolution {
	if len(additional) == 0 {
		return simv1.Resolution{
			Resolved:        false,
			OngoingDoubt:    true,
			ConfidenceDelta: initial.ConfidenceImpact,
			Reason:          ReasonNoAdditionalReviews,
		}
	}

	mean := meanStars(additional)
	hasNegative := countAtMost(additional, 2.0) > 0
	personality := customer.Personality()

	switch {
	case containsAny(personality, "analytical", "meticulous"):
		if hasNegative && mean < 3.5 {
			return simv1.Resolution{
				Resolved:        true,
				ConfidenceDelta: -0.2,
				Reason:          ReasonAnalyticalConfirmed,
			}
		}
		if mean >= 4.0 {
			return simv1.Resolution{
				Resolved:        true,
				ConfidenceDelta: 0.1,
				Reason:          ReasonAnalyticalResolved,
			}
		}
		// Mixed evidence: fall through to the default reading.

	case containsAny(personality, "picky", "strict"):
		return simv1.Resolution{
			Resolved:        false,
			OngoingDoubt:    true,
			ConfidenceDelta: initial.ConfidenceImpact - 0.1,
			Reason:          ReasonPickyNeverSatisfied,
		}

	case strings.Contains(personality, "discerning"):
		if mean >= 4.5 {
			return simv1.Resolution{
				Resolved:        true,
				ConfidenceDelta: 0.05,
				Reason:          ReasonDiscerningConfirmed,
			}
		}
		return simv1.Resolution{
			Resolved:        false,
			OngoingDoubt:    true,
			ConfidenceDelta: initial.ConfidenceImpact,
			Reason:          ReasonDiscerningUnsatisifd,
		}

	case containsAny(personality, "shy", "reserved", "thoughtful", "anxious"):
		if rng.Float64() < stubbornnessProbability {
			return simv1.Resolution{
				Resolved:        false,
				OngoingDoubt:    true,
				ConfidenceDelta: initial.ConfidenceImpact - 0.05,
				Reason:          ReasonAnxiousWorry,
			}
		}
		// Calm enough today to weigh the evidence like anyone else.
	}

	if mean >= 3.5 {
		delta := initial.ConfidenceImpact + 0.15
		if delta < 0 {
			delta = 0
		}
		return simv1.Resolution{
			Resolved:        true,
			ConfidenceDelta: delta,
			Reason:          ReasonConcernsAddressed,
		}
	}
	return simv1.Resolution{
		Resolved:        false,
		OngoingDoubt:    true,
		ConfidenceDelta: initial.ConfidenceImpact - 0.1,
		Reason:          ReasonStillConcerning,
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
