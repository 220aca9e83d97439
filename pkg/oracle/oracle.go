// Package oracle is the decision and text surface of the simulation: persona
// generation, vendor choice, menu choice, and review prose. The engine talks
// to the Oracle interface only; an LLM-backed client and a deterministic
// fallback both implement it.
package oracle

import (
	"context"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

// Decision choices.
const (
	ChoiceA       = "A"
	ChoiceB       = "B"
	ChoiceNeither = "neither"
)

// Profile is a freshly generated customer persona.
type Profile struct {
	Name               string
	Income             string
	Taste              string
	Health             string
	DietaryRestriction string
	Personality        string
	Criticality        string
}

// Attributes flattens the profile into the customer attribute map.
func (p Profile) Attributes() map[string]string {
	return map[string]string{
		"income":              p.Income,
		"taste":               p.Taste,
		"health":              p.Health,
		"dietary_restriction": p.DietaryRestriction,
		"personality":         p.Personality,
		"criticality":         p.Criticality,
	}
}

// VendorContext is everything a customer knows about one vendor at decision
// time: the exposed review sample, aggregate stats, their own skepticism
// verdict and any investigation outcome, plus personal history.
type VendorContext struct {
	VendorID      string
	Name          string
	Description   string
	Rating        float64
	ReviewCount   int
	Menu          map[string]float64
	Reviews       []simv1.Review
	Skepticism    *simv1.SkepticismAssessment
	Investigation *simv1.Resolution
	Additional    []simv1.Review
	Preference    float64
	PastVisits    int
}

// DecisionRequest asks which vendor (if either) the customer visits.
type DecisionRequest struct {
	Customer *simv1.Customer
	A        VendorContext
	B        VendorContext
}

// Decision is the customer's choice with its stated reason.
type Decision struct {
	Choice string
	Reason string
}

// ReviewRequest asks for review prose matching an already-decided rating.
type ReviewRequest struct {
	Customer    *simv1.Customer
	VendorID    string
	VendorName  string
	OrderedItem string
	Stars       float64
	Quality     float64
	Satisfied   bool
}

// Oracle produces every free-form output the simulation needs. All methods
// honor ctx cancellation; implementations must not panic on malformed
// upstream output, they return an error and let the engine fall back.
type Oracle interface {
	GenerateCustomer(ctx context.Context) (Profile, error)
	Decide(ctx context.Context, req DecisionRequest) (Decision, error)
	ChooseMenuItem(ctx context.Context, customer *simv1.Customer, vendor VendorContext) (string, error)
	GenerateReview(ctx context.Context, req ReviewRequest) (string, error)
}
