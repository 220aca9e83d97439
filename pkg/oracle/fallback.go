package oracle

import (
	"context"
	"fmt"
	"math/rand"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

var (
	incomePool = []string{
		"$5K-5.8K(Very Poor)", "$6K-7.9K(Poor)",
		"$8K-11.9K(Middle Class)", "$12K-14.8K(Affluent)",
	}
	tastePool = []string{
		"Local comfort foods", "Rice and noodle dishes", "Sandwiches and salads",
		"Breakfast foods", "Simple dishes", "Fast food", "Soups and stews",
		"Seafood", "Steak and meat dishes", "Vegan dishes", "Pasta and pizza",
		"Grilled dishes", "Mediterranean cuisine", "Spicy food", "Home cooking",
		"Comfort food", "Sushi and Japanese cuisine", "Italian cuisine",
		"Mexican food", "Street food", "Indian cuisine", "Barbecue",
		"Chinese cuisine", "Desserts", "Salads", "Fine dining", "Greek food",
	}
	healthPool = []string{
		"Healthy", "No concerns", "High blood pressure", "Diabetic", "Allergies",
		"Lactose intolerant", "High cholesterol", "Gluten sensitivity", "Vegan",
	}
	dietPool = []string{
		"None", "Low sodium", "Low sugar", "Low cholesterol", "Low fat",
		"Gluten-free", "Dairy-free", "Vegan",
	}
	personalityPool = []string{
		"Easy-going", "Strict", "Picky", "Cheerful", "Shy", "Adventurous",
		"Friendly", "Reserved", "Outspoken", "Energetic", "Relaxed", "Carefree",
		"Meticulous", "Curious", "Bold", "Sophisticated", "Discerning",
		"Thoughtful", "Sociable", "Optimistic", "Analytical", "Creative",
		"Gentle", "Ambitious", "Outgoing", "Intellectual", "Hardworking",
	}
	criticalityPool = []string{"easy", "medium", "critical"}
)

// Fallback is the deterministic Oracle the engine degrades to whenever the
// LLM client errors or times out. It never fails and draws all randomness
// from the injected rng, so degraded runs stay reproducible.
type Fallback struct {
	rng *rand.Rand
}

func NewFallback(rng *rand.Rand) *Fallback {
	return &Fallback{rng: rng}
}

func (f *Fallback) GenerateCustomer(_ context.Context) (Profile, error) {
	return Profile{
		Name:               fmt.Sprintf("Customer_%04d", 1000+f.rng.Intn(9000)),
		Income:             pick(f.rng, incomePool),
		Taste:              pick(f.rng, tastePool),
		Health:             pick(f.rng, healthPool),
		DietaryRestriction: pick(f.rng, dietPool),
		Personality:        pick(f.rng, personalityPool),
		Criticality:        pick(f.rng, criticalityPool),
	}, nil
}

// Decide picks uniformly between the two vendors. The fallback customer
// always eats out; price sensitivity is the quantitative mode's concern.
func (f *Fallback) Decide(_ context.Context, _ DecisionRequest) (Decision, error) {
	choice := ChoiceA
	if f.rng.Float64() < 0.5 {
		choice = ChoiceB
	}
	return Decision{Choice: choice, Reason: "chose at random"}, nil
}

// ChooseMenuItem picks a random valid item. Returns an error only when the
// menu is empty.
func (f *Fallback) ChooseMenuItem(_ context.Context, _ *simv1.Customer, vendor VendorContext) (string, error) {
	if len(vendor.Menu) == 0 {
		return "", fmt.Errorf("vendor %s has an empty menu", vendor.VendorID)
	}
	items := sortedMenu(vendor.Menu)
	return items[f.rng.Intn(len(items))], nil
}

func (f *Fallback) GenerateReview(_ context.Context, req ReviewRequest) (string, error) {
	switch {
	case req.Stars >= 4:
		return fmt.Sprintf("Great experience with the %s, would happily come back.", req.OrderedItem), nil
	case req.Stars >= 3:
		return fmt.Sprintf("The %s was fine, an average visit overall.", req.OrderedItem), nil
	default:
		return fmt.Sprintf("Disappointed with the %s, not what I hoped for.", req.OrderedItem), nil
	}
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}
