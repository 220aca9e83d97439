package v1

// SimulatorConfig is the experiment configuration loaded from YAML. Every
// behavioral constant the engine uses lives here so experiment variants are
// configuration, not code forks.
type SimulatorConfig struct {
	Days            int `yaml:"days"`
	CustomersPerDay int `yaml:"customersPerDay"`

	// AttentionLimit is the number of reviews a customer reads initially;
	// InvestigationLimit is how many more an investigating customer may read.
	// The sum is a hard cap on the visible sample.
	AttentionLimit     int `yaml:"attentionLimit"`
	InvestigationLimit int `yaml:"investigationLimit"`

	// ReviewLeaveProbability is the chance a visiting customer leaves a review.
	ReviewLeaveProbability float64 `yaml:"reviewLeaveProbability"`

	// Criticality applies to all generated customers: easy, medium, critical.
	Criticality string `yaml:"criticality"`

	// Beta-Bernoulli prior and idiosyncratic valuation draw parameters.
	PriorAlpha float64 `yaml:"priorAlpha"`
	PriorBeta  float64 `yaml:"priorBeta"`
	ThetaMean  float64 `yaml:"thetaMean"`
	ThetaStd   float64 `yaml:"thetaStd"`

	Skepticism SkepticismConfig `yaml:"skepticism"`

	VendorA VendorConfig `yaml:"restaurantA"`
	VendorB VendorConfig `yaml:"restaurantB"`
}

// VendorConfig describes one competing vendor.
type VendorConfig struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Policy      string             `yaml:"reviewPolicy"`
	TrueQuality float64            `yaml:"trueQuality"`
	Menu        map[string]float64 `yaml:"menu"`
	SeedFile    string             `yaml:"seedReviews,omitempty"`
}

// SkepticismConfig holds the signal weight table and investigation
// probabilities. Zero values fall back to the defaults below, so a partial
// YAML block only overrides what it names.
type SkepticismConfig struct {
	UniformDistribution int `yaml:"uniformDistribution"`
	NoNegative          int `yaml:"noNegative"`
	VeryOutdated        int `yaml:"veryOutdated"`
	Outdated            int `yaml:"outdated"`
	ClusteredDates      int `yaml:"clusteredDates"`
	TooFewReviews       int `yaml:"tooFewReviews"`
	NoDiversity         int `yaml:"noDiversity"`
	LimitedDiversity    int `yaml:"limitedDiversity"`
	CherryPickPositive  int `yaml:"cherryPickPositive"`
	CherryPickNegative  int `yaml:"cherryPickNegative"`

	SkepticalPersonality int `yaml:"skepticalPersonality"`
	TrustingPersonality  int `yaml:"trustingPersonality"`
	CriticalityEasy      int `yaml:"criticalityEasy"`
	CriticalityCritical  int `yaml:"criticalityCritical"`

	InvestigateHigh   float64 `yaml:"investigateHigh"`
	InvestigateMedium float64 `yaml:"investigateMedium"`
	InvestigateLow    float64 `yaml:"investigateLow"`
}

// Default returns the configuration with every constant at its observed
// baseline value.
func Default() *SimulatorConfig {
	return &SimulatorConfig{
		Days:                   10,
		CustomersPerDay:        10,
		AttentionLimit:         5,
		InvestigationLimit:     5,
		ReviewLeaveProbability: 0.7,
		Criticality:            "medium",
		PriorAlpha:             1.0,
		PriorBeta:              1.0,
		ThetaMean:              50.0,
		ThetaStd:               30.0,
		Skepticism:             DefaultSkepticism(),
		VendorA: VendorConfig{
			Name:        "Bella Vista",
			Policy:      "newest_first",
			TrueQuality: 0.8,
			Menu:        defaultMenu(),
		},
		VendorB: VendorConfig{
			Name:        "Coastal Breeze",
			Policy:      "random",
			TrueQuality: 0.8,
			Menu:        defaultMenu(),
		},
	}
}

// DefaultSkepticism is the richer of the two observed weight schemes.
func DefaultSkepticism() SkepticismConfig {
	return SkepticismConfig{
		UniformDistribution:  2,
		NoNegative:           1,
		VeryOutdated:         3,
		Outdated:             1,
		ClusteredDates:       2,
		TooFewReviews:        1,
		NoDiversity:          2,
		LimitedDiversity:     1,
		CherryPickPositive:   3,
		CherryPickNegative:   2,
		SkepticalPersonality: 2,
		TrustingPersonality:  -1,
		CriticalityEasy:      -2,
		CriticalityCritical:  3,
		InvestigateHigh:      0.8,
		InvestigateMedium:    0.6,
		InvestigateLow:       0.3,
	}
}

func defaultMenu() map[string]float64 {
	return map[string]float64{
		"Avocado Eggrolls":            14,
		"Bacon-Bacon Cheeseburger":    18,
		"Club Sandwich":               17,
		"Chicken Parmesan Pasta":      23,
		"Chicken Madeira":             24,
		"Grilled Salmon":              28,
		"Original Cheesecake":         9,
		"Fresh Strawberry Cheesecake": 10,
	}
}
