package v1

import (
	"strings"
	"time"
)

// DateFormat is the wire format used for review and experience timestamps,
// matching the seed review files.
const DateFormat = "2006-01-02 15:04:05"

// Review is a single customer review of a vendor. Reviews are immutable once
// created; ParsedDate/ParsedOK carry the result of parsing Date so that a
// malformed timestamp degrades (no recency boost, sorts oldest) instead of
// aborting a selection.
type Review struct {
	ID          string    `json:"review_id"`
	AuthorID    string    `json:"user_id"`
	VendorID    string    `json:"business_id"`
	Stars       float64   `json:"stars"`
	Text        string    `json:"text"`
	Date        string    `json:"date"`
	OrderedItem string    `json:"ordered_item,omitempty"`
	ParsedDate  time.Time `json:"-"`
	ParsedOK    bool      `json:"-"`
}

// ParseDate fills ParsedDate/ParsedOK from the wire Date string.
func (r *Review) ParseDate() {
	t, err := time.Parse(DateFormat, r.Date)
	if err != nil {
		r.ParsedDate = time.Time{}
		r.ParsedOK = false
		return
	}
	r.ParsedDate = t
	r.ParsedOK = true
}

// NewReview builds a review with the date fields kept consistent.
func NewReview(id, authorID, vendorID string, stars float64, text string, date time.Time, orderedItem string) Review {
	return Review{
		ID:          id,
		AuthorID:    authorID,
		VendorID:    vendorID,
		Stars:       stars,
		Text:        text,
		Date:        date.Format(DateFormat),
		OrderedItem: orderedItem,
		ParsedDate:  date,
		ParsedOK:    true,
	}
}

// Experience records one completed visit. ReviewText is filled in lazily if
// the customer decides to leave a review.
type Experience struct {
	VendorID          string  `json:"restaurant_id"`
	Date              string  `json:"date"`
	OrderedItem       string  `json:"ordered_item"`
	StarsGiven        float64 `json:"stars_given"`
	PricePaid         float64 `json:"price_paid"`
	WasSatisfied      bool    `json:"was_satisfied"`
	ExperienceQuality float64 `json:"experience_quality"`
	ReviewText        string  `json:"review_text,omitempty"`
}

// Customer is a simulated consumer. Theta and the Beta prior are fixed at
// creation; Experiences is an append-only log and is the customer's entire
// memory.
type Customer struct {
	ID          string            `json:"customer_id"`
	Name        string            `json:"name"`
	Attributes  map[string]string `json:"attributes"`
	Theta       *float64          `json:"theta,omitempty"`
	Alpha       float64           `json:"alpha"`
	Beta        float64           `json:"beta"`
	Experiences []Experience      `json:"experiences,omitempty"`
}

// Personality returns the customer's personality tag, lowercased, or "".
func (c *Customer) Personality() string {
	return strings.ToLower(c.Attributes["personality"])
}

// Criticality returns the customer's criticality dial (easy, medium,
// critical), defaulting to medium.
func (c *Customer) Criticality() string {
	v := strings.ToLower(c.Attributes["criticality"])
	if v == "" {
		return "medium"
	}
	return v
}

// AddExperience appends a visit to the customer's memory.
func (c *Customer) AddExperience(exp Experience) {
	c.Experiences = append(c.Experiences, exp)
}

// SkepticismLevel buckets a skepticism score.
type SkepticismLevel string

const (
	SkepticismNone   SkepticismLevel = "none"
	SkepticismLow    SkepticismLevel = "low"
	SkepticismMedium SkepticismLevel = "medium"
	SkepticismHigh   SkepticismLevel = "high"
)

// SkepticismAssessment is the derived verdict over a shown review sample.
// It is recomputed fresh for every decision and never persisted.
type SkepticismAssessment struct {
	Score               int             `json:"score"`
	Level               SkepticismLevel `json:"level"`
	Concerns            []string        `json:"concerns"`
	WillInvestigate     bool            `json:"will_investigate"`
	ConfidenceImpact    float64         `json:"confidence_impact"`
	PersonalityModifier int             `json:"personality_modifier"`
}

// Resolution is the outcome of a post-investigation reassessment.
type Resolution struct {
	Resolved        bool    `json:"resolved"`
	OngoingDoubt    bool    `json:"ongoing_doubt"`
	ConfidenceDelta float64 `json:"confidence_change"`
	Reason          string  `json:"reason"`
}

// DailyStats aggregates one vendor's day.
type DailyStats struct {
	Day       int     `json:"day"`
	Visits    int     `json:"customers_visited"`
	Purchases int     `json:"purchases"`
	Revenue   float64 `json:"revenue"`
}

// VendorResults aggregates one vendor over a whole run.
type VendorResults struct {
	VendorID            string       `json:"vendor_id"`
	Policy              string       `json:"policy"`
	Revenue             float64      `json:"revenue"`
	Purchases           int          `json:"purchases"`
	Visits              int          `json:"customers_visited"`
	PurchaseRate        float64      `json:"purchase_rate"`
	RevenuePerVisitor   float64      `json:"avg_revenue_per_visitor"`
	MarketShare         float64      `json:"market_share"`
	FinalRating         float64      `json:"final_rating"`
	FinalReviewCount    int          `json:"final_review_count"`
	Daily               []DailyStats `json:"daily_stats"`
	BiasAnalysis        BiasAnalysis `json:"review_bias_analysis"`
	PositiveRatio       float64      `json:"positive_ratio"`
	PersistenceScore    float64      `json:"persistence_score"`
	RepeatCustomerStats RepeatStats  `json:"repeat_customer_stats"`
}

// BiasAnalysis compares what bounded-attention customers see against the
// full review population.
type BiasAnalysis struct {
	TotalReviews  int     `json:"total_reviews"`
	ShownReviews  int     `json:"shown_reviews"`
	AllAvg        float64 `json:"all_reviews_avg"`
	ShownAvg      float64 `json:"shown_reviews_avg"`
	BiasDelta     float64 `json:"bias_difference"`
	BiasType      string  `json:"bias_type"`
	BiasMagnitude string  `json:"bias_magnitude"`
	SeesAll       bool    `json:"customers_see_all"`
}

// RepeatStats summarizes repeat-visit behavior at one vendor.
type RepeatStats struct {
	TotalVisits      int     `json:"total_visits"`
	UniqueCustomers  int     `json:"unique_customers"`
	RepeatCustomers  int     `json:"repeat_customers"`
	RepeatRate       float64 `json:"repeat_rate"`
	AvgVisitsPerCust float64 `json:"avg_visits_per_customer"`
}

// PreferenceDistribution counts customers by which vendor their accumulated
// experiences favor.
type PreferenceDistribution struct {
	PreferA int `json:"prefer_a"`
	PreferB int `json:"prefer_b"`
	Neutral int `json:"neutral"`
}

// LoyaltyMetrics summarizes per-customer visit shares and switching.
type LoyaltyMetrics struct {
	LoyaltyA      float64 `json:"restaurant_a_loyalty"`
	LoyaltyB      float64 `json:"restaurant_b_loyalty"`
	AvgSwitchRate float64 `json:"avg_switch_rate"`
}

// RunResults is the flat record a run emits.
type RunResults struct {
	ExperimentType string                 `json:"experiment_type"`
	Seed           int64                  `json:"seed"`
	Days           int                    `json:"days"`
	TotalCustomers int                    `json:"total_customers"`
	VendorA        VendorResults          `json:"restaurant_a"`
	VendorB        VendorResults          `json:"restaurant_b"`
	Loyalty        LoyaltyMetrics         `json:"loyalty_metrics"`
	Preferences    PreferenceDistribution `json:"preference_distribution"`
	CoNFRatio      float64                `json:"conf_ratio,omitempty"`
	Fallbacks      map[string]int         `json:"fallback_counts,omitempty"`
	Timestamp      string                 `json:"timestamp"`
}
