// Package engine drives the simulation: the day loop, the per-customer
// decision flow, and results assembly for both experiment modes.
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	configv1 "github.com/uzairabid1/customer-simulator/pkg/apis/config/v1"
	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
	"github.com/uzairabid1/customer-simulator/pkg/belief"
	"github.com/uzairabid1/customer-simulator/pkg/metrics"
	"github.com/uzairabid1/customer-simulator/pkg/oracle"
	"github.com/uzairabid1/customer-simulator/pkg/skepticism"
)

// Engine orchestrates one simulation run. Customers are processed strictly
// sequentially; vendor state mutates only between customers, so the run is
// single-threaded by construction. All randomness flows through one seeded
// generator, making a run reproducible from its seed.
type Engine struct {
	cfg      configv1.SimulatorConfig
	vendorA  *Vendor
	vendorB  *Vendor
	assessor *skepticism.Assessor
	primary  oracle.Oracle
	fallback *oracle.Fallback
	rng      *rand.Rand
	seed     int64
	start    time.Time
}

// New builds an engine from config. primary may be nil, in which case every
// oracle call uses the deterministic fallback.
func New(cfg configv1.SimulatorConfig, primary oracle.Oracle, seed int64) *Engine {
	rng := rand.New(rand.NewSource(seed))
	e := &Engine{
		cfg:      cfg,
		vendorA:  NewVendor("A", cfg.VendorA),
		vendorB:  NewVendor("B", cfg.VendorB),
		assessor: skepticism.NewAssessor(cfg.Skepticism),
		primary:  primary,
		fallback: oracle.NewFallback(rng),
		rng:      rng,
		seed:     seed,
		start:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	e.loadSeedReviews()
	return e
}

func (e *Engine) loadSeedReviews() {
	for _, v := range []*Vendor{e.vendorA, e.vendorB} {
		cfg := e.cfg.VendorA
		if v.ID == "B" {
			cfg = e.cfg.VendorB
		}
		if cfg.SeedFile != "" {
			if err := v.Store.LoadSeed(cfg.SeedFile); err == nil {
				continue
			} else {
				log.WithError(err).WithField("vendor", v.ID).Warning("could not load seed reviews")
			}
		}
		v.Store.SynthesizeSeed(10, v.TrueQuality, e.start, func() float64 {
			return belief.QualityDraw(v.TrueQuality, e.rng)
		})
	}
}

// dayTime returns the simulated timestamp for an event on the given day.
// Days are 1-based; the hour is drawn so same-day events do not collide.
func (e *Engine) dayTime(day int) time.Time {
	return e.start.AddDate(0, 0, day-1).Add(time.Duration(e.rng.Intn(12)) * time.Hour)
}

// generateCustomer asks the oracle for a persona, degrading to the
// deterministic fallback on any error.
func (e *Engine) generateCustomer(ctx context.Context) (oracle.Profile, error) {
	if e.primary != nil {
		profile, err := e.primary.GenerateCustomer(ctx)
		if err == nil {
			return profile, nil
		}
		log.WithError(err).Warning("customer generation failed, using fallback persona")
		metrics.RecordFallback(metrics.FallbackCustomerGeneration)
	}
	return e.fallback.GenerateCustomer(ctx)
}

func (e *Engine) decide(ctx context.Context, req oracle.DecisionRequest) oracle.Decision {
	if e.primary != nil {
		decision, err := e.primary.Decide(ctx, req)
		if err == nil {
			return decision
		}
		log.WithError(err).WithField("customer", req.Customer.ID).Warning("decision failed, choosing at random")
		metrics.RecordFallback(metrics.FallbackDecision)
	}
	decision, _ := e.fallback.Decide(ctx, req)
	return decision
}

// chooseMenuItem returns a valid item from the vendor's menu, falling back
// to a uniform random valid item when the oracle fails or names an item that
// is not on the menu.
func (e *Engine) chooseMenuItem(ctx context.Context, customer *simv1.Customer, vendor *Vendor) (string, error) {
	vctx := e.vendorContext(vendor, nil, nil, nil, customer)
	if e.primary != nil {
		item, err := e.primary.ChooseMenuItem(ctx, customer, vctx)
		if err == nil {
			return item, nil
		}
		log.WithError(err).WithField("customer", customer.ID).Warning("menu choice failed, picking at random")
		metrics.RecordFallback(metrics.FallbackMenuChoice)
	}
	item, err := e.fallback.ChooseMenuItem(ctx, customer, vctx)
	if err != nil {
		return "", errors.WithMessagef(err, "no menu item available for vendor %s", vendor.ID)
	}
	return item, nil
}

func (e *Engine) reviewText(ctx context.Context, req oracle.ReviewRequest) string {
	if e.primary != nil {
		text, err := e.primary.GenerateReview(ctx, req)
		if err == nil {
			return text
		}
		log.WithError(err).WithField("customer", req.Customer.ID).Warning("review generation failed, using canned text")
		metrics.RecordFallback(metrics.FallbackReviewText)
	}
	text, _ := e.fallback.GenerateReview(ctx, req)
	return text
}

func (e *Engine) vendorContext(v *Vendor, shown []simv1.Review, assessment *simv1.SkepticismAssessment, resolution *simv1.Resolution, customer *simv1.Customer) oracle.VendorContext {
	return oracle.VendorContext{
		VendorID:      v.ID,
		Name:          v.Name,
		Description:   v.Description,
		Rating:        v.Store.OverallRating(),
		ReviewCount:   v.Store.Count(),
		Menu:          v.Menu,
		Reviews:       shown,
		Skepticism:    assessment,
		Investigation: resolution,
		Preference:    belief.Preference(customer, v.ID),
		PastVisits:    belief.VisitCount(customer, v.ID),
	}
}

func (e *Engine) vendorByChoice(choice string) *Vendor {
	switch choice {
	case oracle.ChoiceA:
		return e.vendorA
	case oracle.ChoiceB:
		return e.vendorB
	default:
		return nil
	}
}
