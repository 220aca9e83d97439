package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
	"github.com/uzairabid1/customer-simulator/pkg/belief"
	"github.com/uzairabid1/customer-simulator/pkg/exposure"
	"github.com/uzairabid1/customer-simulator/pkg/metrics"
	"github.com/uzairabid1/customer-simulator/pkg/oracle"
	"github.com/uzairabid1/customer-simulator/pkg/skepticism"
)

// RunPersona runs the qualitative experiment: a fixed roster of generated
// personas decides daily between the two vendors, accumulating memory and
// feeding reviews back into the stores.
func (e *Engine) RunPersona(ctx context.Context) (*simv1.RunResults, error) {
	customers, err := e.generateRoster(ctx)
	if err != nil {
		return nil, err
	}

	var dailyA, dailyB []simv1.DailyStats
	for day := 1; day <= e.cfg.Days; day++ {
		statsA := simv1.DailyStats{Day: day}
		statsB := simv1.DailyStats{Day: day}

		order := e.rng.Perm(len(customers))
		for _, idx := range order {
			customer := customers[idx]
			e.runCustomerDay(ctx, customer, day, &statsA, &statsB)
		}

		dailyA = append(dailyA, statsA)
		dailyB = append(dailyB, statsB)
		log.WithField("day", day).
			WithField("visits_a", statsA.Visits).
			WithField("visits_b", statsB.Visits).
			Info("day complete")
	}

	results := e.buildResults("persona", dailyA, dailyB, customers)
	return results, nil
}

func (e *Engine) generateRoster(ctx context.Context) ([]*simv1.Customer, error) {
	customers := make([]*simv1.Customer, 0, e.cfg.CustomersPerDay)
	for i := 0; i < e.cfg.CustomersPerDay; i++ {
		profile, err := e.generateCustomer(ctx)
		if err != nil {
			return nil, err
		}
		attrs := profile.Attributes()
		// A configured criticality pins the whole cohort; "mixed" keeps each
		// persona's own draw.
		if e.cfg.Criticality != "" && e.cfg.Criticality != "mixed" {
			attrs["criticality"] = e.cfg.Criticality
		}
		customers = append(customers, &simv1.Customer{
			ID:         fmt.Sprintf("cust_%s", uuid.New().String()[:8]),
			Name:       profile.Name,
			Attributes: attrs,
			Alpha:      e.cfg.PriorAlpha,
			Beta:       e.cfg.PriorBeta,
		})
	}
	log.WithField("customers", len(customers)).Info("generated customer roster")
	return customers, nil
}

// runCustomerDay takes one customer through the full decision state machine.
// A panic while processing skips that customer's day, never the run.
func (e *Engine) runCustomerDay(ctx context.Context, customer *simv1.Customer, day int, statsA, statsB *simv1.DailyStats) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("customer", customer.ID).WithField("day", day).
				WithField("panic", r).Error("customer processing failed, skipping their day")
			metrics.RecordFallback(metrics.FallbackCustomerRecovered)
		}
	}()

	now := e.dayTime(day)

	ctxA := e.evaluateVendor(customer, e.vendorA, now)
	ctxB := e.evaluateVendor(customer, e.vendorB, now)

	decision := e.decide(ctx, oracle.DecisionRequest{Customer: customer, A: ctxA, B: ctxB})
	chosen := e.vendorByChoice(decision.Choice)
	if chosen == nil {
		log.WithField("customer", customer.ID).WithField("day", day).
			WithField("reason", decision.Reason).Info("customer declined both vendors")
		return
	}

	item, err := e.chooseMenuItem(ctx, customer, chosen)
	if err != nil {
		log.WithError(err).WithField("customer", customer.ID).Error("visit abandoned")
		return
	}
	price := chosen.Menu[item]

	quality := belief.QualityDraw(chosen.TrueQuality, e.rng)
	stars, satisfied := belief.StarsForQuality(quality)

	exp := simv1.Experience{
		VendorID:          chosen.ID,
		Date:              now.Format(simv1.DateFormat),
		OrderedItem:       item,
		StarsGiven:        stars,
		PricePaid:         price,
		WasSatisfied:      satisfied,
		ExperienceQuality: quality,
	}

	chosen.RecordVisit(day, customer.ID, price)
	stats := statsA
	if chosen.ID == "B" {
		stats = statsB
	}
	stats.Visits++
	stats.Purchases++
	stats.Revenue += price

	if e.rng.Float64() < e.cfg.ReviewLeaveProbability {
		text := e.reviewText(ctx, oracle.ReviewRequest{
			Customer:    customer,
			VendorID:    chosen.ID,
			VendorName:  chosen.Name,
			OrderedItem: item,
			Stars:       stars,
			Quality:     quality,
			Satisfied:   satisfied,
		})
		exp.ReviewText = text
		chosen.Store.Add(simv1.NewReview(uuid.New().String(), customer.ID, chosen.ID, stars, text, now, item))
	}

	customer.AddExperience(exp)
}

// evaluateVendor walks one vendor through exposure, skepticism, and the
// optional investigation, producing the context the decision oracle sees.
func (e *Engine) evaluateVendor(customer *simv1.Customer, v *Vendor, now time.Time) oracle.VendorContext {
	shown := exposure.Select(v.Store.All(), v.Policy, e.cfg.AttentionLimit, now, e.rng)
	assessment := e.assessor.Assess(customer, shown, v.Store.OverallRating(), now, e.rng)

	vctx := e.vendorContext(v, shown, &assessment, nil, customer)
	if assessment.WillInvestigate {
		additional := v.Store.AdditionalForInvestigation(e.cfg.InvestigationLimit)
		resolution := skepticism.Resolve(customer, assessment, additional, e.rng)
		vctx.Additional = additional
		vctx.Investigation = &resolution
	}
	return vctx
}
