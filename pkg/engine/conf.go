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
)

// confEvaluation is one customer's read of one vendor.
type confEvaluation struct {
	item      string
	price     float64
	mu        float64
	valuation float64
	surplus   float64
	purchase  bool
}

// RunCoNF runs the quantitative "cost of newest-first" experiment: fresh
// theta-drawn customers each day, Beta-Bernoulli belief over the exposed
// sample, surplus-based vendor choice, purchase iff valuation beats price.
func (e *Engine) RunCoNF(ctx context.Context) (*simv1.RunResults, error) {
	var dailyA, dailyB []simv1.DailyStats
	var customers []*simv1.Customer

	counter := 0
	for day := 1; day <= e.cfg.Days; day++ {
		statsA := simv1.DailyStats{Day: day}
		statsB := simv1.DailyStats{Day: day}

		for i := 0; i < e.cfg.CustomersPerDay; i++ {
			counter++
			customer := e.newCoNFCustomer(counter)
			customers = append(customers, customer)
			e.runCoNFCustomer(ctx, customer, day, &statsA, &statsB)
		}

		dailyA = append(dailyA, statsA)
		dailyB = append(dailyB, statsB)
		log.WithField("day", day).
			WithField("purchases_a", statsA.Purchases).
			WithField("purchases_b", statsB.Purchases).
			Info("day complete")
	}

	results := e.buildResults("cost_of_newest_first", dailyA, dailyB, customers)
	if results.VendorB.Revenue > 0 {
		results.CoNFRatio = results.VendorA.Revenue / results.VendorB.Revenue
	}
	return results, nil
}

func (e *Engine) newCoNFCustomer(n int) *simv1.Customer {
	theta := e.rng.NormFloat64()*e.cfg.ThetaStd + e.cfg.ThetaMean
	return &simv1.Customer{
		ID:    fmt.Sprintf("conf_cust_%04d", n),
		Name:  fmt.Sprintf("Customer %d", n),
		Theta: &theta,
		Alpha: e.cfg.PriorAlpha,
		Beta:  e.cfg.PriorBeta,
	}
}

func (e *Engine) runCoNFCustomer(ctx context.Context, customer *simv1.Customer, day int, statsA, statsB *simv1.DailyStats) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("customer", customer.ID).WithField("day", day).
				WithField("panic", r).Error("customer processing failed, skipping their day")
			metrics.RecordFallback(metrics.FallbackCustomerRecovered)
		}
	}()

	now := e.dayTime(day)

	evalA := e.evaluateCoNF(customer, e.vendorA, now)
	evalB := e.evaluateCoNF(customer, e.vendorB, now)

	chosen, eval, stats := e.vendorA, evalA, statsA
	if evalB.surplus > evalA.surplus {
		chosen, eval, stats = e.vendorB, evalB, statsB
	}
	stats.Visits++
	chosen.RecordVisit(day, customer.ID, 0)

	if !eval.purchase {
		log.WithField("customer", customer.ID).WithField("vendor", chosen.ID).
			WithField("posterior_mean", eval.mu).
			WithField("valuation", eval.valuation).WithField("price", eval.price).
			Debug("no purchase, valuation below price")
		return
	}

	chosen.Revenue += eval.price
	stats.Purchases++
	stats.Revenue += eval.price

	// Experience outcome X ~ Bernoulli(true quality), reviewed endogenously.
	positive := e.rng.Float64() < chosen.TrueQuality
	stars := e.confStars(positive)
	text := e.reviewText(ctx, oracle.ReviewRequest{
		Customer:    customer,
		VendorID:    chosen.ID,
		VendorName:  chosen.Name,
		OrderedItem: eval.item,
		Stars:       stars,
		Satisfied:   positive,
	})
	chosen.Store.Add(simv1.NewReview(uuid.New().String(), customer.ID, chosen.ID, stars, text, now, eval.item))

	customer.AddExperience(simv1.Experience{
		VendorID:     chosen.ID,
		Date:         now.Format(simv1.DateFormat),
		OrderedItem:  eval.item,
		StarsGiven:   stars,
		PricePaid:    eval.price,
		WasSatisfied: positive,
	})
}

// evaluateCoNF reads the vendor's exposed reviews, updates the customer's
// belief, and applies the purchase rule for a randomly eyed menu item.
func (e *Engine) evaluateCoNF(customer *simv1.Customer, v *Vendor, now time.Time) confEvaluation {
	items := sortedItems(v.Menu)
	item := items[e.rng.Intn(len(items))]
	price := v.Menu[item]

	shown := exposure.Select(v.Store.All(), v.Policy, e.cfg.AttentionLimit, now, e.rng)
	sample := shown
	if e.confSkeptical(customer, shown) {
		sample = append(append([]simv1.Review{}, shown...), v.Store.AdditionalForInvestigation(e.cfg.InvestigationLimit)...)
	}

	a, b := belief.Posterior(customer.Alpha, customer.Beta, sample)
	mu := belief.PosteriorMean(a, b)
	valuation := belief.Valuation(customer.Theta, mu)

	return confEvaluation{
		item:      item,
		price:     price,
		mu:        mu,
		valuation: valuation,
		surplus:   belief.Surplus(valuation, price),
		purchase:  belief.WillPurchase(valuation, price),
	}
}

// confSkeptical is the quantitative mode's cheap doubt check: an empty or
// perfectly one-sided sample is suspect, as is a customer whose taste sits
// far from the population mean.
func (e *Engine) confSkeptical(customer *simv1.Customer, shown []simv1.Review) bool {
	if len(shown) == 0 {
		return true
	}
	positive := 0
	for _, r := range shown {
		if r.Stars >= 4.0 {
			positive++
		}
	}
	uniform := positive == 0 || positive == len(shown)

	extreme := false
	if customer.Theta != nil {
		extreme = abs(*customer.Theta-e.cfg.ThetaMean) > e.cfg.ThetaStd
	}
	return uniform || extreme
}

func (e *Engine) confStars(positive bool) float64 {
	if positive {
		return []float64{4.0, 5.0}[e.rng.Intn(2)]
	}
	return []float64{1.0, 2.0, 3.0}[e.rng.Intn(3)]
}
