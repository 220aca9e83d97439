// Package reviewstore keeps one vendor's review population: the seed reviews
// the vendor opens with plus everything customers write during the run.
package reviewstore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
	"github.com/uzairabid1/customer-simulator/pkg/belief"
	"github.com/uzairabid1/customer-simulator/pkg/metrics"
)

// Store holds a single vendor's reviews. Seed and generated reviews are kept
// in separate partitions; All returns seed first, then generated, both in
// insertion order. The engine mutates the store only between customers, so
// no locking is needed.
type Store struct {
	vendorID  string
	seed      []simv1.Review
	generated []simv1.Review
}

func New(vendorID string) *Store {
	return &Store{vendorID: vendorID}
}

func (s *Store) VendorID() string { return s.vendorID }

// AddSeed appends to the seed partition.
func (s *Store) AddSeed(r simv1.Review) {
	s.seed = append(s.seed, r)
}

// Add appends a generated review.
func (s *Store) Add(r simv1.Review) {
	s.generated = append(s.generated, r)
}

// All returns every review, seed partition first. The returned slice is a
// copy; callers may reorder it freely.
func (s *Store) All() []simv1.Review {
	out := make([]simv1.Review, 0, len(s.seed)+len(s.generated))
	out = append(out, s.seed...)
	out = append(out, s.generated...)
	return out
}

func (s *Store) Count() int {
	return len(s.seed) + len(s.generated)
}

func (s *Store) GeneratedCount() int {
	return len(s.generated)
}

// OverallRating is the plain mean over every review, seed and generated
// alike. A vendor with no reviews rates 0.
func (s *Store) OverallRating() float64 {
	n := s.Count()
	if n == 0 {
		return 0.0
	}
	sum := 0.0
	for _, r := range s.seed {
		sum += r.Stars
	}
	for _, r := range s.generated {
		sum += r.Stars
	}
	return sum / float64(n)
}

// Recent returns up to n reviews ordered newest first.
func (s *Store) Recent(n int) []simv1.Review {
	all := s.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ParsedDate.After(all[j].ParsedDate)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// ByRating returns up to n reviews with exactly the given star rating,
// newest first.
func (s *Store) ByRating(stars float64, n int) []simv1.Review {
	var matched []simv1.Review
	for _, r := range s.All() {
		if r.Stars == stars {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ParsedDate.After(matched[j].ParsedDate)
	})
	if len(matched) > n {
		matched = matched[:n]
	}
	return matched
}

// AdditionalForInvestigation assembles the sample a skeptical customer digs
// up: a few recent reviews plus any 1 and 2 star reviews, deduplicated by
// ID and capped at limit.
func (s *Store) AdditionalForInvestigation(limit int) []simv1.Review {
	var pool []simv1.Review
	pool = append(pool, s.Recent(3)...)
	for _, stars := range []float64{1.0, 2.0} {
		pool = append(pool, s.ByRating(stars, 2)...)
	}

	seen := map[string]bool{}
	out := make([]simv1.Review, 0, limit)
	for _, r := range pool {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

// LoadSeed reads seed reviews from a JSON file (an array of review objects)
// into the seed partition. The reviews keep their file dates; unparseable
// dates are tolerated.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading seed reviews for vendor %s", s.vendorID)
	}
	var reviews []simv1.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return errors.Wrapf(err, "parsing seed reviews for vendor %s", s.vendorID)
	}
	for _, r := range reviews {
		r.VendorID = s.vendorID
		if r.OrderedItem == "" {
			r.OrderedItem = "(initial)"
		}
		r.ParseDate()
		s.AddSeed(r)
	}
	log.WithField("vendor", s.vendorID).WithField("reviews", len(reviews)).Info("loaded seed reviews")
	return nil
}

// SynthesizeSeed backfills the seed partition with n reviews drawn around
// the vendor's true quality, backdated so they spread across the 90 days
// before start. Used when no seed file is available.
func (s *Store) SynthesizeSeed(n int, trueQuality float64, start time.Time, draw func() float64) {
	metrics.RecordFallback(metrics.FallbackSeedSynthesis)
	for i := 0; i < n; i++ {
		q := draw()
		stars, _ := belief.StarsForQuality(q)
		age := time.Duration(1+(i*89)/max(n-1, 1)) * 24 * time.Hour
		date := start.Add(-age)
		r := simv1.NewReview(
			uuid.New().String(),
			fmt.Sprintf("seed_user_%d", i),
			s.vendorID,
			stars,
			syntheticText(stars),
			date,
			"(initial)",
		)
		s.AddSeed(r)
	}
	log.WithField("vendor", s.vendorID).WithField("reviews", n).Warning("seed file unavailable, synthesized seed reviews from true quality")
}

func syntheticText(stars float64) string {
	switch {
	case stars >= 4:
		return "Great experience, would come back."
	case stars >= 3:
		return "Decent overall, nothing memorable."
	default:
		return "Disappointing visit."
	}
}
