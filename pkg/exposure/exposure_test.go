package exposure

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simv1 "github.com/uzairabid1/customer-simulator/pkg/apis/simulation/v1"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func review(id string, stars float64, age time.Duration) simv1.Review {
	return simv1.NewReview(id, "user-"+id, "A", stars, "text", testNow.Add(-age), "")
}

func day(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name     string
		expected Policy
	}{
		{"highest_rating", PolicyHighestRating},
		{"newest_first", PolicyNewestFirst},
		{"latest", PolicyNewestFirst},
		{"random", PolicyRandom},
		{"recency_boost", PolicyRecencyBoost},
		{"recent_quality_boost", PolicyRecencyBoost},
		{"", PolicyNewestFirst},
		{"bogus", PolicyNewestFirst},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, ParsePolicy(tc.name), tc.name)
	}
}

func TestSelectBoundedForAllPolicies(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var all []simv1.Review
	for i := 0; i < 23; i++ {
		all = append(all, review(fmt.Sprintf("r%d", i), float64(1+i%5), day(i*10)))
	}

	for _, policy := range []Policy{PolicyHighestRating, PolicyNewestFirst, PolicyRandom, PolicyRecencyBoost} {
		for _, limit := range []int{1, 5, 23, 100} {
			got := Select(all, policy, limit, testNow, rng)
			expected := limit
			if len(all) < limit {
				expected = len(all)
			}
			assert.Len(t, got, expected, "policy=%s limit=%d", policy, limit)
		}
		assert.Empty(t, Select(nil, policy, 5, testNow, rng), "empty input, policy=%s", policy)
	}
}

func TestSelectHighestRating(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	all := []simv1.Review{
		review("a", 3, day(1)),
		review("b", 5, day(2)),
		review("c", 1, day(3)),
		review("d", 5, day(4)),
		review("e", 4, day(5)),
	}
	got := Select(all, PolicyHighestRating, 3, testNow, rng)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Stars, got[i].Stars)
	}
	// Ties keep input order: b before d.
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
	// Domination: nothing unreturned outranks anything returned.
	assert.Equal(t, "e", got[2].ID)
}

func TestSelectNewestFirst(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	all := []simv1.Review{
		review("old", 5, day(300)),
		review("new", 1, day(1)),
		review("mid", 3, day(30)),
	}
	got := Select(all, PolicyNewestFirst, 2, testNow, rng)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}

func TestSelectNewestFirstUnparseableDatesSink(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	broken := simv1.Review{ID: "broken", Stars: 5, Date: "not-a-date"}
	broken.ParseDate()
	require.False(t, broken.ParsedOK)

	all := []simv1.Review{broken, review("ok", 2, day(500))}
	got := Select(all, PolicyNewestFirst, 2, testNow, rng)
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].ID)
	assert.Equal(t, "broken", got[1].ID)
}

func TestSelectRandomUniformNoDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var all []simv1.Review
	for i := 0; i < 20; i++ {
		all = append(all, review(fmt.Sprintf("r%d", i), 3, day(i)))
	}

	counts := map[string]int{}
	const trials = 5000
	for i := 0; i < trials; i++ {
		got := Select(all, PolicyRandom, 4, testNow, rng)
		require.Len(t, got, 4)
		seen := map[string]bool{}
		for _, r := range got {
			require.False(t, seen[r.ID], "duplicate %s in one selection", r.ID)
			seen[r.ID] = true
			counts[r.ID]++
		}
	}

	// Each review should be drawn trials*4/20 = 1000 times, within tolerance.
	for id, n := range counts {
		assert.InDelta(t, 1000, n, 150, "selection frequency for %s", id)
	}
}

func TestBoostedRating(t *testing.T) {
	tests := []struct {
		name     string
		stars    float64
		age      time.Duration
		expected float64
	}{
		{"recent gets half star", 3.0, day(5), 3.5},
		{"semi-recent gets quarter star", 3.0, day(60), 3.25},
		{"old gets nothing", 3.0, day(120), 3.0},
		{"capped at five", 4.8, day(5), 5.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, BoostedRating(review("r", tc.stars, tc.age), testNow), 0.0001)
		})
	}

	broken := simv1.Review{ID: "broken", Stars: 4.0, Date: "garbage"}
	broken.ParseDate()
	assert.Equal(t, 4.0, BoostedRating(broken, testNow), "unparseable date gets no boost")
}

func TestSelectRecencyBoostOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	all := []simv1.Review{
		review("stale", 4.0, day(200)),
		review("fresh", 4.0, day(10)),
		review("top", 5.0, day(400)),
	}
	got := Select(all, PolicyRecencyBoost, 3, testNow, rng)
	require.Len(t, got, 3)

	// Same raw stars: the <30d review must rank at or above the >90d one.
	posFresh, posStale := -1, -1
	for i, r := range got {
		if r.ID == "fresh" {
			posFresh = i
		}
		if r.ID == "stale" {
			posStale = i
		}
	}
	assert.Less(t, posFresh, posStale)

	// 5.0 stays primary even unboosted vs 4.0+0.5.
	assert.Equal(t, "top", got[0].ID)
}

func TestSelectRecencyBoostTieBreaksOnDate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Both boost to 5.0; newer wins the tie.
	all := []simv1.Review{
		review("older", 4.8, day(20)),
		review("newer", 4.6, day(2)),
	}
	require.Equal(t, 5.0, BoostedRating(all[0], testNow))
	require.Equal(t, 5.0, BoostedRating(all[1], testNow))

	got := Select(all, PolicyRecencyBoost, 2, testNow, rng)
	assert.Equal(t, "newer", got[0].ID)
}
