package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func samplePool() (*profile.Profile, []*profile.Profile) {
	requester := newProfile("1", "Alex Johnson", []profile.Skill{js, react}, []profile.LearningGoal{goal("g1", "Learn Machine Learning Basics")})
	pool := []*profile.Profile{
		requester,
		newProfile("2", "Sarah Chen", []profile.Skill{python, sql}, []profile.LearningGoal{goal("g2", "Machine Learning")}),
		newProfile("3", "Miguel Rodriguez", []profile.Skill{js, react, tailwind}, nil),
		newProfile("4", "Priya Patel", []profile.Skill{golang}, nil),
		newProfile("5", "James Wilson", []profile.Skill{js}, nil),
		newProfile("6", "Emma Davis", nil, nil),
	}
	return requester, pool
}

func ids(results []CandidateResult) []profile.ID {
	out := make([]profile.ID, len(results))
	for i, r := range results {
		out[i] = r.Profile.ID
	}
	return out
}

func TestRank_ExcludesRelated(t *testing.T) {
	requester, pool := samplePool()
	candidates := pool[1:]
	excluded := map[profile.ID]struct{}{"3": {}, "5": {}}

	results := Rank(requester, candidates, excluded)

	assert.Len(t, results, 3)
	assert.NotContains(t, ids(results), profile.ID("3"))
	assert.NotContains(t, ids(results), profile.ID("5"))
}

func TestRank_NeverReturnsRequester(t *testing.T) {
	requester, pool := samplePool()

	results := Rank(requester, pool, nil)

	assert.Len(t, results, len(pool)-1)
	assert.NotContains(t, ids(results), requester.ID)
}

func TestRank_SortedDescendingWithIDTieBreak(t *testing.T) {
	requester, pool := samplePool()

	results := Rank(requester, pool, nil)

	require.Len(t, results, 5)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	// 3: 0.7, 2: 0.65, 5: 0.6, then 4 and 6 tie at 0.5.
	assert.Equal(t, []profile.ID{"3", "2", "5", "4", "6"}, ids(results))
}

func TestRank_TieBreakIgnoresPoolOrder(t *testing.T) {
	requester := newProfile("1", "Alex", nil, nil)
	pool := []*profile.Profile{
		newProfile("c", "C", nil, nil),
		newProfile("a", "A", nil, nil),
		newProfile("b", "B", nil, nil),
	}

	results := Rank(requester, pool, nil)

	assert.Equal(t, []profile.ID{"a", "b", "c"}, ids(results))
}

func TestRank_EmptyPool(t *testing.T) {
	requester, _ := samplePool()

	results := Rank(requester, nil, nil)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFilter_MinScore(t *testing.T) {
	requester, pool := samplePool()
	ranked := Rank(requester, pool, nil)

	filtered, err := Filter(ranked, FilterOptions{MinScorePercent: 65})

	require.NoError(t, err)
	assert.Equal(t, []profile.ID{"3", "2"}, ids(filtered))
}

func TestFilter_MinScoreUsesRoundedPercent(t *testing.T) {
	results := []CandidateResult{{Profile: newProfile("2", "Sam", nil, nil), Score: 0.696}}

	filtered, err := Filter(results, FilterOptions{MinScorePercent: 70})

	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestFilter_SkillSubset(t *testing.T) {
	requester, pool := samplePool()
	ranked := Rank(requester, pool, nil)

	filtered, err := Filter(ranked, FilterOptions{SkillIDs: []profile.SkillID{"go", "sql"}})

	require.NoError(t, err)
	assert.Equal(t, []profile.ID{"2", "4"}, ids(filtered))
}

func TestFilter_QueryMatchesNameOrSkill(t *testing.T) {
	requester, pool := samplePool()
	ranked := Rank(requester, pool, nil)

	byName, err := Filter(ranked, FilterOptions{Query: "PATEL"})
	require.NoError(t, err)
	assert.Equal(t, []profile.ID{"4"}, ids(byName))

	bySkill, err := Filter(ranked, FilterOptions{Query: "tailwind"})
	require.NoError(t, err)
	assert.Equal(t, []profile.ID{"3"}, ids(bySkill))
}

func TestFilter_QueryKeepsWhitespace(t *testing.T) {
	requester, pool := samplePool()
	ranked := Rank(requester, pool, nil)

	acrossWords, err := Filter(ranked, FilterOptions{Query: "S W"})
	require.NoError(t, err)
	assert.Equal(t, []profile.ID{"5"}, ids(acrossWords))

	blank, err := Filter(ranked, FilterOptions{Query: "  "})
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestFilter_AllConditionsAnded(t *testing.T) {
	requester, pool := samplePool()
	ranked := Rank(requester, pool, nil)

	filtered, err := Filter(ranked, FilterOptions{
		MinScorePercent: 60,
		SkillIDs:        []profile.SkillID{"js"},
		Query:           "james",
	})

	require.NoError(t, err)
	assert.Equal(t, []profile.ID{"5"}, ids(filtered))
}

func TestFilter_EmptyResultIsValid(t *testing.T) {
	requester, pool := samplePool()
	ranked := Rank(requester, pool, nil)

	filtered, err := Filter(ranked, FilterOptions{MinScorePercent: 100})

	require.NoError(t, err)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestFilter_RejectsOutOfRangeThreshold(t *testing.T) {
	for _, threshold := range []int{-1, 101} {
		_, err := Filter(nil, FilterOptions{MinScorePercent: threshold})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	}
}

func TestCandidateResult_Percent(t *testing.T) {
	assert.Equal(t, 70, CandidateResult{Score: 0.7}.Percent())
	assert.Equal(t, 95, CandidateResult{Score: 0.95}.Percent())
}
