package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CANDIDATE RESULT
// ══════════════════════════════════════════════════════════════════════════════

// CandidateResult - оценённый кандидат. Создаётся заново на каждый запрос
// и никогда не сохраняется.
type CandidateResult struct {
	Profile   *profile.Profile `json:"profile"`
	Score     float64          `json:"score"`
	Rationale string           `json:"rationale"`
}

// Percent возвращает оценку в процентах, округлённую до целого.
func (c CandidateResult) Percent() int {
	return int(math.Round(c.Score * 100))
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// Rank оценивает пул кандидатов и сортирует их по убыванию оценки.
// Сам запрашивающий и профили из excluded в результат не попадают.
// При равной оценке выше стоит профиль с меньшим ID.
// Результат не обрезается: пагинация - забота вызывающего.
func (s Scorer) Rank(requester *profile.Profile, pool []*profile.Profile, excluded map[profile.ID]struct{}) []CandidateResult {
	results := make([]CandidateResult, 0, len(pool))
	for _, candidate := range pool {
		if candidate == nil || candidate.ID == requester.ID {
			continue
		}
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}

		score, why := s.Score(requester, candidate)
		results = append(results, CandidateResult{
			Profile:   candidate,
			Score:     score,
			Rationale: why,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Profile.ID < results[j].Profile.ID
	})

	return results
}

// Rank ранжирует пул правилом сравнения целей по умолчанию.
func Rank(requester *profile.Profile, pool []*profile.Profile, excluded map[profile.ID]struct{}) []CandidateResult {
	return Scorer{}.Rank(requester, pool, excluded)
}

// ══════════════════════════════════════════════════════════════════════════════
// FILTERING
// ══════════════════════════════════════════════════════════════════════════════

// FilterOptions - параметры фильтрации ранжированного списка.
// Все условия объединяются через AND.
type FilterOptions struct {
	// MinScorePercent - минимальная оценка в процентах, 0..100.
	MinScorePercent int

	// SkillIDs - у кандидата должен быть хотя бы один из этих навыков.
	// Пустой список не ограничивает.
	SkillIDs []profile.SkillID

	// Query - подстрока имени или названия навыка, без учёта регистра.
	// Пробелы значимы: " " оставляет только имена с пробелом.
	Query string
}

// Validate проверяет параметры фильтра.
func (o FilterOptions) Validate() error {
	if o.MinScorePercent < 0 || o.MinScorePercent > 100 {
		return shared.ErrInvalidMinScore
	}
	return nil
}

// Filter оставляет кандидатов, удовлетворяющих всем условиям, сохраняя
// порядок. Пустой результат допустим.
func Filter(results []CandidateResult, opts FilterOptions) ([]CandidateResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	skills := make(map[profile.SkillID]struct{}, len(opts.SkillIDs))
	for _, id := range opts.SkillIDs {
		skills[id] = struct{}{}
	}
	query := strings.ToLower(opts.Query)

	filtered := make([]CandidateResult, 0, len(results))
	for _, r := range results {
		if r.Percent() < opts.MinScorePercent {
			continue
		}
		if len(skills) > 0 && !r.Profile.HasAnySkill(skills) {
			continue
		}
		if query != "" && !matchesQuery(r.Profile, query) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// matchesQuery ожидает query в нижнем регистре.
func matchesQuery(p *profile.Profile, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	for _, skill := range p.Skills {
		if strings.Contains(strings.ToLower(skill.Name), query) {
			return true
		}
	}
	return false
}
