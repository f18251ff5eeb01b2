// Package matching содержит алгоритм подбора партнёров по обучению:
// оценку совместимости двух профилей, ранжирование пула кандидатов,
// фильтрацию результатов и жизненный цикл связи (Relationship).
//
// Оценка и ранжирование - чистые функции без состояния и ввода-вывода,
// их можно безопасно вызывать конкурентно.
package matching

import (
	"strings"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// Оценка считается в целых процентных пунктах и переводится в долю один раз,
// поэтому 0.5 + 0.1*2 даёт ровно 0.7.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// BasePoints - базовая оценка любой пары.
	BasePoints = 50

	// SkillPoints - вклад одного общего навыка.
	SkillPoints = 10

	// GoalPoints - вклад одной похожей учебной цели.
	GoalPoints = 15

	// MaxPoints - потолок оценки. Автоматический подбор никогда не
	// сообщает о совместимости выше 95%.
	MaxPoints = 95
)

const (
	// BaseScore - минимальная оценка пары различных профилей.
	BaseScore = float64(BasePoints) / 100

	// MaxScore - максимальная оценка.
	MaxScore = float64(MaxPoints) / 100
)

// Тексты обоснования оценки.
const (
	rationaleSkillsPrefix = "You both have skills in "
	rationaleGoals        = "You have similar learning goals"
	rationaleDefault      = "Based on your shared interests"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOAL MATCHING
// ══════════════════════════════════════════════════════════════════════════════

// GoalMatcher решает, похожи ли две учебные цели по названию.
// Реализация обязана быть симметричной и детерминированной.
type GoalMatcher func(a, b string) bool

// SubstringGoalMatcher - правило по умолчанию: одно название содержит другое
// без учёта регистра.
func SubstringGoalMatcher(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORER
// ══════════════════════════════════════════════════════════════════════════════

// Scorer вычисляет совместимость двух профилей.
// Нулевое значение готово к использованию и применяет SubstringGoalMatcher.
type Scorer struct {
	matchGoals GoalMatcher
}

// NewScorer создаёт Scorer с заданным правилом сравнения целей.
// nil означает правило по умолчанию.
func NewScorer(matcher GoalMatcher) Scorer {
	return Scorer{matchGoals: matcher}
}

func (s Scorer) matcher() GoalMatcher {
	if s.matchGoals == nil {
		return SubstringGoalMatcher
	}
	return s.matchGoals
}

// CommonSkills возвращает навыки кандидата, которые есть и у запрашивающего
// (сравнение по ID). Порядок соответствует порядку навыков кандидата.
func CommonSkills(requester, candidate *profile.Profile) []profile.Skill {
	ids := requester.SkillIDs()
	common := make([]profile.Skill, 0)
	for _, skill := range candidate.Skills {
		if _, ok := ids[skill.ID]; ok {
			common = append(common, skill)
		}
	}
	return common
}

// CommonGoals возвращает цели кандидата, похожие хотя бы на одну цель
// запрашивающего.
func (s Scorer) CommonGoals(requester, candidate *profile.Profile) []profile.LearningGoal {
	match := s.matcher()
	common := make([]profile.LearningGoal, 0)
	for _, goal := range candidate.LearningGoals {
		for _, own := range requester.LearningGoals {
			if match(goal.Name, own.Name) {
				common = append(common, goal)
				break
			}
		}
	}
	return common
}

// Score оценивает кандидата относительно запрашивающего.
// Результат всегда в диапазоне [BaseScore, MaxScore].
//
// Для профилей с одинаковым ID возвращает 0 и пустое обоснование:
// ранжирование отсекает такие пары заранее.
func (s Scorer) Score(requester, candidate *profile.Profile) (float64, string) {
	if requester.ID == candidate.ID {
		return 0, ""
	}

	skills := CommonSkills(requester, candidate)
	goals := s.CommonGoals(requester, candidate)

	points := BasePoints + SkillPoints*len(skills) + GoalPoints*len(goals)
	if points > MaxPoints {
		points = MaxPoints
	}

	return float64(points) / 100, rationale(skills, goals)
}

func rationale(skills []profile.Skill, goals []profile.LearningGoal) string {
	switch {
	case len(skills) > 0:
		names := make([]string, len(skills))
		for i, skill := range skills {
			names[i] = skill.Name
		}
		return rationaleSkillsPrefix + strings.Join(names, ", ")
	case len(goals) > 0:
		return rationaleGoals
	default:
		return rationaleDefault
	}
}

// Score оценивает пару правилом сравнения целей по умолчанию.
func Score(requester, candidate *profile.Profile) (float64, string) {
	return Scorer{}.Score(requester, candidate)
}
