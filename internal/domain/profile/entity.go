// Package profile содержит доменную модель профиля участника SkillSwap:
// навыки, учебные цели и сам профиль как единицу подбора партнёров.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package profile

import (
	"strings"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID представляет уникальный идентификатор профиля.
type ID string

// IsValid проверяет, что идентификатор не пустой.
func (id ID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// String возвращает строковое представление ID.
func (id ID) String() string {
	return string(id)
}

// SkillID представляет ключ навыка в общем каталоге.
type SkillID string

// GoalID представляет идентификатор учебной цели.
type GoalID string

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Level определяет уровень владения навыком.
type Level string

const (
	// LevelBeginner - начальный уровень.
	LevelBeginner Level = "beginner"
	// LevelIntermediate - средний уровень.
	LevelIntermediate Level = "intermediate"
	// LevelAdvanced - продвинутый уровень.
	LevelAdvanced Level = "advanced"
	// LevelExpert - эксперт.
	LevelExpert Level = "expert"
)

// IsValid проверяет, что уровень корректен.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Skill - навык из общего каталога. Неизменяем после создания,
// профили ссылаются на навык по ID, а не копируют его.
type Skill struct {
	ID    SkillID `json:"id"`
	Name  string  `json:"name"`
	Level Level   `json:"level"`
}

// Validate проверяет корректность навыка.
func (s Skill) Validate() error {
	if strings.TrimSpace(string(s.ID)) == "" || strings.TrimSpace(s.Name) == "" {
		return shared.ErrInvalidSkill
	}
	if !s.Level.IsValid() {
		return shared.ErrInvalidSkillLevel
	}
	return nil
}

// LearningGoal - учебная цель участника.
type LearningGoal struct {
	ID          GoalID     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}

// Validate проверяет корректность цели.
func (g LearningGoal) Validate() error {
	if strings.TrimSpace(string(g.ID)) == "" || strings.TrimSpace(g.Name) == "" {
		return shared.ErrInvalidLearningGoal
	}
	return nil
}

// Profile представляет участника с точки зрения подбора:
// набор навыков и учебных целей.
type Profile struct {
	// ID - уникальный идентификатор профиля.
	ID ID `json:"id"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// Email - контакт (не участвует в подборе).
	Email string `json:"email,omitempty"`

	// Bio - краткое описание.
	Bio string `json:"bio,omitempty"`

	// Timezone - часовой пояс участника, например "Europe/London".
	Timezone string `json:"timezone,omitempty"`

	// Skills - навыки, уникальные по ID. Порядок не влияет на оценку.
	Skills []Skill `json:"skills"`

	// LearningGoals - учебные цели.
	LearningGoals []LearningGoal `json:"learning_goals"`

	// JoinedAt - когда профиль появился в системе.
	JoinedAt time.Time `json:"joined_at"`
}

// Validate проверяет профиль на границе каталога профилей.
// Некорректные профили отклоняются здесь, а не в алгоритме подбора.
func (p *Profile) Validate() error {
	if !p.ID.IsValid() {
		return shared.ErrInvalidProfileID
	}
	if strings.TrimSpace(p.Name) == "" {
		return shared.ErrInvalidProfileName
	}

	seen := make(map[SkillID]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return shared.ErrDuplicateSkill
		}
		seen[s.ID] = struct{}{}
	}

	for _, g := range p.LearningGoals {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasSkill проверяет, есть ли у профиля навык с указанным ID.
func (p *Profile) HasSkill(id SkillID) bool {
	for _, s := range p.Skills {
		if s.ID == id {
			return true
		}
	}
	return false
}

// HasAnySkill проверяет, есть ли у профиля хотя бы один навык из набора.
func (p *Profile) HasAnySkill(ids map[SkillID]struct{}) bool {
	for _, s := range p.Skills {
		if _, ok := ids[s.ID]; ok {
			return true
		}
	}
	return false
}

// SkillIDs возвращает множество ID навыков профиля.
func (p *Profile) SkillIDs() map[SkillID]struct{} {
	ids := make(map[SkillID]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		ids[s.ID] = struct{}{}
	}
	return ids
}

// Clone возвращает глубокую копию профиля.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills = append([]Skill(nil), p.Skills...)
	c.LearningGoals = make([]LearningGoal, len(p.LearningGoals))
	for i, g := range p.LearningGoals {
		c.LearningGoals[i] = g
		if g.TargetDate != nil {
			t := *g.TargetDate
			c.LearningGoals[i].TargetDate = &t
		}
	}
	return &c
}
