package query

import (
	"context"
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND PARTNERS QUERY
// Подбирает партнёров по обучению: ранжирует весь каталог относительно
// запрашивающего и применяет фильтры поиска.
// ══════════════════════════════════════════════════════════════════════════════

// MaxLimit - верхняя граница размера выдачи.
const MaxLimit = 100

// FindPartnersQuery содержит параметры поиска партнёров.
type FindPartnersQuery struct {
	// ProfileID - кто ищет.
	ProfileID string

	// MinScorePercent - минимальная совместимость, 0..100.
	MinScorePercent int

	// SkillIDs - нужен хотя бы один из навыков (пусто = любые).
	SkillIDs []string

	// Query - подстрока имени или названия навыка.
	Query string

	// Limit - сколько кандидатов вернуть после фильтрации (0 = все).
	Limit int
}

// Validate проверяет корректность параметров.
func (q *FindPartnersQuery) Validate() error {
	if !profile.ID(q.ProfileID).IsValid() {
		return shared.ErrInvalidProfileID
	}
	if q.Limit < 0 {
		return shared.NewDomainError("query", "FindPartners", shared.ErrInvalidInput, "limit cannot be negative")
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q.filter().Validate()
}

func (q *FindPartnersQuery) filter() matching.FilterOptions {
	opts := matching.FilterOptions{MinScorePercent: q.MinScorePercent, Query: q.Query}
	for _, id := range q.SkillIDs {
		opts.SkillIDs = append(opts.SkillIDs, profile.SkillID(id))
	}
	return opts
}

// PartnerDTO - кандидат в партнёры.
type PartnerDTO struct {
	Profile ProfileDTO `json:"profile"`

	// Score - совместимость 0.5..0.95.
	Score float64 `json:"score"`

	// ScorePercent - то же в процентах, как показывается пользователю.
	ScorePercent int    `json:"score_percent"`
	Rationale    string `json:"rationale"`

	// CommonSkills - общие навыки в порядке кандидата.
	CommonSkills []profile.Skill `json:"common_skills"`
}

// FindPartnersResult - результат поиска.
type FindPartnersResult struct {
	Candidates []PartnerDTO `json:"candidates"`

	// TotalCandidates - размер пула до фильтрации. Позволяет отличить
	// "никого нет" от "никто не подошёл под фильтр".
	TotalCandidates int `json:"total_candidates"`

	// TotalMatching - сколько прошло фильтр до применения Limit.
	TotalMatching int `json:"total_matching"`

	GeneratedAt time.Time `json:"generated_at"`
}

// FindPartnersHandler обрабатывает поиск партнёров.
type FindPartnersHandler struct {
	profiles      profile.Repository
	relationships matching.RelationshipRepository
	scorer        matching.Scorer
}

// NewFindPartnersHandler создаёт новый обработчик.
func NewFindPartnersHandler(
	profiles profile.Repository,
	relationships matching.RelationshipRepository,
	scorer matching.Scorer,
) *FindPartnersHandler {
	return &FindPartnersHandler{
		profiles:      profiles,
		relationships: relationships,
		scorer:        scorer,
	}
}

// Handle выполняет поиск.
func (h *FindPartnersHandler) Handle(ctx context.Context, q FindPartnersQuery) (*FindPartnersResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	requester, err := h.profiles.GetProfile(ctx, profile.ID(q.ProfileID))
	if err != nil {
		return nil, err
	}

	pool, err := h.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	// Уже связанные профили исключаются, в каком бы статусе ни была связь
	related, err := h.relationships.ListByProfile(ctx, requester.ID)
	if err != nil {
		return nil, err
	}

	ranked := h.scorer.Rank(requester, pool, matching.ExcludedSet(requester.ID, related))
	filtered, err := matching.Filter(ranked, q.filter())
	if err != nil {
		return nil, err
	}

	result := &FindPartnersResult{
		TotalCandidates: len(ranked),
		TotalMatching:   len(filtered),
		GeneratedAt:     time.Now().UTC(),
	}

	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}

	result.Candidates = make([]PartnerDTO, 0, len(filtered))
	for _, c := range filtered {
		result.Candidates = append(result.Candidates, PartnerDTO{
			Profile:      NewProfileDTO(c.Profile),
			Score:        c.Score,
			ScorePercent: c.Percent(),
			Rationale:    c.Rationale,
			CommonSkills: matching.CommonSkills(requester, c.Profile),
		})
	}
	return result, nil
}
