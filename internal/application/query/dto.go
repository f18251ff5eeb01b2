// Package query contains read operations (CQRS - Queries).
package query

import (
	"time"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
)

// ProfileDTO - профиль в ответах API.
type ProfileDTO struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Bio           string                 `json:"bio,omitempty"`
	Timezone      string                 `json:"timezone,omitempty"`
	Skills        []profile.Skill        `json:"skills"`
	LearningGoals []profile.LearningGoal `json:"learning_goals"`
	JoinedAt      *time.Time             `json:"joined_at,omitempty"`
}

// NewProfileDTO собирает DTO без email: адрес не показывается другим участникам.
func NewProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:            p.ID.String(),
		Name:          p.Name,
		Bio:           p.Bio,
		Timezone:      p.Timezone,
		Skills:        append([]profile.Skill{}, p.Skills...),
		LearningGoals: append([]profile.LearningGoal{}, p.LearningGoals...),
	}
	if !p.JoinedAt.IsZero() {
		joined := p.JoinedAt
		dto.JoinedAt = &joined
	}
	return dto
}
