package query

import (
	"context"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// GetProfileQuery - запрос профиля по ID.
type GetProfileQuery struct {
	ProfileID string
}

// GetProfileHandler отдаёт профиль из каталога.
type GetProfileHandler struct {
	profiles profile.Repository
}

// NewGetProfileHandler создаёт новый обработчик.
func NewGetProfileHandler(profiles profile.Repository) *GetProfileHandler {
	return &GetProfileHandler{profiles: profiles}
}

// Handle возвращает профиль.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*ProfileDTO, error) {
	id := profile.ID(q.ProfileID)
	if !id.IsValid() {
		return nil, shared.ErrInvalidProfileID
	}

	p, err := h.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProfileDTO(p)
	return &dto, nil
}
