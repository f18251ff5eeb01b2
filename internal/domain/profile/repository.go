package profile

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Контракт каталога профилей. Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции каталога профилей.
type Repository interface {
	// GetProfile возвращает профиль по ID.
	// Возвращает shared.ErrProfileNotFound, если профиль не найден.
	GetProfile(ctx context.Context, id ID) (*Profile, error)

	// ListProfiles возвращает все профили, упорядоченные по ID.
	ListProfiles(ctx context.Context) ([]*Profile, error)

	// Save создаёт или полностью заменяет профиль.
	// Некорректный профиль отклоняется с ошибкой вида shared.ErrInvalidInput.
	Save(ctx context.Context, p *Profile) error

	// Delete удаляет профиль.
	// Возвращает shared.ErrProfileNotFound, если профиль не найден.
	Delete(ctx context.Context, id ID) error
}
