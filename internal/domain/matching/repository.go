package matching

import (
	"context"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// RelationshipRepository определяет операции хранения связей.
type RelationshipRepository interface {
	// Save создаёт связь. Если для пары уже есть связь, у неё меняются
	// только Score, Rationale и UpdatedAt, а переданная связь получает
	// сохранённое состояние (ID, участники, статус, даты).
	Save(ctx context.Context, r *Relationship) error

	// UpdateStatus сохраняет ответ на предложение: Status, RespondedAt и
	// UpdatedAt. Запись проходит, только пока сохранённая связь в pending.
	// Возвращает shared.ErrRelationshipFinal, если ответ уже дан, и
	// shared.ErrRelationshipNotFound, если связь удалена.
	UpdateStatus(ctx context.Context, r *Relationship) error

	// GetByID возвращает связь по ID.
	// Возвращает shared.ErrRelationshipNotFound, если связь не найдена.
	GetByID(ctx context.Context, id string) (*Relationship, error)

	// GetByPair возвращает связь для неупорядоченной пары профилей.
	// Возвращает shared.ErrRelationshipNotFound, если связи нет.
	GetByPair(ctx context.Context, a, b profile.ID) (*Relationship, error)

	// ListByProfile возвращает все связи профиля, новые первыми.
	ListByProfile(ctx context.Context, id profile.ID) ([]*Relationship, error)

	// Delete удаляет связь. После удаления профили снова видят друг друга
	// в пуле кандидатов.
	Delete(ctx context.Context, id string) error
}
