package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RELATIONSHIP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RelationshipRepository implements matching.RelationshipRepository for PostgreSQL.
type RelationshipRepository struct {
	conn *Connection
}

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(conn *Connection) *RelationshipRepository {
	return &RelationshipRepository{conn: conn}
}

var _ matching.RelationshipRepository = (*RelationshipRepository)(nil)

const relationshipColumns = `id, initiator_id, receiver_id, score, rationale, status, created_at, updated_at, responded_at`

// Save inserts the relationship. On a pair conflict only score, rationale
// and updated_at change; rel is overwritten with the stored row.
func (r *RelationshipRepository) Save(ctx context.Context, rel *matching.Relationship) error {
	pair := rel.Pair()
	query := `
		INSERT INTO relationships (
			id, initiator_id, receiver_id, profile_low, profile_high,
			score, rationale, status, created_at, updated_at, responded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (profile_low, profile_high) DO UPDATE SET
			score = EXCLUDED.score,
			rationale = EXCLUDED.rationale,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + relationshipColumns

	stored, err := scanRelationship(r.conn.QueryRow(ctx, query,
		rel.ID,
		string(rel.InitiatorID),
		string(rel.ReceiverID),
		string(pair.Low),
		string(pair.High),
		rel.Score,
		rel.Rationale,
		string(rel.Status),
		rel.CreatedAt,
		rel.UpdatedAt,
		rel.RespondedAt,
	))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrProfileNotFound
		}
		return fmt.Errorf("failed to save relationship: %w", err)
	}

	*rel = *stored
	return nil
}

// UpdateStatus records a response. The update only applies to a pending row.
func (r *RelationshipRepository) UpdateStatus(ctx context.Context, rel *matching.Relationship) error {
	result, err := r.conn.Exec(ctx, `
		UPDATE relationships
		SET status = $2, responded_at = $3, updated_at = $4
		WHERE id::text = $1 AND status = 'pending'
	`, rel.ID, string(rel.Status), rel.RespondedAt, rel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update relationship status: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM relationships WHERE id::text = $1)`, rel.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check relationship: %w", err)
	}
	if !exists {
		return shared.ErrRelationshipNotFound
	}
	return shared.ErrRelationshipFinal
}

// GetByID returns a relationship by id.
func (r *RelationshipRepository) GetByID(ctx context.Context, id string) (*matching.Relationship, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+relationshipColumns+` FROM relationships WHERE id::text = $1`, id)
	return r.scanOne(row)
}

// GetByPair returns the relationship of an unordered pair.
func (r *RelationshipRepository) GetByPair(ctx context.Context, a, b profile.ID) (*matching.Relationship, error) {
	pair := matching.NewPair(a, b)
	row := r.conn.QueryRow(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE profile_low = $1 AND profile_high = $2`,
		string(pair.Low), string(pair.High),
	)
	return r.scanOne(row)
}

// ListByProfile returns every relationship the profile is part of, newest first.
func (r *RelationshipRepository) ListByProfile(ctx context.Context, id profile.ID) ([]*matching.Relationship, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+relationshipColumns+`
		FROM relationships
		WHERE initiator_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	defer rows.Close()

	result := make([]*matching.Relationship, 0)
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		result = append(result, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return result, nil
}

// Delete removes a relationship and, by cascade, its messages.
func (r *RelationshipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM relationships WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrRelationshipNotFound
	}
	return nil
}

func (r *RelationshipRepository) scanOne(row pgx.Row) (*matching.Relationship, error) {
	rel, err := scanRelationship(row)
	if IsNoRows(err) {
		return nil, shared.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get relationship: %w", err)
	}
	return rel, nil
}

func scanRelationship(row pgx.Row) (*matching.Relationship, error) {
	var rel matching.Relationship
	var initiator, receiver, status string

	err := row.Scan(
		&rel.ID,
		&initiator,
		&receiver,
		&rel.Score,
		&rel.Rationale,
		&status,
		&rel.CreatedAt,
		&rel.UpdatedAt,
		&rel.RespondedAt,
	)
	if err != nil {
		return nil, err
	}

	rel.InitiatorID = profile.ID(initiator)
	rel.ReceiverID = profile.ID(receiver)
	rel.Status = matching.Status(status)
	return &rel, nil
}
