package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProfileRepository implements profile.Repository for PostgreSQL.
type ProfileRepository struct {
	conn *Connection
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(conn *Connection) *ProfileRepository {
	return &ProfileRepository{conn: conn}
}

var _ profile.Repository = (*ProfileRepository)(nil)

const profileColumns = `id, name, email, bio, timezone, joined_at`

// GetProfile returns a profile with its skills and learning goals. The three
// reads share one read-only snapshot.
func (r *ProfileRepository) GetProfile(ctx context.Context, id profile.ID) (*profile.Profile, error) {
	var p *profile.Profile
	err := r.conn.WithTx(ctx, ReadOnlyTxOptions(), func(tx pgx.Tx) error {
		var err error
		p, err = scanProfile(tx.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, string(id)))
		if IsNoRows(err) {
			return shared.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}

		byID := map[profile.ID]*profile.Profile{p.ID: p}
		if err := loadSkills(ctx, tx, byID, `WHERE ps.profile_id = $1`, string(id)); err != nil {
			return err
		}
		return loadGoals(ctx, tx, byID, `WHERE profile_id = $1`, string(id))
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProfiles returns every profile ordered by id.
// Skills and goals are loaded with one query each rather than per profile.
func (r *ProfileRepository) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	profiles := []*profile.Profile{}
	err := r.conn.WithTx(ctx, ReadOnlyTxOptions(), func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id COLLATE "C"`)
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		byID := make(map[profile.ID]*profile.Profile)
		for rows.Next() {
			p, err := scanProfile(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan profile: %w", err)
			}
			profiles = append(profiles, p)
			byID[p.ID] = p
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows iteration error: %w", err)
		}

		if len(profiles) == 0 {
			return nil
		}
		if err := loadSkills(ctx, tx, byID, ""); err != nil {
			return err
		}
		return loadGoals(ctx, tx, byID, "")
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save upserts the profile and replaces its skills and goals in one
// transaction. Skills are upserted into the shared catalog.
func (r *ProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	joinedAt := p.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}

	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (id, name, email, bio, timezone, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				bio = EXCLUDED.bio,
				timezone = EXCLUDED.timezone,
				updated_at = NOW()
		`, string(p.ID), p.Name, p.Email, p.Bio, p.Timezone, joinedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM profile_skills WHERE profile_id = $1`, string(p.ID)); err != nil {
			return fmt.Errorf("failed to clear profile skills: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM learning_goals WHERE profile_id = $1`, string(p.ID)); err != nil {
			return fmt.Errorf("failed to clear learning goals: %w", err)
		}

		batch := &pgx.Batch{}
		for i, s := range p.Skills {
			batch.Queue(`
				INSERT INTO skills (id, name, level) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, level = EXCLUDED.level
			`, string(s.ID), s.Name, string(s.Level))
			batch.Queue(`INSERT INTO profile_skills (profile_id, skill_id, position) VALUES ($1, $2, $3)`,
				string(p.ID), string(s.ID), i)
		}
		for i, g := range p.LearningGoals {
			batch.Queue(`
				INSERT INTO learning_goals (profile_id, id, name, description, target_date, position)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, string(p.ID), string(g.ID), g.Name, g.Description, g.TargetDate, i)
		}
		if batch.Len() == 0 {
			return nil
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save skills and goals: %w", err)
		}
		return nil
	})
}

// Delete removes a profile. Skills, goals and relationships cascade.
func (r *ProfileRepository) Delete(ctx context.Context, id profile.ID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrProfileNotFound
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	var p profile.Profile
	var id string

	if err := row.Scan(&id, &p.Name, &p.Email, &p.Bio, &p.Timezone, &p.JoinedAt); err != nil {
		return nil, err
	}

	p.ID = profile.ID(id)
	p.Skills = []profile.Skill{}
	p.LearningGoals = []profile.LearningGoal{}
	return &p, nil
}

func loadSkills(ctx context.Context, q Querier, byID map[profile.ID]*profile.Profile, where string, args ...any) error {
	rows, err := q.Query(ctx, `
		SELECT ps.profile_id, s.id, s.name, s.level
		FROM profile_skills ps
		JOIN skills s ON s.id = ps.skill_id
		`+where+`
		ORDER BY ps.profile_id, ps.position
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var profileID, skillID, name, level string
		if err := rows.Scan(&profileID, &skillID, &name, &level); err != nil {
			return fmt.Errorf("failed to scan skill: %w", err)
		}
		if p, ok := byID[profile.ID(profileID)]; ok {
			p.Skills = append(p.Skills, profile.Skill{
				ID:    profile.SkillID(skillID),
				Name:  name,
				Level: profile.Level(level),
			})
		}
	}
	return rows.Err()
}

func loadGoals(ctx context.Context, q Querier, byID map[profile.ID]*profile.Profile, where string, args ...any) error {
	rows, err := q.Query(ctx, `
		SELECT profile_id, id, name, description, target_date
		FROM learning_goals
		`+where+`
		ORDER BY profile_id, position
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to load learning goals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var profileID, goalID string
		var g profile.LearningGoal
		if err := rows.Scan(&profileID, &goalID, &g.Name, &g.Description, &g.TargetDate); err != nil {
			return fmt.Errorf("failed to scan learning goal: %w", err)
		}
		g.ID = profile.GoalID(goalID)
		if p, ok := byID[profile.ID(profileID)]; ok {
			p.LearningGoals = append(p.LearningGoals, g)
		}
	}
	return rows.Err()
}
