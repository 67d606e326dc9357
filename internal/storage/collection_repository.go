package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vibes/internal/models"
)

// CollectionRepositoryInterface persists per-user variant counts and sharing settings.
type CollectionRepositoryInterface interface {
	Load(ctx context.Context, userID string) (models.CollectionState, error)
	LoadAll(ctx context.Context) (map[string]models.CollectionState, error)
	SaveCard(ctx context.Context, userID, cardID string, counts models.VariantCounts) error
	Replace(ctx context.Context, userID string, state models.CollectionState) error
	Reset(ctx context.Context, userID string) error
	Profile(ctx context.Context, userID string) (*models.CollectionProfile, error)
	SetVisibility(ctx context.Context, userID, displayName string, public bool) error
	Count(ctx context.Context) (int, error)
}

type CollectionRepository struct {
	db  *DB
	now func() time.Time
}

func NewCollectionRepository(db *DB) CollectionRepositoryInterface {
	return &CollectionRepository{db: db, now: time.Now}
}

func (r *CollectionRepository) Load(ctx context.Context, userID string) (models.CollectionState, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT card_id, normal, foil, arctic, sketch
		FROM collection_counts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	defer rows.Close()

	state := make(models.CollectionState)
	for rows.Next() {
		var (
			cardID string
			vc     models.VariantCounts
		)
		if err := rows.Scan(&cardID, &vc.Normal, &vc.Foil, &vc.Arctic, &vc.Sketch); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		state[cardID] = vc
	}
	return state, rows.Err()
}

// LoadAll returns the collection of every user that has at least one stored row.
func (r *CollectionRepository) LoadAll(ctx context.Context) (map[string]models.CollectionState, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT user_id, card_id, normal, foil, arctic, sketch
		FROM collection_counts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	defer rows.Close()

	all := make(map[string]models.CollectionState)
	for rows.Next() {
		var (
			userID, cardID string
			vc             models.VariantCounts
		)
		if err := rows.Scan(&userID, &cardID, &vc.Normal, &vc.Foil, &vc.Arctic, &vc.Sketch); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		state, ok := all[userID]
		if !ok {
			state = make(models.CollectionState)
			all[userID] = state
		}
		state[cardID] = vc
	}
	return all, rows.Err()
}

func (r *CollectionRepository) SaveCard(ctx context.Context, userID, cardID string, vc models.VariantCounts) error {
	_, err := r.db.conn.ExecContext(ctx, upsertCountsSQL,
		userID, cardID, vc.Normal, vc.Foil, vc.Arctic, vc.Sketch, r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", cardID, err)
	}
	return nil
}

// Replace swaps the stored collection of userID for state in one transaction.
func (r *CollectionRepository) Replace(ctx context.Context, userID string, state models.CollectionState) error {
	now := r.now().UnixMilli()
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM collection_counts WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
		if len(state) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, upsertCountsSQL)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for cardID, vc := range state {
			if _, err := stmt.ExecContext(ctx, userID, cardID,
				max(vc.Normal, 0), max(vc.Foil, 0), max(vc.Arctic, 0), max(vc.Sketch, 0), now); err != nil {
				return fmt.Errorf("failed to store card %s: %w", cardID, err)
			}
		}
		return nil
	})
}

func (r *CollectionRepository) Reset(ctx context.Context, userID string) error {
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM collection_counts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	return nil
}

// Profile returns the sharing settings of userID. A user who never changed
// them gets a private profile.
func (r *CollectionRepository) Profile(ctx context.Context, userID string) (*models.CollectionProfile, error) {
	var (
		p         = models.CollectionProfile{UserID: userID}
		isPublic  int
		updatedAt int64
	)
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT display_name, is_public, updated_at
		FROM collection_profiles WHERE user_id = ?`, userID,
	).Scan(&p.DisplayName, &isPublic, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection profile: %w", err)
	}
	p.IsPublic = isPublic == 1
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func (r *CollectionRepository) SetVisibility(ctx context.Context, userID, displayName string, public bool) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO collection_profiles (user_id, display_name, is_public, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = excluded.display_name,
			is_public = excluded.is_public,
			updated_at = excluded.updated_at`,
		userID, displayName, boolToInt(public), r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update collection visibility: %w", err)
	}
	return nil
}

// Count returns the number of stored collection rows across all users.
func (r *CollectionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM collection_counts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count collection rows: %w", err)
	}
	return n, nil
}

const upsertCountsSQL = `
	INSERT INTO collection_counts (user_id, card_id, normal, foil, arctic, sketch, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, card_id) DO UPDATE SET
		normal = excluded.normal,
		foil = excluded.foil,
		arctic = excluded.arctic,
		sketch = excluded.sketch,
		updated_at = excluded.updated_at`
