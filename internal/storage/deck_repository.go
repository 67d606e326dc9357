package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"vibes/internal/models"
)

// DeckRepositoryInterface persists decks together with their card lists and votes.
// Update never touches the vote fields; ToggleUpvote is the only writer of those.
type DeckRepositoryInterface interface {
	Create(ctx context.Context, deck *models.Deck) error
	Update(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Deck, error)
	ToggleUpvote(ctx context.Context, deckID, userID string) (upvoted bool, count int, err error)
	ListPublic(ctx context.Context, limit int) ([]*models.Deck, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Deck, error)
}

type DeckRepository struct {
	db  *DB
	now func() time.Time
}

func NewDeckRepository(db *DB) DeckRepositoryInterface {
	return &DeckRepository{db: db, now: time.Now}
}

const deckColumns = `id, owner_id, owner_name, name, description, is_public, colors, upvote_count, created_at, updated_at`

func (r *DeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	colors, err := encodeColors(deck.Colors)
	if err != nil {
		return err
	}
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO decks (`+deckColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			deck.ID, deck.OwnerID, deck.OwnerDisplayName, deck.Name, deck.Description,
			boolToInt(deck.IsPublic), colors, deck.CreatedAt.UnixMilli(), deck.UpdatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert deck: %w", err)
		}
		return insertDeckCards(ctx, tx, deck.ID, deck.Cards)
	})
}

// Update rewrites the content fields of a deck owned by deck.OwnerID.
// It returns models.ErrNotFound when no such deck exists for that owner.
func (r *DeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	colors, err := encodeColors(deck.Colors)
	if err != nil {
		return err
	}
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE decks
			SET name = ?, description = ?, is_public = ?, colors = ?, owner_name = ?, updated_at = ?
			WHERE id = ? AND owner_id = ?`,
			deck.Name, deck.Description, boolToInt(deck.IsPublic), colors, deck.OwnerDisplayName,
			deck.UpdatedAt.UnixMilli(), deck.ID, deck.OwnerID,
		)
		if err != nil {
			return fmt.Errorf("failed to update deck: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return models.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deck.ID); err != nil {
			return fmt.Errorf("failed to clear deck cards: %w", err)
		}
		return insertDeckCards(ctx, tx, deck.ID, deck.Cards)
	})
}

// Delete removes the deck if ownerID owns it and reports whether a row went away.
func (r *DeckRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM decks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete deck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID reads the deck row and its cards and upvotes from one snapshot,
// so UpvoteCount always equals len(UpvotedBy).
func (r *DeckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	var deck *models.Deck
	err := r.db.WithReadSnapshot(ctx, func(q Querier) error {
		var err error
		deck, err = scanDeck(q.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get deck: %w", err)
		}
		return loadChildren(ctx, q, deck)
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// ToggleUpvote flips the caller's vote on a deck in a single transaction.
// Membership and counter move together, so concurrent toggles by different
// users never lose an update.
func (r *DeckRepository) ToggleUpvote(ctx context.Context, deckID, userID string) (bool, int, error) {
	var (
		upvoted bool
		count   int
	)
	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM deck_upvotes WHERE deck_id = ? AND user_id = ?`, deckID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove upvote: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return err
		}

		delta := -1
		if removed == 0 {
			res, err = tx.ExecContext(ctx, `
				INSERT INTO deck_upvotes (deck_id, user_id, created_at)
				SELECT id, ?, ? FROM decks WHERE id = ?`,
				userID, r.now().UnixMilli(), deckID,
			)
			if err != nil {
				return fmt.Errorf("failed to add upvote: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return models.ErrNotFound
			}
			delta = 1
			upvoted = true
		}

		if _, err := tx.ExecContext(ctx, `UPDATE decks SET upvote_count = upvote_count + ? WHERE id = ?`, delta, deckID); err != nil {
			return fmt.Errorf("failed to update upvote count: %w", err)
		}
		return tx.QueryRowContext(ctx, `SELECT upvote_count FROM decks WHERE id = ?`, deckID).Scan(&count)
	})
	if err != nil {
		return false, 0, err
	}
	return upvoted, count, nil
}

// ListPublic returns public decks by upvotes descending, most recently updated first on ties.
func (r *DeckRepository) ListPublic(ctx context.Context, limit int) ([]*models.Deck, error) {
	if limit <= 0 {
		limit = models.PublicDeckLimit
	}
	return r.list(ctx, `
		SELECT `+deckColumns+` FROM decks
		WHERE is_public = 1
		ORDER BY upvote_count DESC, updated_at DESC, id ASC
		LIMIT ?`, limit)
}

// ListByOwner returns every deck of the owner, most recently updated first.
func (r *DeckRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Deck, error) {
	return r.list(ctx, `
		SELECT `+deckColumns+` FROM decks
		WHERE owner_id = ?
		ORDER BY updated_at DESC, id ASC`, ownerID)
}

func (r *DeckRepository) list(ctx context.Context, query string, args ...any) ([]*models.Deck, error) {
	var decks []*models.Deck
	err := r.db.WithReadSnapshot(ctx, func(q Querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to list decks: %w", err)
		}
		defer rows.Close()

		decks = make([]*models.Deck, 0)
		for rows.Next() {
			deck, err := scanDeck(rows)
			if err != nil {
				return fmt.Errorf("failed to scan deck: %w", err)
			}
			decks = append(decks, deck)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		// One connection: the cursor must be closed before the child queries run.
		rows.Close()

		for _, deck := range decks {
			if err := loadChildren(ctx, q, deck); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decks, nil
}

func loadChildren(ctx context.Context, q Querier, deck *models.Deck) error {
	rows, err := q.QueryContext(ctx,
		`SELECT card_id, quantity FROM deck_cards WHERE deck_id = ? ORDER BY position`, deck.ID)
	if err != nil {
		return fmt.Errorf("failed to load deck cards: %w", err)
	}
	deck.Cards = make([]models.DeckCardEntry, 0)
	for rows.Next() {
		var e models.DeckCardEntry
		if err := rows.Scan(&e.CardID, &e.Quantity); err != nil {
			rows.Close()
			return err
		}
		deck.Cards = append(deck.Cards, e)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx,
		`SELECT user_id FROM deck_upvotes WHERE deck_id = ? ORDER BY created_at, user_id`, deck.ID)
	if err != nil {
		return fmt.Errorf("failed to load deck upvotes: %w", err)
	}
	defer rows.Close()
	deck.UpvotedBy = make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		deck.UpvotedBy = append(deck.UpvotedBy, userID)
	}
	return rows.Err()
}

func insertDeckCards(ctx context.Context, tx *sql.Tx, deckID string, cards []models.DeckCardEntry) error {
	if len(cards) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO deck_cards (deck_id, position, card_id, quantity) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare deck card insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cards {
		if _, err := stmt.ExecContext(ctx, deckID, i, c.CardID, c.Quantity); err != nil {
			return fmt.Errorf("failed to insert deck card %s: %w", c.CardID, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*models.Deck, error) {
	var (
		deck                 models.Deck
		isPublic             int
		colors               string
		createdAt, updatedAt int64
	)
	err := row.Scan(&deck.ID, &deck.OwnerID, &deck.OwnerDisplayName, &deck.Name, &deck.Description,
		&isPublic, &colors, &deck.UpvoteCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	deck.IsPublic = isPublic == 1
	deck.CreatedAt = time.UnixMilli(createdAt).UTC()
	deck.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	if err := json.Unmarshal([]byte(colors), &deck.Colors); err != nil {
		return nil, fmt.Errorf("failed to decode deck colors: %w", err)
	}
	if deck.Colors == nil {
		deck.Colors = []string{}
	}
	return &deck, nil
}

func encodeColors(colors []string) (string, error) {
	if colors == nil {
		colors = []string{}
	}
	b, err := json.Marshal(colors)
	if err != nil {
		return "", fmt.Errorf("failed to encode deck colors: %w", err)
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
