package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/cardvault/internal/collection"
)

// CollectionRepository handles owned quantities and their history.
type CollectionRepository interface {
	// Apply adds u.Count to the matching holding in one transaction. The
	// quantity never drops below zero; the returned holding is the result.
	Apply(ctx context.Context, u collection.Update, source string) (Holding, error)
	// Holdings lists the non-empty holdings of one card.
	Holdings(ctx context.Context, cardID string) ([]Holding, error)
	// Owned maps every card with a non-empty holding to its total copies.
	Owned(ctx context.Context) (map[string]int, error)
	Totals(ctx context.Context) (Totals, error)
	RecentChanges(ctx context.Context, limit int) ([]HistoryEntry, error)
}

type collectionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCollectionRepository(db *sql.DB) CollectionRepository {
	return &collectionRepository{db: db, now: time.Now}
}

func (r *collectionRepository) Apply(
	ctx context.Context,
	u collection.Update,
	source string,
) (Holding, error) {
	if strings.TrimSpace(u.CardID) == "" {
		return Holding{}, errors.New("update has no card id")
	}
	now := r.now().UTC()
	h := Holding{CardID: u.CardID, Finish: u.Finish, Special: u.Special, UpdatedAt: now}

	err := WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		var current int
		err := tx.QueryRowContext(ctx, `
			SELECT quantity FROM holdings
			WHERE card_id = ? AND finish = ? AND special = ?
		`, u.CardID, u.Finish.String(), u.Special.String()).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read holding: %w", err)
		}

		after := current + u.Count
		if after < 0 {
			after = 0
		}
		h.Quantity = after

		_, err = tx.ExecContext(ctx, `
			INSERT INTO holdings (card_id, finish, special, quantity, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(card_id, finish, special) DO UPDATE SET
				quantity = excluded.quantity,
				updated_at = excluded.updated_at
		`, u.CardID, u.Finish.String(), u.Special.String(), after, now.Format(timeLayout))
		if err != nil {
			return fmt.Errorf("write holding: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO collection_history (
				id, card_id, finish, special, delta, quantity_after, source, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			uuid.NewString(),
			u.CardID,
			u.Finish.String(),
			u.Special.String(),
			u.Count,
			after,
			source,
			now.Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		return nil
	})
	if err != nil {
		return Holding{}, fmt.Errorf("apply %s: %w", u, err)
	}
	return h, nil
}

func (r *collectionRepository) Holdings(ctx context.Context, cardID string) ([]Holding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT card_id, finish, special, quantity, updated_at
		FROM holdings
		WHERE card_id = ? AND quantity > 0
		ORDER BY finish, special
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var out []Holding
	for rows.Next() {
		var h Holding
		var finish, special, updated string
		if err := rows.Scan(&h.CardID, &finish, &special, &h.Quantity, &updated); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		if h.Finish, err = collection.ParseFinish(finish); err != nil {
			return nil, err
		}
		if h.Special, err = collection.ParseSpecial(special); err != nil {
			return nil, err
		}
		h.UpdatedAt = parseTime(updated)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holdings: %w", err)
	}
	return out, nil
}

func (r *collectionRepository) Owned(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT card_id, SUM(quantity)
		FROM holdings
		WHERE quantity > 0
		GROUP BY card_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query owned: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan owned: %w", err)
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owned: %w", err)
	}
	return out, nil
}

func (r *collectionRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT card_id), COALESCE(SUM(quantity), 0)
		FROM holdings
		WHERE quantity > 0
	`).Scan(&t.Cards, &t.Copies)
	if err != nil {
		return Totals{}, fmt.Errorf("collection totals: %w", err)
	}
	return t, nil
}

func (r *collectionRepository) RecentChanges(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, finish, special, delta, quantity_after, source, created_at
		FROM collection_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var finish, special, created string
		err := rows.Scan(
			&e.ID,
			&e.CardID,
			&finish,
			&special,
			&e.Delta,
			&e.QuantityAfter,
			&e.Source,
			&created,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Finish, _ = collection.ParseFinish(finish)
		e.Special, _ = collection.ParseSpecial(special)
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
