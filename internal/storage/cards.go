package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CardRepository handles the card catalog.
type CardRepository interface {
	// UpsertCards inserts or replaces printings and returns how many were written.
	UpsertCards(ctx context.Context, cards []Card) (int, error)
	Get(ctx context.Context, id string) (Card, error)
	// All returns every printing in document order: set release date, set
	// code, then collector number.
	All(ctx context.Context) ([]Card, error)
	ListBySet(ctx context.Context, setCode string) ([]Card, error)
	Sets(ctx context.Context) ([]Set, error)
	// Search matches names case-insensitively. A limit of 0 means no limit.
	Search(ctx context.Context, query string, limit int) ([]Card, error)
}

type cardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, name, set_code, set_name, collector_number, rarity,
	type_line, mana_cost, finishes, released_at`

const cardOrder = `ORDER BY released_at, set_code,
	CAST(collector_number AS INTEGER), collector_number`

func (r *cardRepository) UpsertCards(ctx context.Context, cards []Card) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			set_code = excluded.set_code,
			set_name = excluded.set_name,
			collector_number = excluded.collector_number,
			rarity = excluded.rarity,
			type_line = excluded.type_line,
			mana_cost = excluded.mana_cost,
			finishes = excluded.finishes,
			released_at = excluded.released_at
	`
	written := 0
	err := WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare card upsert: %w", err)
		}
		defer stmt.Close()
		for _, c := range cards {
			if strings.TrimSpace(c.ID) == "" {
				continue
			}
			_, err := stmt.ExecContext(ctx,
				c.ID,
				c.Name,
				strings.ToLower(c.SetCode),
				c.SetName,
				c.CollectorNumber,
				c.Rarity,
				c.TypeLine,
				c.ManaCost,
				joinFinishes(c.Finishes),
				c.ReleasedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert card %s: %w", c.ID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *cardRepository) Get(ctx context.Context, id string) (Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Card{}, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Card{}, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

func (r *cardRepository) All(ctx context.Context) ([]Card, error) {
	return r.query(ctx, `SELECT `+cardColumns+` FROM cards `+cardOrder)
}

func (r *cardRepository) ListBySet(ctx context.Context, setCode string) ([]Card, error) {
	return r.query(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE set_code = ? `+cardOrder,
		strings.ToLower(strings.TrimSpace(setCode)),
	)
}

func (r *cardRepository) Search(ctx context.Context, query string, limit int) ([]Card, error) {
	q := `SELECT ` + cardColumns + ` FROM cards WHERE name LIKE ? ESCAPE '\' ` + cardOrder
	args := []any{"%" + escapeLike(strings.TrimSpace(query)) + "%"}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, q, args...)
}

func (r *cardRepository) Sets(ctx context.Context) ([]Set, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT set_code, MAX(set_name), MIN(released_at), COUNT(*)
		FROM cards
		GROUP BY set_code
		ORDER BY MIN(released_at), set_code
	`)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []Set
	for rows.Next() {
		var s Set
		if err := rows.Scan(&s.Code, &s.Name, &s.ReleasedAt, &s.CardCount); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sets: %w", err)
	}
	return sets, nil
}

func (r *cardRepository) query(ctx context.Context, query string, args ...any) ([]Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (Card, error) {
	var c Card
	var finishes string
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.SetCode,
		&c.SetName,
		&c.CollectorNumber,
		&c.Rarity,
		&c.TypeLine,
		&c.ManaCost,
		&finishes,
		&c.ReleasedAt,
	)
	if err != nil {
		return Card{}, err
	}
	c.Finishes = splitFinishes(finishes)
	return c, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
