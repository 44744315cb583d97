package scryfall

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/unkn0wn-root/cardvault/internal/storage"
)

// Card holds the subset of a Scryfall card object the catalog keeps.
type Card struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Lang            string     `json:"lang"`
	ReleasedAt      string     `json:"released_at"`
	ManaCost        string     `json:"mana_cost,omitempty"`
	TypeLine        string     `json:"type_line"`
	SetCode         string     `json:"set"`
	SetName         string     `json:"set_name"`
	CollectorNumber string     `json:"collector_number"`
	Rarity          string     `json:"rarity"`
	Finishes        []string   `json:"finishes"`
	Foil            *bool      `json:"foil,omitempty"`
	NonFoil         *bool      `json:"nonfoil,omitempty"`
	CardFaces       []CardFace `json:"card_faces,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name     string `json:"name"`
	ManaCost string `json:"mana_cost,omitempty"`
	TypeLine string `json:"type_line,omitempty"`
}

type cardList struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// finishes prefers the finishes array and falls back to the older
// foil/nonfoil booleans.
func (c Card) finishes() []string {
	if len(c.Finishes) > 0 {
		return c.Finishes
	}
	var out []string
	if c.NonFoil != nil && *c.NonFoil {
		out = append(out, "nonfoil")
	}
	if c.Foil != nil && *c.Foil {
		out = append(out, "foil")
	}
	return out
}

// Catalog converts c to a storage row.
func (c Card) Catalog() storage.Card {
	manaCost, typeLine := c.ManaCost, c.TypeLine
	if len(c.CardFaces) > 0 {
		if manaCost == "" {
			manaCost = c.CardFaces[0].ManaCost
		}
		if typeLine == "" {
			typeLine = c.CardFaces[0].TypeLine
		}
	}
	return storage.Card{
		ID:              c.ID,
		Name:            c.Name,
		SetCode:         strings.ToLower(c.SetCode),
		SetName:         c.SetName,
		CollectorNumber: c.CollectorNumber,
		Rarity:          c.Rarity,
		TypeLine:        typeLine,
		ManaCost:        manaCost,
		Finishes:        c.finishes(),
		ReleasedAt:      c.ReleasedAt,
	}
}

// ToCatalog converts cards, skipping non-English printings and rows without an id.
func ToCatalog(cards []Card) []storage.Card {
	out := make([]storage.Card, 0, len(cards))
	for _, c := range cards {
		if c.ID == "" || (c.Lang != "" && c.Lang != "en") {
			continue
		}
		out = append(out, c.Catalog())
	}
	return out
}

// ParseBulk reads a Scryfall bulk data export, a JSON array of card
// objects, one element at a time.
func ParseBulk(r io.Reader) ([]Card, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read bulk data: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("bulk data must be a JSON array")
	}
	var cards []Card
	for dec.More() {
		var c Card
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode card %d: %w", len(cards), err)
		}
		cards = append(cards, c)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read bulk data: %w", err)
	}
	return cards, nil
}
