package storage

import (
	"strings"
	"time"

	"github.com/unkn0wn-root/cardvault/internal/collection"
)

// Card is one catalog printing.
type Card struct {
	ID              string
	Name            string
	SetCode         string
	SetName         string
	CollectorNumber string
	Rarity          string
	TypeLine        string
	ManaCost        string
	// Finishes holds the raw catalog spellings (nonfoil, foil, etched).
	Finishes   []string
	ReleasedAt string
}

// AvailableFinishes derives the finishes entry may pick from.
func (c Card) AvailableFinishes() collection.Finishes {
	return collection.FinishesFromMetadata(c.Finishes)
}

// Set summarises one catalog set.
type Set struct {
	Code       string
	Name       string
	ReleasedAt string
	CardCount  int
}

// Holding is the owned quantity for one (card, finish, special).
type Holding struct {
	CardID    string
	Finish    collection.Finish
	Special   collection.Special
	Quantity  int
	UpdatedAt time.Time
}

// HistoryEntry records one applied update.
type HistoryEntry struct {
	ID            string
	CardID        string
	Finish        collection.Finish
	Special       collection.Special
	Delta         int
	QuantityAfter int
	Source        string
	CreatedAt     time.Time
}

// Totals summarises the whole collection.
type Totals struct {
	Cards  int
	Copies int
}

// Fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func joinFinishes(fs []string) string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, ",")
}

func splitFinishes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
