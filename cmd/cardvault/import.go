package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/unkn0wn-root/cardvault/internal/scryfall"
	"github.com/unkn0wn-root/cardvault/internal/storage"
)

// importBulkFile loads a Scryfall bulk JSON file into the catalog.
func importBulkFile(ctx context.Context, repo storage.CardRepository, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cards, err := scryfall.ParseBulk(f)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	n, err := repo.UpsertCards(ctx, scryfall.ToCatalog(cards))
	if err != nil {
		return 0, fmt.Errorf("store %s: %w", path, err)
	}
	return n, nil
}

// fetchSets downloads every printing of each set code.
func fetchSets(ctx context.Context, client *scryfall.Client, repo storage.CardRepository, codes []string) (int, error) {
	total := 0
	for _, code := range codes {
		cards, err := client.SearchSet(ctx, code)
		if err != nil {
			return total, err
		}
		n, err := repo.UpsertCards(ctx, scryfall.ToCatalog(cards))
		if err != nil {
			return total, fmt.Errorf("store set %s: %w", code, err)
		}
		total += n
	}
	return total, nil
}

// fetchCards downloads single printings by Scryfall id.
func fetchCards(ctx context.Context, client *scryfall.Client, repo storage.CardRepository, ids []string) (int, error) {
	var cards []scryfall.Card
	for _, id := range ids {
		card, err := client.GetCard(ctx, id)
		if err != nil {
			return 0, err
		}
		cards = append(cards, *card)
	}
	return repo.UpsertCards(ctx, scryfall.ToCatalog(cards))
}

// splitList accepts comma or space separated values.
func splitList(raw string) []string {
	replacer := strings.NewReplacer(",", " ", ";", " ")
	fields := strings.Fields(replacer.Replace(raw))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
