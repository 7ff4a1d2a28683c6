package deckgen

import (
	"fmt"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
)

// MaxDeckSize is the number of cards alongside the commander.
const MaxDeckSize = 99

// nonBasicCopyCap limits how many copies of one non-basic card the owned
// quantity may contribute to the candidate list.
const nonBasicCopyCap = 4

// restrictedCapBracket3 is how many restricted-list cards survive at bracket 3.
const restrictedCapBracket3 = 3

// ProgressFunc receives human-readable build milestones. Build itself does
// no I/O; the caller decides where the messages go.
type ProgressFunc func(message string)

// Build constructs a deck from the request's card pool. It is pure and
// deterministic: selection is stable in pool iteration order, no shuffling.
func Build(req *model.GenerateRequest, tables *ScoringTables, progress ProgressFunc) (*model.Deck, error) {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
	}

	commander := resolveCommander(req)
	if commander == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrCommanderNotFound, req.CommanderRef)
	}
	if !commander.CanCommand() || !commander.IsCommanderLegal() {
		return nil, fmt.Errorf("%w: %s", domain.ErrCommanderNotLegal, commander.Name)
	}
	identity := model.ColorIdentitySet(commander.ColorIdentity)
	report(fmt.Sprintf("Building around %s (%d colors)", commander.Name, len(commander.ColorIdentity)))

	report("Filtering card pool for color identity and legality")
	candidates := eligibleCards(req, commander, identity)

	report(fmt.Sprintf("Applying bracket %d restrictions", req.Bracket))
	candidates = applyBracket(candidates, req.Bracket, tables)

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: commander %s", domain.ErrNoEligibleCards, commander.Name)
	}

	if len(candidates) > MaxDeckSize {
		candidates = candidates[:MaxDeckSize]
	}
	report(fmt.Sprintf("Selected %d cards", len(candidates)))

	deck := &model.Deck{
		Commander:  *commander,
		Cards:      candidates,
		DeckSize:   len(candidates),
		TotalCards: len(candidates) + 1,
		Bracket:    req.Bracket,
		HouseRules: req.HouseRules,
	}
	return deck, nil
}

// resolveCommander finds the commander in the pool by catalog ID first,
// then by exact name.
func resolveCommander(req *model.GenerateRequest) *model.Card {
	for i := range req.CardPool {
		if req.CardPool[i].ID != "" && req.CardPool[i].ID == req.CommanderRef {
			return &req.CardPool[i]
		}
	}
	for i := range req.CardPool {
		if req.CardPool[i].Name == req.CommanderRef {
			return &req.CardPool[i]
		}
	}
	return nil
}

// eligibleCards filters the pool and expands entries by owned quantity.
// Non-basics contribute at most nonBasicCopyCap copies; basic lands expand
// to their full owned quantity.
func eligibleCards(req *model.GenerateRequest, commander *model.Card, identity map[string]bool) []model.Card {
	var out []model.Card
	for i := range req.CardPool {
		card := &req.CardPool[i]
		if sameCard(card, commander) {
			continue
		}
		if !card.IsCommanderLegal() {
			continue
		}
		if !card.ColorIdentityWithin(identity) {
			continue
		}
		if req.SaltThreshold > 0 && card.SaltScore > float64(req.SaltThreshold) {
			continue
		}
		qty := card.Quantity
		if qty <= 0 {
			qty = 1
		}
		if !card.IsBasicLand() && qty > nonBasicCopyCap {
			qty = nonBasicCopyCap
		}
		for n := 0; n < qty; n++ {
			cp := *card
			cp.Quantity = 1
			out = append(out, cp)
		}
	}
	return out
}

func sameCard(a, b *model.Card) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.Name == b.Name
}

// applyBracket enforces the power-level tier: the restricted set is removed
// entirely for brackets 1-2, capped at restrictedCapBracket3 occurrences in
// first-seen order for bracket 3, and untouched for brackets 4-5.
func applyBracket(cards []model.Card, bracket int, tables *ScoringTables) []model.Card {
	if bracket >= 4 {
		return cards
	}
	allowed := 0
	if bracket == 3 {
		allowed = restrictedCapBracket3
	}
	out := cards[:0]
	seen := 0
	for _, c := range cards {
		if tables.isRestricted(c.Name) {
			if seen >= allowed {
				continue
			}
			seen++
		}
		out = append(out, c)
	}
	return out
}
