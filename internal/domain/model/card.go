package model

import "strings"

// Card is a read-only view of a catalog card plus the owned quantity.
// Only the fields the builder and scorer consume are modeled here; the
// catalog itself is an external system.
type Card struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	TypeLine       string            `json:"typeLine"`
	ManaCost       string            `json:"manaCost,omitempty"`
	ManaValue      float64           `json:"manaValue"`
	ColorIdentity  []string          `json:"colorIdentity,omitempty"`
	Legalities     map[string]string `json:"legalities,omitempty"`
	OracleText     string            `json:"oracleText,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	SaltScore      float64           `json:"saltScore,omitempty"`
	CanBeCommander bool              `json:"canBeCommander,omitempty"`
	Quantity       int               `json:"quantity"`
}

// IsLand reports whether the card's type line names the Land type.
func (c *Card) IsLand() bool {
	return strings.Contains(c.TypeLine, "Land")
}

// IsBasicLand reports whether the card is a basic land (exempt from copy caps).
func (c *Card) IsBasicLand() bool {
	return strings.Contains(c.TypeLine, "Basic") && c.IsLand()
}

// IsCommanderLegal reports whether the card may appear in a commander deck.
func (c *Card) IsCommanderLegal() bool {
	if c.Legalities == nil {
		return false
	}
	return strings.EqualFold(c.Legalities["commander"], "legal")
}

// CanCommand reports whether the card may sit in the command zone:
// a legendary creature, or a card the catalog explicitly flags.
func (c *Card) CanCommand() bool {
	if c.CanBeCommander {
		return true
	}
	return strings.Contains(c.TypeLine, "Legendary") && strings.Contains(c.TypeLine, "Creature")
}

// ColorIdentityWithin reports whether every color of the card is present
// in the given identity set.
func (c *Card) ColorIdentityWithin(identity map[string]bool) bool {
	for _, col := range c.ColorIdentity {
		if !identity[col] {
			return false
		}
	}
	return true
}

// ColorIdentitySet turns a color identity slice into a lookup set.
func ColorIdentitySet(colors []string) map[string]bool {
	set := make(map[string]bool, len(colors))
	for _, c := range colors {
		set[c] = true
	}
	return set
}

// Subtypes returns the subtype words after the em dash of a type line,
// e.g. "Legendary Creature — Goblin Warrior" -> ["Goblin", "Warrior"].
func (c *Card) Subtypes() []string {
	_, after, ok := strings.Cut(c.TypeLine, "—")
	if !ok {
		return nil
	}
	return strings.Fields(after)
}
