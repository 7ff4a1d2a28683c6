package deckgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Curve bucket labels in display order.
var curveBuckets = []string{"0", "1", "2", "3", "4", "5", "6+"}

// CurveTarget is the ideal cost distribution for one commander cost tier.
type CurveTarget struct {
	Buckets   map[string]int `yaml:"buckets"`
	Lands     int            `yaml:"lands"`
	ManaRocks int            `yaml:"mana_rocks"`
}

// ScoringTables holds every heuristic the builder and scorer consume.
// They are data, not code: deployments may override them from a YAML file.
type ScoringTables struct {
	// CurveTargets is keyed by commander mana value tier (2 through 6).
	// Commanders outside the range use the nearest tier.
	CurveTargets map[int]CurveTarget `yaml:"curve_targets"`

	// TypeIdeals are ideal counts per card category. The land ideal is
	// taken from the curve target, not from here.
	TypeIdeals map[string]int `yaml:"type_ideals"`

	// BalanceIdeals are the six functional category ideals.
	BalanceIdeals map[string]int `yaml:"balance_ideals"`

	// ThemeKeywords maps a theme name to oracle text fragments that
	// signal it. Matching is case-insensitive.
	ThemeKeywords map[string][]string `yaml:"theme_keywords"`

	// BalanceKeywords maps each balance category to its text heuristics.
	BalanceKeywords map[string][]string `yaml:"balance_keywords"`

	// ManaRockKeywords signal mana acceleration on an artifact.
	ManaRockKeywords []string `yaml:"mana_rock_keywords"`

	// HouseRuleExclusions are staples not counted as mana rocks when the
	// deck is built under house rules.
	HouseRuleExclusions []string `yaml:"house_rule_exclusions"`

	// RestrictedCards is the fixed set of power outliers gated by bracket.
	RestrictedCards []string `yaml:"restricted_cards"`
}

// DefaultTables returns the built-in heuristics.
func DefaultTables() *ScoringTables {
	return &ScoringTables{
		CurveTargets: map[int]CurveTarget{
			2: {Buckets: map[string]int{"0": 2, "1": 12, "2": 16, "3": 12, "4": 7, "5": 4, "6+": 2}, Lands: 36, ManaRocks: 8},
			3: {Buckets: map[string]int{"0": 2, "1": 10, "2": 14, "3": 13, "4": 8, "5": 5, "6+": 3}, Lands: 36, ManaRocks: 8},
			4: {Buckets: map[string]int{"0": 2, "1": 8, "2": 13, "3": 12, "4": 10, "5": 6, "6+": 4}, Lands: 37, ManaRocks: 9},
			5: {Buckets: map[string]int{"0": 2, "1": 8, "2": 12, "3": 11, "4": 9, "5": 7, "6+": 6}, Lands: 37, ManaRocks: 10},
			6: {Buckets: map[string]int{"0": 2, "1": 7, "2": 11, "3": 10, "4": 9, "5": 8, "6+": 8}, Lands: 38, ManaRocks: 11},
		},
		TypeIdeals: map[string]int{
			"creature":     28,
			"instant":      9,
			"sorcery":      8,
			"enchantment":  6,
			"artifact":     7,
			"planeswalker": 2,
		},
		BalanceIdeals: map[string]int{
			"ramp":         10,
			"cardDraw":     10,
			"removal":      8,
			"boardWipes":   3,
			"counterspell": 3,
			"threats":      5,
		},
		ThemeKeywords: map[string][]string{
			"tokens":       {"create a", "token", "populate"},
			"graveyard":    {"graveyard", "return target", "mill", "exile from your graveyard"},
			"artifacts":    {"artifact you control", "artifacts you control", "metalcraft", "affinity"},
			"enchantments": {"enchantment you control", "enchantments you control", "constellation", "aura"},
			"spells":       {"instant or sorcery", "whenever you cast", "copy target", "prowess", "magecraft"},
			"ramp":         {"search your library for a land", "add one mana", "add two mana", "additional land"},
			"draw":         {"draw a card", "draw two cards", "draw cards"},
			"removal":      {"destroy target", "exile target", "deals damage to target"},
		},
		BalanceKeywords: map[string][]string{
			"ramp":         {"add {", "add one mana", "add two mana", "search your library for a land", "additional land"},
			"cardDraw":     {"draw a card", "draw two cards", "draw three cards", "draw cards"},
			"removal":      {"destroy target", "exile target", "deals damage to target creature", "fight target"},
			"boardWipes":   {"destroy all", "exile all", "each creature", "all creatures"},
			"counterspell": {"counter target"},
			"threats":      {"annihilator", "extra turn", "wins the game", "loses the game", "combat damage to a player", "double strike"},
		},
		ManaRockKeywords: []string{"add {", "add one mana", "add two mana", "add three mana", "mana of any color"},
		HouseRuleExclusions: []string{
			"Sol Ring",
		},
		RestrictedCards: []string{
			"Ancient Tomb",
			"Bolas's Citadel",
			"Chrome Mox",
			"Cyclonic Rift",
			"Demonic Tutor",
			"Drannith Magistrate",
			"Expropriate",
			"Fierce Guardianship",
			"Force of Will",
			"Gaea's Cradle",
			"Grand Arbiter Augustin IV",
			"Jeska's Will",
			"Mana Crypt",
			"Mana Vault",
			"Mox Diamond",
			"Mystical Tutor",
			"Rhystic Study",
			"Smothering Tithe",
			"Teferi's Protection",
			"Thassa's Oracle",
			"The One Ring",
			"Underworld Breach",
			"Vampiric Tutor",
		},
	}
}

// LoadTables reads overrides from a YAML file. Sections missing from the
// file keep their defaults.
func LoadTables(path string) (*ScoringTables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoring tables: %w", err)
	}
	t := DefaultTables()
	if err := yaml.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("parse scoring tables: %w", err)
	}
	return t, nil
}

// curveTargetFor picks the target table nearest the commander's mana value.
func (t *ScoringTables) curveTargetFor(commanderManaValue float64) CurveTarget {
	tier := int(commanderManaValue)
	if tier < 2 {
		tier = 2
	}
	if tier > 6 {
		tier = 6
	}
	return t.CurveTargets[tier]
}

func (t *ScoringTables) isRestricted(name string) bool {
	for _, r := range t.RestrictedCards {
		if r == name {
			return true
		}
	}
	return false
}
