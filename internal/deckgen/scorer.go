package deckgen

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"commander-deck-service/internal/domain/model"
)

// Composite weights per scoring category. Fixed, not tunable.
const (
	weightManaCurve   = 0.30
	weightTypeBalance = 0.25
	weightBalance     = 0.25
	weightSynergy     = 0.20
)

// recommendTolerance is how many cards a count may deviate from its ideal
// before a recommendation is emitted.
const recommendTolerance = 2

// minTribeSize is the smallest creature count reported as a primary tribe.
const minTribeSize = 3

// Score grades a built deck. It is a pure function: scoring the same deck
// twice yields identical results.
func Score(deck *model.Deck, tables *ScoringTables) *model.DeckAnalysis {
	target := tables.curveTargetFor(deck.Commander.ManaValue)

	curve := scoreManaCurve(deck, target, tables)
	types := scoreTypeBalance(deck, target, tables)
	synergy := scoreSynergy(deck, tables)
	balance := scoreBalance(deck, tables)

	overall := CompositeScore(curve.Score, types.Score, balance.Score, synergy.Score)

	analysis := &model.DeckAnalysis{
		OverallScore: overall,
		Grade:        GradeFor(overall),
		ManaCurve:    curve,
		CardTypes:    types,
		Synergies:    synergy,
		Balance:      balance,
	}
	analysis.Recommendations = recommendations(deck, target, tables, analysis)
	analysis.Strengths, analysis.Weaknesses = strengthsWeaknesses(analysis)
	return analysis
}

// CompositeScore is the weighted sum of the four sub-scores, rounded to one
// decimal place.
func CompositeScore(manaCurve, typeBalance, balance, synergy float64) float64 {
	v := weightManaCurve*manaCurve + weightTypeBalance*typeBalance +
		weightBalance*balance + weightSynergy*synergy
	return math.Round(v*10) / 10
}

// GradeFor maps a composite score to a letter grade. Bands are closed above:
// exactly 90 is A+, exactly 50 is C-.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 50:
		return "C-"
	default:
		return "D"
	}
}

func curveBucket(manaValue float64) string {
	mv := int(manaValue)
	if mv >= 6 {
		return "6+"
	}
	if mv < 0 {
		mv = 0
	}
	return fmt.Sprintf("%d", mv)
}

// isManaRock reports whether the card is an artifact that signals mana
// acceleration. Under house rules the excluded staples never count.
func isManaRock(card *model.Card, houseRules bool, tables *ScoringTables) bool {
	if !strings.Contains(card.TypeLine, "Artifact") || card.IsLand() {
		return false
	}
	if houseRules {
		for _, name := range tables.HouseRuleExclusions {
			if card.Name == name {
				return false
			}
		}
	}
	text := strings.ToLower(card.OracleText)
	for _, kw := range tables.ManaRockKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func scoreManaCurve(deck *model.Deck, target CurveTarget, tables *ScoringTables) model.ManaCurveAnalysis {
	curve := make(map[string]int, len(curveBuckets))
	for _, b := range curveBuckets {
		curve[b] = 0
	}
	lands, rocks := 0, 0
	for i := range deck.Cards {
		card := &deck.Cards[i]
		if card.IsLand() {
			lands++
			continue
		}
		curve[curveBucket(card.ManaValue)]++
		if isManaRock(card, deck.HouseRules, tables) {
			rocks++
		}
	}

	deviation := 0
	for _, b := range curveBuckets {
		deviation += abs(curve[b] - target.Buckets[b])
	}
	deviation += abs(lands - target.Lands)
	deviation += abs(rocks - target.ManaRocks)

	return model.ManaCurveAnalysis{
		Score:     clampScore(100 - 2*float64(deviation)),
		Curve:     curve,
		Lands:     lands,
		ManaRocks: rocks,
	}
}

// cardCategory buckets a card into exactly one type category. Mana rocks
// are split out of artifacts because the curve targets track them separately.
func cardCategory(card *model.Card, houseRules bool, tables *ScoringTables) string {
	switch {
	case card.IsLand():
		return "land"
	case isManaRock(card, houseRules, tables):
		return "manaRock"
	case strings.Contains(card.TypeLine, "Creature"):
		return "creature"
	case strings.Contains(card.TypeLine, "Instant"):
		return "instant"
	case strings.Contains(card.TypeLine, "Sorcery"):
		return "sorcery"
	case strings.Contains(card.TypeLine, "Enchantment"):
		return "enchantment"
	case strings.Contains(card.TypeLine, "Planeswalker"):
		return "planeswalker"
	default:
		return "artifact"
	}
}

func scoreTypeBalance(deck *model.Deck, target CurveTarget, tables *ScoringTables) model.TypeBalanceAnalysis {
	counts := map[string]int{}
	for i := range deck.Cards {
		counts[cardCategory(&deck.Cards[i], deck.HouseRules, tables)]++
	}

	ideals := map[string]int{
		"land":     target.Lands,
		"manaRock": target.ManaRocks,
	}
	for cat, n := range tables.TypeIdeals {
		ideals[cat] = n
	}

	deviation := 0
	for cat, ideal := range ideals {
		deviation += abs(counts[cat] - ideal)
	}

	return model.TypeBalanceAnalysis{
		Score:  clampScore(100 - 2*float64(deviation)),
		Counts: counts,
	}
}

func scoreSynergy(deck *model.Deck, tables *ScoringTables) model.SynergyAnalysis {
	themes := map[string]int{}
	for theme, keywords := range tables.ThemeKeywords {
		count := 0
		for i := range deck.Cards {
			if matchesAny(strings.ToLower(deck.Cards[i].OracleText), keywords) {
				count++
			}
		}
		themes[theme] = count
	}

	primaryTheme, best := "", 0
	for _, theme := range sortedKeys(themes) {
		if themes[theme] > best {
			primaryTheme, best = theme, themes[theme]
		}
	}

	score := 0.0
	if deck.DeckSize > 0 {
		maxFreq := 100 * float64(best) / float64(deck.DeckSize)
		score = math.Min(100, 2*maxFreq)
	}

	return model.SynergyAnalysis{
		Score:        score,
		Themes:       themes,
		PrimaryTheme: primaryTheme,
		PrimaryTribe: primaryTribe(deck),
	}
}

// primaryTribe is the most common creature subtype, reported only when it
// appears on at least minTribeSize cards.
func primaryTribe(deck *model.Deck) string {
	tribes := map[string]int{}
	for i := range deck.Cards {
		card := &deck.Cards[i]
		if !strings.Contains(card.TypeLine, "Creature") {
			continue
		}
		for _, sub := range card.Subtypes() {
			tribes[sub]++
		}
	}
	name, best := "", 0
	for _, tribe := range sortedKeys(tribes) {
		if tribes[tribe] > best {
			name, best = tribe, tribes[tribe]
		}
	}
	if best < minTribeSize {
		return ""
	}
	return name
}

func scoreBalance(deck *model.Deck, tables *ScoringTables) model.BalanceAnalysis {
	counts := map[string]int{}
	for cat, keywords := range tables.BalanceKeywords {
		for i := range deck.Cards {
			if matchesAny(strings.ToLower(deck.Cards[i].OracleText), keywords) {
				counts[cat]++
			}
		}
	}

	total, n := 0.0, 0
	for cat, ideal := range tables.BalanceIdeals {
		if ideal <= 0 {
			continue
		}
		total += math.Min(100, 100*float64(counts[cat])/float64(ideal))
		n++
	}
	score := 0.0
	if n > 0 {
		score = total / float64(n)
	}

	return model.BalanceAnalysis{Score: score, Counts: counts}
}

// recommendations re-runs the deviation checks and emits one message per
// out-of-tolerance category, plus blanket advice for weak composites.
func recommendations(deck *model.Deck, target CurveTarget, tables *ScoringTables, a *model.DeckAnalysis) []string {
	var recs []string

	if d := target.Lands - a.ManaCurve.Lands; d > recommendTolerance {
		recs = append(recs, fmt.Sprintf("Add %d more lands; %d is below the %d the curve wants.", d, a.ManaCurve.Lands, target.Lands))
	} else if d < -recommendTolerance {
		recs = append(recs, fmt.Sprintf("Cut %d lands; %d is above the %d the curve wants.", -d, a.ManaCurve.Lands, target.Lands))
	}
	if d := target.ManaRocks - a.ManaCurve.ManaRocks; d > recommendTolerance {
		recs = append(recs, fmt.Sprintf("Add %d more mana rocks to keep pace with the commander's cost.", d))
	}
	for _, b := range curveBuckets {
		if d := a.ManaCurve.Curve[b] - target.Buckets[b]; d > recommendTolerance {
			recs = append(recs, fmt.Sprintf("The curve is heavy at %s mana value (%d over target).", b, d))
		}
	}

	for _, cat := range sortedKeys(tables.BalanceIdeals) {
		ideal := tables.BalanceIdeals[cat]
		if d := ideal - a.Balance.Counts[cat]; d > recommendTolerance {
			recs = append(recs, fmt.Sprintf("Add more %s effects: %d of %d ideal.", cat, a.Balance.Counts[cat], ideal))
		}
	}

	if a.OverallScore < 60 {
		recs = append(recs, "The deck needs a broad rework: tighten the mana base, type ratios and functional coverage together.")
	} else if a.OverallScore < 70 {
		recs = append(recs, "Consider tightening the mana base and card type ratios before tuning synergies.")
	}
	return recs
}

func strengthsWeaknesses(a *model.DeckAnalysis) (strengths, weaknesses []string) {
	sub := []struct {
		name  string
		score float64
	}{
		{"mana curve", a.ManaCurve.Score},
		{"card type balance", a.CardTypes.Score},
		{"functional balance", a.Balance.Score},
		{"synergy", a.Synergies.Score},
	}
	for _, s := range sub {
		switch {
		case s.score >= 80:
			strengths = append(strengths, fmt.Sprintf("Strong %s (%.0f/100)", s.name, s.score))
		case s.score < 60:
			weaknesses = append(weaknesses, fmt.Sprintf("Weak %s (%.0f/100)", s.name, s.score))
		}
	}
	return strengths, weaknesses
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// sortedKeys keeps map iteration deterministic for reporting.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
