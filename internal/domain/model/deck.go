package model

// Deck is a built commander deck: the commander plus up to 99 cards.
// Card order is the stable pool order the builder selected in.
type Deck struct {
	Commander  Card   `json:"commander"`
	Cards      []Card `json:"deck"`
	DeckSize   int    `json:"deckSize"`
	TotalCards int    `json:"totalCards"`
	Bracket    int    `json:"bracket"`
	HouseRules bool   `json:"houseRules"`
}

// ManaCurveAnalysis scores the deck's cost distribution against the target
// curve for the commander's cost tier.
type ManaCurveAnalysis struct {
	Score     float64        `json:"score"`
	Curve     map[string]int `json:"curve"`
	Lands     int            `json:"lands"`
	ManaRocks int            `json:"manaRocks"`
}

// TypeBalanceAnalysis scores card type counts against fixed ideals.
type TypeBalanceAnalysis struct {
	Score  float64        `json:"score"`
	Counts map[string]int `json:"counts"`
}

// SynergyAnalysis reports theme keyword density and the dominant tribe.
type SynergyAnalysis struct {
	Score        float64        `json:"score"`
	Themes       map[string]int `json:"themes"`
	PrimaryTheme string         `json:"primaryTheme,omitempty"`
	PrimaryTribe string         `json:"primaryTribe,omitempty"`
}

// BalanceAnalysis scores functional category coverage (ramp, draw, ...).
type BalanceAnalysis struct {
	Score  float64        `json:"score"`
	Counts map[string]int `json:"counts"`
}

// DeckAnalysis is the composite quality grade for a built deck. It is
// always recomputed from the deck and never persisted on its own.
type DeckAnalysis struct {
	OverallScore    float64             `json:"overallScore"`
	Grade           string              `json:"grade"`
	ManaCurve       ManaCurveAnalysis   `json:"manaCurve"`
	CardTypes       TypeBalanceAnalysis `json:"cardTypes"`
	Synergies       SynergyAnalysis     `json:"synergies"`
	Balance         BalanceAnalysis     `json:"balance"`
	Recommendations []string            `json:"recommendations"`
	Strengths       []string            `json:"strengths"`
	Weaknesses      []string            `json:"weaknesses"`
}

// DeckResult is the terminal payload delivered to the client.
type DeckResult struct {
	Commander  Card         `json:"commander"`
	Deck       []Card       `json:"deck"`
	DeckSize   int          `json:"deckSize"`
	TotalCards int          `json:"totalCards"`
	Analysis   DeckAnalysis `json:"analysis"`
}
