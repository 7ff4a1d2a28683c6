package model

import (
	"reflect"
	"testing"
)

func TestJobStatus_Terminal(t *testing.T) {
	t.Parallel()

	for status, terminal := range map[JobStatus]bool{
		JobStatusPending:    false,
		JobStatusProcessing: false,
		JobStatusComplete:   true,
		JobStatusFailed:     true,
	} {
		if status.Terminal() != terminal {
			t.Fatalf("status %q: expected Terminal()=%v", status, terminal)
		}
	}
}

func TestCard_TypePredicates(t *testing.T) {
	t.Parallel()

	island := Card{TypeLine: "Basic Land — Island"}
	if !island.IsLand() || !island.IsBasicLand() {
		t.Fatalf("expected Island to be a basic land")
	}

	tomb := Card{TypeLine: "Land"}
	if !tomb.IsLand() || tomb.IsBasicLand() {
		t.Fatalf("expected a non-basic land")
	}

	commander := Card{TypeLine: "Legendary Creature — Elf Druid"}
	if !commander.CanCommand() {
		t.Fatalf("legendary creatures can command")
	}

	bear := Card{TypeLine: "Creature — Bear"}
	if bear.CanCommand() {
		t.Fatalf("plain creatures cannot command")
	}

	flagged := Card{TypeLine: "Planeswalker — Teferi", CanBeCommander: true}
	if !flagged.CanCommand() {
		t.Fatalf("explicitly flagged cards can command")
	}
}

func TestCard_ColorIdentityWithin(t *testing.T) {
	t.Parallel()

	identity := ColorIdentitySet([]string{"W", "U"})
	in := Card{ColorIdentity: []string{"U"}}
	out := Card{ColorIdentity: []string{"U", "R"}}
	colorless := Card{}

	if !in.ColorIdentityWithin(identity) {
		t.Fatalf("mono-blue fits an Azorius identity")
	}
	if out.ColorIdentityWithin(identity) {
		t.Fatalf("a red card does not fit an Azorius identity")
	}
	if !colorless.ColorIdentityWithin(identity) {
		t.Fatalf("colorless cards fit any identity")
	}
}

func TestCard_Subtypes(t *testing.T) {
	t.Parallel()

	c := Card{TypeLine: "Legendary Creature — Goblin Warrior"}
	if got := c.Subtypes(); !reflect.DeepEqual(got, []string{"Goblin", "Warrior"}) {
		t.Fatalf("expected [Goblin Warrior], got %v", got)
	}
	plain := Card{TypeLine: "Sorcery"}
	if got := plain.Subtypes(); got != nil {
		t.Fatalf("expected no subtypes, got %v", got)
	}
}

func TestCard_IsCommanderLegal(t *testing.T) {
	t.Parallel()

	legal := Card{Legalities: map[string]string{"commander": "Legal"}}
	if !legal.IsCommanderLegal() {
		t.Fatalf("legality matching is case-insensitive")
	}
	banned := Card{Legalities: map[string]string{"commander": "banned"}}
	if banned.IsCommanderLegal() {
		t.Fatalf("banned cards are not legal")
	}
	unknown := Card{}
	if unknown.IsCommanderLegal() {
		t.Fatalf("cards without legalities are not legal")
	}
}
