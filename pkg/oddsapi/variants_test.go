package oddsapi

import "testing"

func TestVariantLadderWalk(t *testing.T) {
	ladder := newVariantLadder(DefaultLadder())

	if got := ladder.attempts(); got != 0 {
		t.Errorf("fresh ladder should report 0 attempts, got %d", got)
	}

	seen := 0
	for {
		_, ok := ladder.next()
		if !ok {
			break
		}
		seen++
	}

	if seen != len(DefaultLadder()) {
		t.Errorf("expected %d variants, got %d", len(DefaultLadder()), seen)
	}
	if got := ladder.attempts(); got != len(DefaultLadder()) {
		t.Errorf("exhausted ladder should report %d attempts, got %d", len(DefaultLadder()), got)
	}

	// Exhausted ladders stay exhausted.
	if _, ok := ladder.next(); ok {
		t.Error("exhausted ladder must not yield more variants")
	}
}

func TestVariantLadderSucceedStops(t *testing.T) {
	ladder := newVariantLadder(DefaultLadder())

	if _, ok := ladder.next(); !ok {
		t.Fatal("expected first variant")
	}
	ladder.succeed()

	if _, ok := ladder.next(); ok {
		t.Error("resolved ladder must not yield more variants")
	}
	if got := ladder.attempts(); got != 1 {
		t.Errorf("expected 1 attempt after first-variant success, got %d", got)
	}
}

func TestDefaultLadderNarrows(t *testing.T) {
	ladder := DefaultLadder()
	if len(ladder) < 2 {
		t.Fatalf("expected a multi-rung ladder, got %d rungs", len(ladder))
	}

	if len(ladder[0].Bookmakers) == 0 {
		t.Error("first rung should restrict bookmakers")
	}
	for i := 1; i < len(ladder); i++ {
		if len(ladder[i].Bookmakers) != 0 {
			t.Errorf("rung %d should not restrict bookmakers", i)
		}
		if len(ladder[i].Markets) > len(ladder[i-1].Markets) {
			t.Errorf("rung %d requests more markets than rung %d", i, i-1)
		}
	}

	last := ladder[len(ladder)-1]
	if len(last.Markets) != 1 || last.Markets[0] != "h2h" {
		t.Errorf("final rung should be moneyline only, got %v", last.Markets)
	}
}
