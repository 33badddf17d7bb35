package world

import (
	"context"
	"testing"
)

func TestSeasonForDay(t *testing.T) {
	cases := []struct {
		day  int64
		want Season
	}{
		{0, Spring},
		{29, Spring},
		{30, Summer},
		{60, Autumn},
		{90, Winter},
		{120, Spring},
		{-1, Spring},
	}
	for _, c := range cases {
		if got := SeasonForDay(c.day); got != c.want {
			t.Fatalf("day %d: got %s want %s", c.day, got, c.want)
		}
	}
}

func TestAdvanceDay(t *testing.T) {
	svc := NewService()
	w := New("midgard")
	ctx := context.Background()

	if err := svc.AdvanceDay(ctx, w); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if w.Day != 1 {
		t.Fatalf("day: got %d want 1", w.Day)
	}
	for i := 0; i < 29; i++ {
		if err := svc.AdvanceDay(ctx, w); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if w.Day != 30 || w.Season != Summer {
		t.Fatalf("got day %d season %s, want 30 summer", w.Day, w.Season)
	}
}

func TestAdvanceDayCancelledContext(t *testing.T) {
	svc := NewService()
	w := New("midgard")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.AdvanceDay(ctx, w); err == nil {
		t.Fatal("expected context error")
	}
	if w.Day != 0 {
		t.Fatalf("day mutated on cancelled context: %d", w.Day)
	}
}
