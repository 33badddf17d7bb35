// Package world holds the simulation unit advanced by the tick scheduler:
// one independent game world with a monotonically increasing day counter.
// The scheduler core treats the day transition as an opaque collaborator,
// so everything game-specific stays in this package.
package world

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Season is the coarse in-game calendar phase derived from the day counter.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// DaysPerSeason is the number of game days a season lasts.
const DaysPerSeason = 30

var seasonOrder = []Season{Spring, Summer, Autumn, Winter}

// World is the authoritative state of one simulation unit. Exactly one copy
// lives in persistent storage; the scheduler never caches it across cycles.
type World struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Day       int64     `json:"day"`
	Season    Season    `json:"season"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns a freshly created world at day zero.
func New(name string) *World {
	now := time.Now().UTC()
	return &World{
		ID:        uuid.New(),
		Name:      name,
		Day:       0,
		Season:    Spring,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SeasonForDay maps a day counter to its season.
func SeasonForDay(day int64) Season {
	if day < 0 {
		day = 0
	}
	idx := (day / DaysPerSeason) % int64(len(seasonOrder))
	return seasonOrder[idx]
}

// Service applies the single-step day transition. It satisfies the
// scheduler's Advancer contract and is the place where the actual game
// rules (settlement growth, profession output, ...) hang off the tick.
type Service struct {
	now func() time.Time
}

// NewService returns a Service using wall-clock time.
func NewService() *Service {
	return &Service{now: func() time.Time { return time.Now().UTC() }}
}

// AdvanceDay advances w by exactly one game day. The step is idempotent per
// call: it derives everything from the new day counter and touches no state
// outside w.
func (s *Service) AdvanceDay(ctx context.Context, w *World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.Day++
	w.Season = SeasonForDay(w.Day)
	w.UpdatedAt = s.now()
	return nil
}
