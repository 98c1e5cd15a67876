package fiber

import (
	"time"

	"github.com/rs/zerolog"
)

// CycleStats counts the work done by one committed cycle.
type CycleStats struct {
	Duration time.Duration

	Rendered int
	Bailouts int

	Created int
	Placed  int
	Updated int
	Deleted int

	Setups       int
	Teardowns    int
	EffectErrors int

	// LiveNodes is the arena population after the cycle, both buffers included.
	LiveNodes int
}

func (s CycleStats) MarshalZerologObject(e *zerolog.Event) {
	e.Dur("duration", s.Duration).
		Int("rendered", s.Rendered).
		Int("bailouts", s.Bailouts).
		Int("created", s.Created).
		Int("placed", s.Placed).
		Int("updated", s.Updated).
		Int("deleted", s.Deleted).
		Int("setups", s.Setups).
		Int("teardowns", s.Teardowns).
		Int("effect_errors", s.EffectErrors).
		Int("live_nodes", s.LiveNodes)
}
