package game

import (
	"context"
	"time"

	"voidreach_combat/pkg/background"
	"voidreach_combat/pkg/logger"
)

// NewDeadlineSweeper :
// Builds the background process that drives rounds forward when no
// submission ever completes them naturally: every tick, it finds
// every non-ended encounter whose deadline has elapsed and asks the
// lifecycle to resolve it. Resolution itself is idempotent by round
// (`ResolveDeadline`), so a sweeper tick racing a just-completed
// submission is harmless.
//
// The `tick` defines how often the sweeper checks for due rounds;
// it should be well under `ROUND_TIMEOUT` so deadlines are honored
// promptly.
func NewDeadlineSweeper(lifecycle *Lifecycle, tick time.Duration, log logger.Logger) *background.Process {
	return background.NewProcess(tick, log).
		WithModule("combat-sweeper").
		WithOperation(func() (bool, error) {
			now := time.Now()

			due, err := lifecycle.Encounters.FetchDueForResolution(now)
			if err != nil {
				return false, err
			}

			for _, encounter := range due {
				if err := lifecycle.ResolveDeadline(context.Background(), encounter.SectorID, encounter.Round); err != nil {
					log.Trace(logger.Warning, "combat-sweeper", "failed to resolve due round for sector "+encounter.SectorID+": "+err.Error())
				}
			}

			return true, nil
		})
}
