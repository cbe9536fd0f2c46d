package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/medicore/clinic-scheduling/internal/domain"
)

// conflictGuard wraps a single insert attempt. The fast-path tuple check
// in the service is only an optimization; under concurrent writers the
// unique index is the authoritative detector, and the guard translates
// its violation signal into the domain Conflict kind. No retry happens
// here: the caller re-queries and resubmits if it wants to.
type conflictGuard struct {
	slots SlotStore
}

func (g conflictGuard) insert(ctx context.Context, a *Appointment) error {
	err := g.slots.Insert(ctx, a)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUniqueViolation) {
		return domain.Conflictf("slot was just booked by someone else")
	}
	return fmt.Errorf("insert appointment: %w", err)
}
