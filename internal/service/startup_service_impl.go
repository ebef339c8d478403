package service

import (
	"context"
	"fmt"
	"time"
)

type startupService struct {
	ledger   LedgerService
	streaks  StreakService
	state    StateResetter
	observer UseCaseObserver
}

func NewStartupService(ledger LedgerService, streaks StreakService, state StateResetter, observers ...UseCaseObserver) StartupService {
	return &startupService{
		ledger:   ledger,
		streaks:  streaks,
		state:    state,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Reconcile must run before the monitor or supervisor is trusted. The
// order is fixed: close open ledger rows, clear the in-memory state, then
// check the streak.
func (s *startupService) Reconcile(ctx context.Context, now time.Time) (report *ReconcileReport, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "reconcile", time.Now(), fields, &err)

	report = &ReconcileReport{}
	if report.ClosedRows, err = s.ledger.CloseInterrupted(ctx, now); err != nil {
		return nil, fmt.Errorf("closing interrupted sessions: %w", err)
	}
	if s.state != nil {
		s.state.Reset()
	}
	if report.StreakReset, err = s.streaks.CheckAndReset(ctx, now); err != nil {
		return nil, fmt.Errorf("checking streak: %w", err)
	}
	fields["closed_rows"] = report.ClosedRows
	fields["streak_reset"] = report.StreakReset
	return report, nil
}
