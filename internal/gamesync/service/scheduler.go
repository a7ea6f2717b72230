package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

// scheduleEntry is one account's recurring sync. The generation token ties
// re-arms to the schedule that created them: a run started under an old
// schedule must not re-arm after the account was rescheduled or cancelled.
type scheduleEntry struct {
	timer *time.Timer
	gen   uint64
}

// ScheduleSync starts a recurring sync for the account. A prior schedule for
// the same account is replaced; an in-flight run is never interrupted, but it
// will not re-arm under the old interval.
func (s *SyncService) ScheduleSync(accountID, ownerID uuid.UUID, interval time.Duration) {
	if interval <= 0 {
		interval = s.cfg.DefaultScheduleInterval
	}

	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	if entry, ok := s.schedules[accountID]; ok {
		entry.timer.Stop()
	}
	s.schedGen++
	gen := s.schedGen

	var run func()
	run = func() {
		ctx := context.Background()
		if _, err := s.TriggerSync(ctx, accountID, ownerID); err != nil {
			s.logger.Warn("Scheduled sync failed",
				interfaces.String("account_id", accountID.String()),
				interfaces.Error(err))
		}

		s.schedMu.Lock()
		defer s.schedMu.Unlock()
		entry, ok := s.schedules[accountID]
		if !ok || entry.gen != gen {
			return
		}
		entry.timer = time.AfterFunc(interval, run)
	}

	s.schedules[accountID] = &scheduleEntry{
		timer: time.AfterFunc(interval, run),
		gen:   gen,
	}
	s.logger.Info("Scheduled recurring sync",
		interfaces.String("account_id", accountID.String()),
		interfaces.String("interval", interval.String()))
}

// CancelScheduledSync removes the account's recurring sync.
func (s *SyncService) CancelScheduledSync(accountID uuid.UUID) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	if entry, ok := s.schedules[accountID]; ok {
		entry.timer.Stop()
		delete(s.schedules, accountID)
	}
}

func (s *SyncService) isScheduled(accountID uuid.UUID) bool {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()

	_, ok := s.schedules[accountID]
	return ok
}
