package service

import (
	"time"

	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/logging"
)

// ExpireStale finishes every in-progress battle whose stale deadline is
// at or before now. Returns how many battles were expired. Battles that
// are mid-resolve are skipped and retried on the next scanner tick.
func (s *Sessions) ExpireStale(now time.Time) (int, error) {
	battles, err := s.repo.FindStaleBattles(now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range battles {
		code := battles[i].SessionCode
		st, err := s.store(code)
		if err != nil {
			logging.Error("stale scanner failed to load session", err, logging.Fields{constants.LogFieldSession: code})
			continue
		}
		if !st.Expire(now) {
			continue
		}
		if _, err := s.persistAndNotify(code, st); err != nil {
			logging.Error("failed to persist expired battle", err, logging.Fields{constants.LogFieldSession: code})
			continue
		}
		expired++
		logging.Info("battle expired due to inactivity", logging.Fields{constants.LogFieldSession: code})
	}
	return expired, nil
}
