package bot

import "sync"

// inputState is what the bot expects as the next free text of a user.
type inputState string

const (
	awaitNothing      inputState = ""
	awaitAddCoin      inputState = "add_coin"
	awaitRemoveCoin   inputState = "remove_coin"
	awaitRunThreshold inputState = "set_run_threshold"
	awaitRunPeriods   inputState = "set_run_periods"
	awaitBroadcast    inputState = "broadcast"
)

type sessions struct {
	mu      sync.Mutex
	waiting map[int64]inputState
}

func newSessions() *sessions {
	return &sessions{waiting: make(map[int64]inputState)}
}

func (s *sessions) Set(userID int64, st inputState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting[userID] = st
}

// Take returns the pending state and clears it.
func (s *sessions) Take(userID int64) inputState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.waiting[userID]
	delete(s.waiting, userID)
	return st
}
