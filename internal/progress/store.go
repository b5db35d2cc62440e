package progress

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/logger"
)

// Storage is the durable key/value boundary of the store.
type Storage interface {
	// Load returns the values present for keys; missing keys are simply absent.
	Load(ctx context.Context, keys []string) (map[string]string, error)
	// Save writes values and removes the absent keys in one step where the backend allows it.
	Save(ctx context.Context, values map[string]string, absent []string) error
}

// Keys names the four storage entries.
type Keys struct {
	XP        string
	Completed string
	Streak    string
	LastDate  string
}

// KeysWithPrefix builds the key set, e.g. "sd_" -> sd_xp, sd_completed, sd_streak, sd_last.
func KeysWithPrefix(prefix string) Keys {
	return Keys{
		XP:        prefix + "xp",
		Completed: prefix + "completed",
		Streak:    prefix + "streak",
		LastDate:  prefix + "last",
	}
}

func (k Keys) all() []string {
	return []string{k.XP, k.Completed, k.Streak, k.LastDate}
}

// Store holds the process-wide progress state. Every mutation is written
// through to Storage before returning; write failures are logged and the
// in-memory state stays authoritative.
type Store struct {
	storage Storage
	keys    Keys
	log     *logger.Logger

	mu    sync.RWMutex
	state domain.ProgressState
}

func NewStore(storage Storage, keys Keys, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{storage: storage, keys: keys, log: log}
}

// Load reads state from storage, falling back to defaults for anything
// absent, unreadable or corrupt.
func (s *Store) Load(ctx context.Context) domain.ProgressState {
	values, err := s.storage.Load(ctx, s.keys.all())
	if err != nil {
		s.log.Warn("progress load failed; starting from defaults", "error", err)
		values = nil
	}
	state := s.decode(values)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return state.Clone()
}

// State returns a copy of the current progress.
func (s *Store) State() domain.ProgressState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// AddXP adds n (ignored unless positive) and returns the new total.
func (s *Store) AddXP(ctx context.Context, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return s.state.TotalXP
	}
	s.state.TotalXP += n
	s.persistLocked(ctx)
	return s.state.TotalXP
}

// MarkCompleted records lessonID once; it reports whether the id was new.
func (s *Store) MarkCompleted(ctx context.Context, lessonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lessonID == "" || s.state.Completed(lessonID) {
		return false
	}
	s.state.CompletedLessons = append(s.state.CompletedLessons, lessonID)
	s.persistLocked(ctx)
	return true
}

// ApplyStreakTick counts today as an active day. Same day, or a day before
// the last active one: unchanged. Exactly one day after the last active day:
// +1. Otherwise the streak restarts at 1.
func (s *Store) ApplyStreakTick(ctx context.Context, today domain.Date) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := s.state.LastActive
	if !last.IsZero() && today.DaysSince(last) <= 0 {
		return s.state.StreakDays
	}
	if !last.IsZero() && today.DaysSince(last) == 1 {
		s.state.StreakDays++
	} else {
		s.state.StreakDays = 1
	}
	s.state.LastActive = today
	s.persistLocked(ctx)
	return s.state.StreakDays
}

// Reset clears everything back to defaults.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.ProgressState{}
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	values, absent := s.encode(s.state)
	if err := s.storage.Save(ctx, values, absent); err != nil {
		s.log.Warn("progress save failed; keeping in-memory state", "error", err)
	}
}

func (s *Store) encode(state domain.ProgressState) (map[string]string, []string) {
	completed := state.CompletedLessons
	if completed == nil {
		completed = []string{}
	}
	list, _ := json.Marshal(completed)
	values := map[string]string{
		s.keys.XP:        strconv.Itoa(state.TotalXP),
		s.keys.Completed: string(list),
		s.keys.Streak:    strconv.Itoa(state.StreakDays),
	}
	var absent []string
	if state.LastActive.IsZero() {
		absent = append(absent, s.keys.LastDate)
	} else {
		values[s.keys.LastDate] = state.LastActive.String()
	}
	return values, absent
}

func (s *Store) decode(values map[string]string) domain.ProgressState {
	var state domain.ProgressState
	if raw, ok := values[s.keys.XP]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			state.TotalXP = n
		} else {
			s.log.Debug("ignoring corrupt progress value", "key", s.keys.XP)
		}
	}
	if raw, ok := values[s.keys.Completed]; ok {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			state.CompletedLessons = uniqueIDs(ids)
		} else {
			s.log.Debug("ignoring corrupt progress value", "key", s.keys.Completed)
		}
	}
	if raw, ok := values[s.keys.Streak]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			state.StreakDays = n
		} else {
			s.log.Debug("ignoring corrupt progress value", "key", s.keys.Streak)
		}
	}
	if raw, ok := values[s.keys.LastDate]; ok && raw != "" {
		if d, err := domain.ParseDate(raw); err == nil {
			state.LastActive = d
		} else {
			s.log.Debug("ignoring corrupt progress value", "key", s.keys.LastDate)
		}
	}
	return state
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
