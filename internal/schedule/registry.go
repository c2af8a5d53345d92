package schedule

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("schedule")

var (
	ErrInvalidSchedule  = errors.New("invalid schedule")
	ErrNegativeDuration = errors.New("schedule duration must not be negative")
	ErrEmptyRegistry    = errors.New("schedule registry needs at least one entry")
)

// InvalidScheduleError reports a schedule id outside [Min, Max].
type InvalidScheduleError struct {
	ID  uint64
	Min uint64
	Max uint64
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule %d: valid ids are [%d, %d]", e.ID, e.Min, e.Max)
}

func (e *InvalidScheduleError) Is(target error) bool {
	return target == ErrInvalidSchedule
}

// Entry 注册表中的一行
type Entry struct {
	ID              uint64
	DurationSeconds uint64
}

// Registry maps schedule ids 0..N-1 to vesting durations. It has no
// mutation entry point once constructed.
type Registry struct {
	entries []Entry
}

// NewRegistry 按顺序为每个时长分配 id
func NewRegistry(durations []int64) (*Registry, error) {
	if len(durations) == 0 {
		return nil, ErrEmptyRegistry
	}

	entries := make([]Entry, len(durations))
	for i, d := range durations {
		if d < 0 {
			log.Errorf("NewRegistry: schedule %d has negative duration %d", i, d)
			return nil, fmt.Errorf("schedule %d: %w", i, ErrNegativeDuration)
		}
		entries[i] = Entry{ID: uint64(i), DurationSeconds: uint64(d)}
	}

	log.Debugf("NewRegistry: registered %d schedules", len(entries))
	return &Registry{entries: entries}, nil
}

// GetDuration 返回 id 对应的时长（秒）
func (r *Registry) GetDuration(id uint64) (uint64, error) {
	if id >= uint64(len(r.entries)) {
		return 0, &InvalidScheduleError{ID: id, Min: 0, Max: uint64(len(r.entries) - 1)}
	}
	return r.entries[id].DurationSeconds, nil
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries 返回注册表内容的副本
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Durations 返回构造注册表时使用的时长列表
func (r *Registry) Durations() []int64 {
	out := make([]int64, len(r.entries))
	for i, e := range r.entries {
		out[i] = int64(e.DurationSeconds)
	}
	return out
}
