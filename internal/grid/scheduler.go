package grid

import "time"

// FrameBudget is the wall-clock time allotted to one render pass to
// sustain 60 Hz.
const FrameBudget = 16700 * time.Microsecond

// Scheduler coalesces scroll, resize, sort, filter, and selection events
// into a single materialization per frame. Schedule marks a pass pending;
// the host calls Flush once per frame, so however many events arrive
// inside one frame, exactly one pass runs — a newer event simply
// supersedes a not-yet-run scheduled pass. Passes are timed against
// FrameBudget; overruns raise the frame-dropped flag for observability
// and nothing else.
type Scheduler struct {
	pending bool
	now     func() time.Time

	lastDuration time.Duration
	frameDropped bool
	passes       uint64
	dropped      uint64
}

// NewScheduler returns a scheduler on the wall clock.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// SetClock replaces the time source. Test hook.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Schedule queues a materialization for the next frame. Idempotent
// within a frame: repeated calls collapse into one pending pass.
func (s *Scheduler) Schedule() {
	s.pending = true
}

// Pending reports whether a pass is queued.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Flush runs the pending pass, if any, and times it against FrameBudget.
// Reports whether a pass ran.
func (s *Scheduler) Flush(pass func()) bool {
	if !s.pending {
		return false
	}
	s.pending = false
	start := s.now()
	pass()
	s.lastDuration = s.now().Sub(start)
	s.frameDropped = s.lastDuration > FrameBudget
	s.passes++
	if s.frameDropped {
		s.dropped++
	}
	return true
}

// FrameDropped reports whether the most recent pass exceeded the budget.
func (s *Scheduler) FrameDropped() bool {
	return s.frameDropped
}

// LastDuration returns the wall-clock duration of the most recent pass.
func (s *Scheduler) LastDuration() time.Duration {
	return s.lastDuration
}

// Passes returns how many passes have run.
func (s *Scheduler) Passes() uint64 {
	return s.passes
}

// Dropped returns how many passes exceeded the budget.
func (s *Scheduler) Dropped() uint64 {
	return s.dropped
}
