package tui

import (
	"slices"
	"time"
)

// clockState tracks whether the user is clocked in.
type clockState int

const (
	clockedOut clockState = iota
	clockedIn
	onBreak
)

// timerModel is the clock in/out stopwatch behind the dashboard. Time
// spent paused becomes the break of the entry written on clock out.
type timerModel struct {
	now func() time.Time

	state     clockState
	startTime time.Time
	pausedAt  time.Time
	breaks    []span // finished pauses
	entryID   string

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

type span struct{ from, to time.Time }

// within is the part of s that falls inside [from, to].
func (s span) within(from, to time.Time) time.Duration {
	if s.from.Before(from) {
		s.from = from
	}
	if s.to.After(to) {
		s.to = to
	}
	return max(s.to.Sub(s.from), 0)
}

func newTimerModel(now func() time.Time) timerModel {
	return timerModel{
		now:          now,
		state:        clockedOut,
		lastActivity: now(),
		idleTimeout:  15 * time.Minute,
	}
}

// start clocks in for the open log entry id, which began at since.
func (t *timerModel) start(id string, since time.Time) {
	t.state = clockedIn
	t.startTime = since
	t.breaks = nil
	t.entryID = id
	t.lastActivity = t.now()
	t.isIdle = false
}

// preview is the entry that clocking out now would record. end never leaves
// the calendar day the entry started on. The timer itself is unchanged.
func (t timerModel) preview() (start, end time.Time, breakMinutes int, ok bool) {
	if t.state == clockedOut {
		return time.Time{}, time.Time{}, 0, false
	}
	now := t.now()
	breaks := t.breaks
	if t.state == onBreak {
		breaks = append(slices.Clip(breaks), span{t.pausedAt, now})
	}

	start = t.startTime
	end = now
	if last := endOfDay(start); end.After(last) {
		end = last
	}
	var gap time.Duration
	for _, b := range breaks {
		gap += b.within(start, end)
	}
	gross := max(int(end.Sub(start)/time.Minute), 0)
	breakMinutes = min(int(gap/time.Minute), gross)
	return start, end, breakMinutes, true
}

// stop clocks out and returns the recorded span.
func (t *timerModel) stop() (start, end time.Time, breakMinutes int, ok bool) {
	start, end, breakMinutes, ok = t.preview()
	t.reset()
	return start, end, breakMinutes, ok
}

func (t *timerModel) reset() {
	t.state = clockedOut
	t.entryID = ""
	t.breaks = nil
}

func (t *timerModel) pause() {
	if t.state != clockedIn {
		return
	}
	t.state = onBreak
	t.pausedAt = t.now()
}

func (t *timerModel) resume() {
	if t.state != onBreak {
		return
	}
	t.breaks = append(t.breaks, span{t.pausedAt, t.now()})
	t.state = clockedIn
	t.isIdle = false
	t.lastActivity = t.now()
}

func (t *timerModel) toggle() {
	switch t.state {
	case clockedIn:
		t.pause()
	case onBreak:
		t.resume()
	}
}

// tick pauses the clock once no key was pressed for idleTimeout.
func (t *timerModel) tick() {
	if t.state == clockedIn && !t.isIdle && t.now().Sub(t.lastActivity) > t.idleTimeout {
		t.isIdle = true
		t.pause()
	}
}

func (t *timerModel) recordActivity() {
	t.lastActivity = t.now()
	if t.isIdle && t.state == onBreak {
		t.resume()
		t.isIdle = false
	}
}

func (t timerModel) running() bool {
	return t.state != clockedOut
}

func (t timerModel) paused() bool {
	return t.state == onBreak
}

func (t timerModel) finishedBreaks() time.Duration {
	var d time.Duration
	for _, b := range t.breaks {
		d += b.to.Sub(b.from)
	}
	return d
}

// currentElapsed is working time so far, breaks excluded.
func (t timerModel) currentElapsed() time.Duration {
	switch t.state {
	case clockedIn:
		return t.now().Sub(t.startTime) - t.finishedBreaks()
	case onBreak:
		return t.pausedAt.Sub(t.startTime) - t.finishedBreaks()
	}
	return 0
}

// currentBreak is the break accumulated so far, including a running one.
func (t timerModel) currentBreak() time.Duration {
	if t.state == onBreak {
		return t.finishedBreaks() + t.now().Sub(t.pausedAt)
	}
	return t.finishedBreaks()
}

// endOfDay is the last whole second of t's calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
