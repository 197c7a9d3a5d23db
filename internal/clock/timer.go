package clock

// Epoch identifies one run of a Timer. Ticks carrying an older epoch are ignored.
type Epoch uint64

// TickResult reports what a single tick did.
type TickResult struct {
	Applied   bool
	Remaining int
	Expired   bool
}

// Timer is a whole-second countdown. It is not safe for concurrent use;
// the owner serializes access.
type Timer struct {
	remaining int
	epoch     Epoch
	running   bool
}

// Start begins a new run with the given number of seconds and returns its epoch.
func (t *Timer) Start(seconds int) Epoch {
	if seconds < 0 {
		seconds = 0
	}
	t.epoch++
	t.remaining = seconds
	t.running = true
	return t.epoch
}

// Stop halts the timer. Ticks from the stopped run become stale.
func (t *Timer) Stop() {
	if t.running {
		t.epoch++
	}
	t.running = false
}

// Tick decrements the countdown by one second if e is the current epoch.
// Reaching zero reports Expired once and stops the timer.
func (t *Timer) Tick(e Epoch) TickResult {
	if !t.running || e != t.epoch {
		return TickResult{Remaining: t.remaining}
	}
	if t.remaining > 0 {
		t.remaining--
	}
	res := TickResult{Applied: true, Remaining: t.remaining}
	if t.remaining == 0 {
		res.Expired = true
		t.Stop()
	}
	return res
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int { return t.remaining }

// Running reports whether a run is in progress.
func (t *Timer) Running() bool { return t.running }

// Epoch returns the current epoch.
func (t *Timer) Epoch() Epoch { return t.epoch }
