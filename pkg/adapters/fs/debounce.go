package fs

import (
	"sync"
	"time"

	"github.com/aretw0/metavault/pkg/core"
)

// debouncer coalesces bursts of events for the same path: editors and
// writeFileAtomic produce create+write+rename sequences for a single save.
// Only the last event of a burst is delivered.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	latest  map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		latest: make(map[string]core.Event),
	}
}

func (d *debouncer) add(e core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.latest[e.Path] = e
	if t, ok := d.timers[e.Path]; ok {
		if t.Stop() {
			t.Reset(d.delay)
			return
		}
	}

	d.wg.Add(1)
	d.timers[e.Path] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		ev, ok := d.latest[e.Path]
		delete(d.latest, e.Path)
		delete(d.timers, e.Path)
		stopped := d.stopped
		d.mu.Unlock()
		if ok && !stopped {
			deliver(ev)
		}
	})
}

// stopAndWait drops pending events and waits up to timeout for in-flight
// deliveries to return.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for p, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, p)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
