package rooms

import "sync"

// Runner is the per-room single-writer actor. Every session mutation,
// client actions and scheduler ticks alike, is a function executed on
// its goroutine, so the order functions run in is the one total order
// for scores and buzz ranks.
type Runner struct {
	cmds chan func()
	quit chan struct{}
	once sync.Once
}

func NewRunner() *Runner {
	r := &Runner{
		cmds: make(chan func(), 64),
		quit: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Runner) loop() {
	for {
		select {
		case <-r.quit:
			return
		case fn := <-r.cmds:
			fn()
		}
	}
}

// Do enqueues fn for execution. Returns false if the runner is closed
// or its queue is full; the caller treats that as a rejected action.
func (r *Runner) Do(fn func()) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.cmds <- fn:
		return true
	case <-r.quit:
		return false
	}
}

// DoWait runs fn on the runner goroutine and returns its result. A
// closed runner rejects the call.
func (r *Runner) DoWait(fn func() bool) bool {
	res := make(chan bool, 1)
	if !r.Do(func() { res <- fn() }) {
		return false
	}
	select {
	case ok := <-res:
		return ok
	case <-r.quit:
		return false
	}
}

// Close stops the runner. Pending commands are dropped; in-flight
// DoWait callers unblock with a rejection. Idempotent.
func (r *Runner) Close() {
	r.once.Do(func() {
		close(r.quit)
	})
}
