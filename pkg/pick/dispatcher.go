package pick

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDispatcherClosed is returned by Invoke after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

type call struct {
	fn   func()
	done chan error
}

// Dispatcher runs closures on a single owner goroutine. Everything that
// touches the geometry an Executor holds goes through Invoke, so the
// executor itself needs no locks.
type Dispatcher struct {
	calls chan call
	quit  chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher starts the owner goroutine.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		calls: make(chan call),
		quit:  make(chan struct{}),
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for {
		select {
		case c := <-d.calls:
			c.done <- run(c.fn)
		case <-d.quit:
			return
		}
	}
}

// run calls fn, converting a panic into an error.
func run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic on owner goroutine: %v", r)
		}
	}()
	fn()
	return nil
}

// Invoke runs fn on the owner goroutine and waits for it to return.
// Calls from several goroutines are serialized. Invoke must not be called
// from inside fn.
func (d *Dispatcher) Invoke(fn func()) error {
	c := call{fn: fn, done: make(chan error, 1)}
	select {
	case d.calls <- c:
	case <-d.quit:
		return ErrDispatcherClosed
	}
	return <-c.done
}

// Close stops the owner goroutine after any running call completes.
// It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.quit) })
	d.wg.Wait()
}
