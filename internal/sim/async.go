package sim

import (
	"context"
	"sync"
)

type transfer struct {
	ctx context.Context
	fb  *FrameBuffer
}

// AsyncPresenter runs a slow transport on its own goroutine, like a DMA
// transfer. Present returns as soon as the transfer is queued, after waiting
// for the previous one to finish. With a FramePair this keeps the transport
// off the buffer being written: by the time a slot comes back as the back
// buffer its transfer has completed.
//
// An error from a transfer is returned by the Present or Wait call that
// collects it.
type AsyncPresenter struct {
	next Presenter
	jobs chan transfer
	done chan error
	busy bool
	wg   sync.WaitGroup
}

func NewAsyncPresenter(next Presenter) *AsyncPresenter {
	a := &AsyncPresenter{
		next: next,
		jobs: make(chan transfer),
		done: make(chan error, 1),
	}
	a.wg.Add(1)
	go a.loop()
	return a
}

func (a *AsyncPresenter) loop() {
	defer a.wg.Done()
	for t := range a.jobs {
		a.done <- a.next.Present(t.ctx, t.fb)
	}
}

func (a *AsyncPresenter) Present(ctx context.Context, fb *FrameBuffer) error {
	if err := a.Wait(ctx); err != nil {
		return err
	}
	select {
	case a.jobs <- transfer{ctx: ctx, fb: fb}:
		a.busy = true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until the in-flight transfer, if any, has finished.
func (a *AsyncPresenter) Wait(ctx context.Context) error {
	if !a.busy {
		return nil
	}
	select {
	case err := <-a.done:
		a.busy = false
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for the last transfer and stops the transport goroutine.
func (a *AsyncPresenter) Close() error {
	var err error
	if a.busy {
		err = <-a.done
		a.busy = false
	}
	close(a.jobs)
	a.wg.Wait()
	return err
}
