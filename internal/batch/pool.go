package batch

import "sync"

// Pool bounds how many submitted functions run at once.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

const defaultWorkers = 4

func NewPool(size int) *Pool {
	if size <= 0 {
		size = defaultWorkers
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Go schedules fn, blocking while the pool is saturated.
func (p *Pool) Go(fn func()) {
	p.wg.Add(1)
	p.sem <- struct{}{}
	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()
		fn()
	}()
}

// Wait blocks until every scheduled function has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
