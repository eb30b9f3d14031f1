package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	p := NewPool(4)
	defer p.Close()
	if p.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", p.Workers())
	}
	q := NewPool(-1)
	defer q.Close()
	if want := runtime.GOMAXPROCS(0); q.Workers() != want {
		t.Errorf("Workers() = %d, want GOMAXPROCS %d", q.Workers(), want)
	}
}

func TestRun(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	var n atomic.Int64
	jobs := make([]func(), 200)
	for i := range jobs {
		jobs[i] = func() { n.Add(1) }
	}
	p.Run(jobs)
	if got := n.Load(); got != 200 {
		t.Errorf("ran %d jobs, want 200", got)
	}
	p.Run(nil)
}

func TestRunUneven(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	// One slow job on worker 0; the rest must still finish through
	// stealing.
	var n atomic.Int64
	jobs := []func(){func() { time.Sleep(20 * time.Millisecond); n.Add(1) }}
	for range 20 {
		jobs = append(jobs, func() { n.Add(1) })
	}
	p.Run(jobs)
	if got := n.Load(); got != 21 {
		t.Errorf("ran %d jobs, want 21", got)
	}
}

func TestMapOrder(t *testing.T) {
	p := NewPool(4)
	defer p.Close()
	in := make([]int, 100)
	for i := range in {
		in[i] = i
	}
	out := Map(p, in, func(v int) int { return v * v })
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestRunAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()
	var n atomic.Int64
	p.Run([]func(){func() { n.Add(1) }, func() { n.Add(1) }})
	if got := n.Load(); got != 2 {
		t.Errorf("ran %d jobs after Close, want 2", got)
	}
}

func TestRunRacingClose(t *testing.T) {
	for range 50 {
		p := NewPool(2)
		var n atomic.Int64
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			for range 20 {
				jobs := make([]func(), 16)
				for i := range jobs {
					jobs[i] = func() { n.Add(1) }
				}
				p.Run(jobs)
			}
		}()
		p.Close()
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after Close")
		}
		if got := n.Load(); got != 20*16 {
			t.Fatalf("ran %d jobs, want %d", got, 20*16)
		}
	}
}
