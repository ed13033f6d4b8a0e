package eventloop

import (
	"container/heap"
	"time"
)

// timer is a pending callback ordered by due time, then by creation order.
type timer struct {
	loop  *Loop
	due   time.Time
	seq   uint64
	fn    func()
	index int // Position in the heap, -1 once fired or stopped
}

// Stop cancels the timer. It returns false if the callback already ran.
func (t *timer) Stop() bool {
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.index < 0 {
		return false
	}
	l.timers.remove(t.index)
	return true
}

// timerHeap implements heap.Interface.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

func (h *timerHeap) remove(i int) {
	heap.Remove(h, i)
}
