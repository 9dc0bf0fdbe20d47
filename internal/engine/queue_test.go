package engine

import (
	"math"
	"sync"
	"testing"

	"github.com/cbegin/keysynth-go/internal/pitch"
)

func TestQueueRoundsCapacityUp(t *testing.T) {
	if got := NewQueue(5).Cap(); got != 8 {
		t.Fatalf("cap = %d, want 8", got)
	}
	if got := NewQueue(0).Cap(); got != 1 {
		t.Fatalf("cap = %d, want 1", got)
	}
	if got := NewQueue(math.MaxInt).Cap(); got != MaxQueueCapacity {
		t.Fatalf("cap = %d, want %d", got, MaxQueueCapacity)
	}
}

func TestQueueFIFOAndFull(t *testing.T) {
	q := NewQueue(4)
	for i := 0; i < 4; i++ {
		if !q.Push(Command{Op: OpNoteOn, Note: pitch.Note(i)}) {
			t.Fatalf("push %d rejected", i)
		}
	}
	if q.Push(Command{Op: OpNoteOff}) {
		t.Fatal("push into full queue accepted")
	}
	if q.Len() != 4 {
		t.Fatalf("len = %d, want 4", q.Len())
	}
	for i := 0; i < 4; i++ {
		c, ok := q.Pop()
		if !ok || c.Note != pitch.Note(i) {
			t.Fatalf("pop %d = %+v, %v", i, c, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop from empty queue succeeded")
	}
}

func TestQueueConcurrentProducerConsumer(t *testing.T) {
	const total = 100000
	q := NewQueue(64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if q.Push(Command{Op: OpAdjustCutoff, Delta: float64(i)}) {
				i++
			}
		}
	}()
	next := 0
	for next < total {
		c, ok := q.Pop()
		if !ok {
			continue
		}
		if c.Delta != float64(next) {
			t.Fatalf("got delta %f, want %d", c.Delta, next)
		}
		next++
	}
	wg.Wait()
}

func BenchmarkEngineProcess(b *testing.B) {
	e := New(48000, DefaultParams())
	e.ToggleFilter()
	for n := pitch.C; n <= pitch.B; n++ {
		e.NoteOn(n)
	}
	buf := make([]float32, 512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Process(buf)
	}
}
