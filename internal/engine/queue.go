package engine

import (
	"sync/atomic"

	"github.com/cbegin/keysynth-go/internal/pitch"
)

// Op identifies an engine command.
type Op uint8

const (
	OpNone Op = iota
	OpNoteOn
	OpNoteOff
	OpOctaveUp
	OpOctaveDown
	OpCycleWaveform
	OpToggleFilter
	OpAdjustCutoff
	OpAdjustResonance
	OpAllNotesOff
)

// Command is one state mutation handed from the input path to the audio path.
type Command struct {
	Op    Op
	Note  pitch.Note
	Delta float64
}

// Queue is a bounded single-producer/single-consumer ring of commands.
// Push and Pop never block; the producer and consumer may run on different
// goroutines without further synchronization.
type Queue struct {
	buf  []Command
	mask uint64
	head atomic.Uint64 // next slot to read, owned by the consumer
	tail atomic.Uint64 // next slot to write, owned by the producer
}

// MaxQueueCapacity bounds the ring size.
const MaxQueueCapacity = 1 << 16

// NewQueue returns a queue holding at least capacity commands, rounded up to
// a power of two and limited to MaxQueueCapacity.
func NewQueue(capacity int) *Queue {
	capacity = min(capacity, MaxQueueCapacity)
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Queue{
		buf:  make([]Command, size),
		mask: uint64(size - 1),
	}
}

// Push appends c. It returns false when the ring is full.
func (q *Queue) Push(c Command) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() >= uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = c
	q.tail.Store(tail + 1)
	return true
}

// Pop removes the oldest command. ok is false when the ring is empty.
func (q *Queue) Pop() (c Command, ok bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Command{}, false
	}
	c = q.buf[head&q.mask]
	q.head.Store(head + 1)
	return c, true
}

func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

func (q *Queue) Cap() int {
	return len(q.buf)
}
