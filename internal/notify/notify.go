package notify

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

const DefaultCapacity = 50

type Notice struct {
	Level     Level     `json:"level"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Queue holds one-shot notices until they are drained. When full, the
// oldest notice is dropped.
type Queue struct {
	mu      sync.Mutex
	cap     int
	notices []Notice
	now     func() time.Time
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{cap: capacity, now: time.Now}
}

func (q *Queue) Push(level Level, title, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.notices) == q.cap {
		q.notices = q.notices[1:]
	}
	q.notices = append(q.notices, Notice{Level: level, Title: title, Message: message, CreatedAt: q.now()})
}

func (q *Queue) Success(message string) { q.Push(LevelSuccess, "Success", message) }

func (q *Queue) Error(title, message string) { q.Push(LevelError, title, message) }

// Drain returns the queued notices oldest first and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.notices
	if out == nil {
		out = []Notice{}
	}
	q.notices = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notices)
}
