// Package notice is the user-visible feedback surface. Every failure caught
// at a form or load boundary ends up here as a notice instead of propagating.
package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// DefaultCapacity bounds how many undrained notices are kept.
const DefaultCapacity = 50

// Notice is one toast shown by the shell.
type Notice struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed queues notices until the shell drains them. When full, the oldest
// notice is dropped.
type Feed struct {
	mu       sync.Mutex
	items    []Notice
	shown    map[string]struct{}
	capacity int
	logger   *zap.Logger
}

// NewFeed creates a feed holding at most capacity notices.
func NewFeed(capacity int, logger *zap.Logger) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		shown:    make(map[string]struct{}),
		capacity: capacity,
		logger:   logger,
	}
}

func (f *Feed) Success(msg string) { f.Post(LevelSuccess, msg) }
func (f *Feed) Info(msg string)    { f.Post(LevelInfo, msg) }
func (f *Feed) Warn(msg string)    { f.Post(LevelWarn, msg) }
func (f *Feed) Error(msg string)   { f.Post(LevelError, msg) }

// Post appends a notice.
func (f *Feed) Post(level Level, msg string) Notice {
	n := Notice{
		ID:      uuid.New().String(),
		Level:   level,
		Message: msg,
		At:      time.Now().UTC(),
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append([]Notice(nil), f.items[over:]...)
	}
	f.mu.Unlock()

	f.logger.Debug("notice posted",
		zap.String("level", string(level)),
		zap.String("message", msg),
	)
	return n
}

// Once posts msg only the first time key is seen during the process lifetime.
// It reports whether the notice was posted.
func (f *Feed) Once(key string, level Level, msg string) bool {
	f.mu.Lock()
	if _, seen := f.shown[key]; seen {
		f.mu.Unlock()
		return false
	}
	f.shown[key] = struct{}{}
	f.mu.Unlock()

	f.Post(level, msg)
	return true
}

// List returns the pending notices without removing them.
func (f *Feed) List() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notice, len(f.items))
	copy(out, f.items)
	return out
}

// Drain returns the pending notices, oldest first, and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
