// Package state holds the client-side view state of the review form, the admin statistics
// dashboard and customer administration. Each container is safe for concurrent use.
package state

import (
	"errors"
	"sync"

	"weddingshop/pkg/apiclient"

	"go.uber.org/zap"
)

// Notifier shows transient user-facing messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct{ Logger *zap.Logger }

func (n LogNotifier) Success(msg string) { n.logger().Info(msg) }
func (n LogNotifier) Error(msg string)   { n.logger().Warn(msg) }

func (n LogNotifier) logger() *zap.Logger {
	if n.Logger == nil {
		return zap.NewNop()
	}
	return n.Logger
}

type Note struct {
	OK      bool
	Message string
}

// Recorder keeps notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	Notes []Note
}

func (r *Recorder) Success(msg string) { r.add(Note{OK: true, Message: msg}) }
func (r *Recorder) Error(msg string)   { r.add(Note{Message: msg}) }

func (r *Recorder) add(n Note) {
	r.mu.Lock()
	r.Notes = append(r.Notes, n)
	r.mu.Unlock()
}

// Errors returns the messages of failed notifications.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.Notes {
		if !n.OK {
			out = append(out, n.Message)
		}
	}
	return out
}

func message(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func notifierOr(n Notifier) Notifier {
	if n == nil {
		return LogNotifier{}
	}
	return n
}
