package fakes

import (
	"context"
	"errors"
	"sync"

	"github.com/dhima/bookshelf-api/internal/models"
)

// FakePublisher captures published book events and can simulate failures.
type FakePublisher struct {
	mu        sync.Mutex
	Events    []models.BookEvent
	FailNext  bool
	FailError error
	Closed    bool
}

func (p *FakePublisher) Publish(_ context.Context, e models.BookEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext {
		p.FailNext = false
		if p.FailError == nil {
			p.FailError = errors.New("publish failed")
		}
		return p.FailError
	}
	p.Events = append(p.Events, e)
	return nil
}

func (p *FakePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Published returns a copy of the events captured so far.
func (p *FakePublisher) Published() []models.BookEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.BookEvent, len(p.Events))
	copy(out, p.Events)
	return out
}
