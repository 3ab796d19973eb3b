package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tasktracker/backend/internal/telemetry/domain"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []*domain.Event
	err    error
	done   chan struct{}
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{done: make(chan struct{}, 8)}
}

func (r *recordingEmitter) Emit(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.done <- struct{}{}
	return r.err
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestEmitAsync_NilArgs(t *testing.T) {
	EmitAsync(nil, &domain.Event{EventType: "login"}, nil)
	r := newRecordingEmitter()
	EmitAsync(r, nil, nil)
	time.Sleep(10 * time.Millisecond)
	if r.count() != 0 {
		t.Error("nil event must not be emitted")
	}
}

func TestEmitAsync_Delivers(t *testing.T) {
	r := newRecordingEmitter()
	r.err = errors.New("sink down")
	EmitAsync(r, &domain.Event{EventType: domain.EventLogin}, nil)
	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("event was not emitted")
	}
	if r.count() != 1 {
		t.Errorf("emitted %d events, want 1", r.count())
	}
}

func TestMulti_EmitsToAllAndJoinsErrors(t *testing.T) {
	a, b := newRecordingEmitter(), newRecordingEmitter()
	a.err = errors.New("a failed")
	m := Multi{a, nil, b}
	err := m.Emit(context.Background(), &domain.Event{EventType: domain.EventLogout})
	if !errors.Is(err, a.err) {
		t.Errorf("Emit error = %v, want a's error", err)
	}
	if a.count() != 1 || b.count() != 1 {
		t.Errorf("counts = %d, %d; want 1, 1", a.count(), b.count())
	}
	if err := (Multi{}).Emit(context.Background(), &domain.Event{}); err != nil {
		t.Errorf("empty Multi: %v", err)
	}
}

func TestShutdownDrainDuration(t *testing.T) {
	if ShutdownDrainDuration < emitTimeout {
		t.Errorf("ShutdownDrainDuration %v < emitTimeout %v", ShutdownDrainDuration, emitTimeout)
	}
}
