package test

import (
	"context"
	"sync"
	"time"

	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"
)

type HTTPOperation struct {
	Method     string
	Path       string
	StatusCode int
}

type RecordedError struct {
	Operation string
	Err       error
}

// RecordingProbe is a no-op probe that remembers HTTP operations and errors.
type RecordingProbe struct {
	port.Telemetry

	mu     sync.Mutex
	http   []HTTPOperation
	errors []RecordedError
}

func NewRecordingProbe() *RecordingProbe {
	return &RecordingProbe{Telemetry: telemetry.NewNoOpProbe()}
}

func (p *RecordingProbe) RecordHTTPOperation(ctx context.Context, method string, path string, statusCode int, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.http = append(p.http, HTTPOperation{Method: method, Path: path, StatusCode: statusCode})
}

func (p *RecordingProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, RecordedError{Operation: operation, Err: err})
}

func (p *RecordingProbe) HTTPOperations() []HTTPOperation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]HTTPOperation(nil), p.http...)
}

func (p *RecordingProbe) Errors() []RecordedError {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RecordedError(nil), p.errors...)
}
