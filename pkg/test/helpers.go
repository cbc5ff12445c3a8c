package test

import (
	"time"

	"todoref/internal/adapter/database/memory"
	"todoref/internal/core/service"
	"todoref/internal/core/telemetry"
)

// FixedNow is the clock used by stores built with NewTestStore.
var FixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// NewTestStore returns a store seeded with the two sample todos and a fixed
// clock.
func NewTestStore() *memory.TodoStore {
	return memory.NewTodoStore(
		memory.WithSeed(memory.DefaultSeed()...),
		memory.WithClock(func() time.Time { return FixedNow }),
	)
}

func NewTestService(store *memory.TodoStore) *service.TodoService {
	return service.NewTodoService(store, telemetry.NewNoOpProbe(), nil)
}
