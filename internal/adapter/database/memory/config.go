package memory

import (
	"todoref/pkg/config"

	"github.com/google/uuid"
)

// NewTodoStoreFromConfig applies ID_STRATEGY and SEED_ENABLED.
func NewTodoStoreFromConfig(appConfig *config.AppConfig, opts ...Option) *TodoStore {
	var options []Option

	if appConfig.IDStrategy == config.IDStrategyUUID {
		options = append(options, WithIDGenerator(uuid.NewString))
	}

	if appConfig.SeedEnabled {
		options = append(options, WithSeed(DefaultSeed()...))
	}

	return NewTodoStore(append(options, opts...)...)
}
