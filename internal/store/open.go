package store

import (
	"fmt"

	"github.com/moementrabelsi/mma/internal/metrics"
	"github.com/moementrabelsi/mma/pkg/config"
	"github.com/moementrabelsi/mma/pkg/database"
	"go.uber.org/zap"
)

// Open builds the store selected by DATA_SOURCE.
// With DATA_FALLBACK_TO_FIXTURES a relational store is wrapped by WithFallback, and a
// database that cannot be reached at startup degrades to the fixture store.
func Open(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (Store, error) {
	switch cfg.Data.Source {
	case config.SourceMemory:
		log.Info("Using in-memory fixture data source")
		return NewFixtureStore(), nil

	case config.SourceFile:
		s, err := NewFileStore(cfg.Data.Dir, m)
		if err != nil {
			return nil, err
		}
		log.Info("Using JSON file data source", zap.String("data_dir", cfg.Data.Dir))
		return s, nil

	case config.SourcePostgres, config.SourceSQLite:
		db, err := database.InitDB(cfg, log)
		if err != nil {
			if cfg.Data.FallbackToFixtures {
				log.Warn("Database unavailable, serving read-only fixtures", zap.Error(err))
				return NewFixtureStore(), nil
			}
			return nil, err
		}
		s := NewGormStore(db, m)
		if cfg.Data.FallbackToFixtures {
			return WithFallback(s, NewFixtureStore(), m, log), nil
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
