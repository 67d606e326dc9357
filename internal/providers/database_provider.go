package providers

import (
	"vibes/internal/storage"
	"vibes/internal/structures"
)

// NewDatabaseProvider opens and migrates the database. The returned cleanup closes it.
func NewDatabaseProvider(conf *structures.Config, logger Logger) (*storage.DB, func(), error) {
	cfg := storage.DefaultConfig(conf.Database.Path)
	if conf.Database.MaxOpenConns > 0 {
		cfg.MaxOpenConns = conf.Database.MaxOpenConns
	}
	if conf.Database.BusyTimeout > 0 {
		cfg.BusyTimeout = conf.Database.BusyTimeout
	}

	db, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof(TypeApp, "Database ready at %s", conf.Database.Path)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Errorf(TypeApp, "Error closing database: %s", err)
		}
	}
	return db, cleanup, nil
}
