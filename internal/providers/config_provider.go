package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"vibes/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("database.maxOpenConns", 8)
	v.SetDefault("database.busyTimeout", 5*time.Second)
	v.SetDefault("collection.cacheSize", 1024)
	v.SetDefault("cache.ttl", 60*time.Second)

	v.BindEnv("logger.level", "VIBES_LOG_LEVEL")
	v.BindEnv("catalog.path", "VIBES_CATALOG_PATH")
	v.BindEnv("database.path", "VIBES_DB_PATH")
	v.BindEnv("persistence.saveInterval", "VIBES_SAVE_INTERVAL")
	v.BindEnv("cache.enabled", "VIBES_CACHE_ENABLED")
	v.BindEnv("cache.size", "VIBES_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "VibesCollectionTracker"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
