package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CatalogConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type DatabaseConfig struct {
	Path         string        `yaml:"path" validate:"required"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
	BusyTimeout  time.Duration `yaml:"busyTimeout"`
}

type CollectionConfig struct {
	// CacheSize is the number of per-user collection stores kept in memory.
	CacheSize int `yaml:"cacheSize"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LiveConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server           `yaml:"webServer"`
	Catalog     CatalogConfig    `yaml:"catalog"`
	Database    DatabaseConfig   `yaml:"database"`
	Persistence Persistence      `yaml:"persistence"`
	Collection  CollectionConfig `yaml:"collection"`
	Logger      LoggerConfig     `yaml:"logger"`
	Cache       CacheConfig      `yaml:"cache"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Live        LiveConfig       `yaml:"live"`
}
