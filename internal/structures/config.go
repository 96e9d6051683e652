package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type ProviderConfig struct {
	LiveTimeout      time.Duration `yaml:"liveTimeout" validate:"required|min:1"`
	ScraperTimeout   time.Duration `yaml:"scraperTimeout" validate:"required|min:1"`
	GeneratorTimeout time.Duration `yaml:"generatorTimeout" validate:"required|min:1"`
	ScraperAttempts  int           `yaml:"scraperAttempts"`
	ScraperRetryBase time.Duration `yaml:"scraperRetryBase"`
	ProfileURL       string        `yaml:"profileURL"`
}

type TTLConfig struct {
	Live      time.Duration `yaml:"live" validate:"required|min:1"`
	Scraper   time.Duration `yaml:"scraper" validate:"required|min:1"`
	Generator time.Duration `yaml:"generator" validate:"required|min:1"`
	Initials  time.Duration `yaml:"initials" validate:"required|min:1"`
}

type ValidationConfig struct {
	MinBytes int `yaml:"minBytes"`
	MaxBytes int `yaml:"maxBytes"`
}

type StoreConfig struct {
	MaxEntries  int           `yaml:"maxEntries"`
	MaxMemoryMB int           `yaml:"maxMemoryMB"`
	Policy      string        `yaml:"policy" validate:"in:fifo,lru"`
	SweepEvery  time.Duration `yaml:"sweepEvery"`
}

type RevalidationConfig struct {
	Interval     time.Duration `yaml:"interval" validate:"required|min:1"`
	ExpiryWindow time.Duration `yaml:"expiryWindow"`
	BatchLimit   int           `yaml:"batchLimit"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName      string
	Debug        bool
	Path         string
	WebServer    Server             `yaml:"webServer"`
	Logger       LoggerConfig       `yaml:"logger"`
	Providers    ProviderConfig     `yaml:"providers"`
	TTL          TTLConfig          `yaml:"ttl"`
	Validation   ValidationConfig   `yaml:"validation"`
	Store        StoreConfig        `yaml:"store"`
	Revalidation RevalidationConfig `yaml:"revalidation"`
	Persistence  Persistence        `yaml:"persistence"`
	Cache        CacheConfig        `yaml:"cache"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}
