package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type TimerConfig struct {
	StatePath    string        `yaml:"statePath" validate:"required|unixPath"`
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"required|min:1"`
}

type JournalConfig struct {
	FilePath      string        `yaml:"filePath" validate:"required|unixPath"`
	FlushInterval time.Duration `yaml:"flushInterval" validate:"required|min:1"`
	MaxEvents     int           `yaml:"maxEvents"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
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
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Backend   BackendConfig `yaml:"backend"`
	Timer     TimerConfig   `yaml:"timer"`
	Journal   JournalConfig `yaml:"journal"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
