package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ctd/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{Host: "127.0.0.1", Port: 8931},
		Backend: structures.BackendConfig{
			BaseURL: "http://localhost:9000",
			Timeout: 5 * time.Second,
		},
		Timer: structures.TimerConfig{
			StatePath:    "/var/lib/ctd/timer.json",
			FetchTimeout: 5 * time.Second,
		},
		Journal: structures.JournalConfig{
			FilePath:      "/var/lib/ctd/journal.dat",
			FlushInterval: time.Minute,
			MaxEvents:     10000,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/var/log/ctd",
		},
	}
}

func TestCnfValidator_ValidConfig(t *testing.T) {
	assert.NoError(t, NewCnfValidator(validConfig()).Validate())
}

func TestCnfValidator_MissingBackendURL(t *testing.T) {
	conf := validConfig()
	conf.Backend.BaseURL = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadLogLevel(t *testing.T) {
	conf := validConfig()
	conf.Logger.Level = "loud"
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_BadStatePath(t *testing.T) {
	conf := validConfig()
	conf.Timer.StatePath = "not a path"
	assert.Error(t, NewCnfValidator(conf).Validate())
}
