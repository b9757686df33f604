package indexnow

import (
	"os"
	"strconv"
	"sync"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIKey      = "INDEXNOW_API_KEY"
	EnvHost        = "INDEXNOW_HOST"
	EnvKeyFileName = "INDEXNOW_KEY_FILE_NAME"
	EnvDisabled    = "INDEXNOW_DISABLED"
)

// Config holds everything the client and the verification endpoint need.
// Empty strings mean "unset". Nothing is validated when fields are set;
// Valid and EngineValid are checked at use time.
type Config struct {
	// APIKey is the IndexNow key. Submissions require it.
	APIKey string

	// Host overrides the host otherwise taken from the first submitted URL.
	Host string

	// KeyFileName is the file served for ownership verification,
	// conventionally "<APIKey>.txt".
	KeyFileName string

	// Disabled turns Submit into a no-op.
	Disabled bool

	// Logger receives info and error messages. Nil disables logging.
	Logger Logger
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Logger: DefaultLogger(),
	}
}

// ConfigFromEnv builds a configuration from INDEXNOW_* variables. When
// no key file name is given it defaults to "<api key>.txt".
func ConfigFromEnv() *Config {
	cfg := NewConfig()
	cfg.APIKey = os.Getenv(EnvAPIKey)
	cfg.Host = os.Getenv(EnvHost)
	cfg.KeyFileName = os.Getenv(EnvKeyFileName)

	if cfg.KeyFileName == "" && cfg.APIKey != "" {
		cfg.KeyFileName = DefaultKeyFileName(cfg.APIKey)
	}

	if v := os.Getenv(EnvDisabled); v != "" {
		disabled, err := strconv.ParseBool(v)
		cfg.Disabled = err == nil && disabled
	}

	return cfg
}

// DefaultKeyFileName returns the conventional key file name for apiKey.
func DefaultKeyFileName(apiKey string) string {
	return apiKey + ".txt"
}

// Valid reports whether submissions can be made.
func (c *Config) Valid() bool {
	return c.APIKey != ""
}

// EngineValid reports whether the verification endpoint can be served.
// It is stricter than Valid.
func (c *Config) EngineValid() bool {
	return c.Valid() && c.KeyFileName != ""
}

// MissingFields lists the fields EngineValid requires but are unset.
func (c *Config) MissingFields() []string {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.KeyFileName == "" {
		missing = append(missing, "key_file_name")
	}
	return missing
}

func (c *Config) logInfo(msg string) {
	if c.Logger != nil {
		c.Logger.Info(logPrefix + msg)
	}
}

func (c *Config) logError(msg string) {
	if c.Logger != nil {
		c.Logger.Error(logPrefix + msg)
	}
}

// Process-wide configuration. Prefer passing a *Config to New; these
// helpers exist for applications that configure once at startup.
var (
	globalMu     sync.RWMutex
	globalConfig *Config
	globalQueue  Queue
)

// Configuration returns the process-wide configuration, creating it on
// first access.
func Configuration() *Config {
	globalMu.RLock()
	cfg := globalConfig
	globalMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		globalConfig = NewConfig()
	}
	return globalConfig
}

// Configure runs fn against the live process-wide configuration. It is
// meant for startup; fields are not guarded against concurrent Submit calls.
func Configure(fn func(*Config)) {
	fn(Configuration())
}

// ResetConfiguration discards the process-wide configuration and queue.
// The old instance is left untouched; the next Configuration call
// returns a fresh default.
func ResetConfiguration() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	globalQueue = nil
}

// UseQueue sets the job queue used by the package-level SubmitAsync.
func UseQueue(q Queue) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalQueue = q
}

func defaultQueue() Queue {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalQueue
}
