package indexnow

import (
	"net/http"

	"github.com/OrlandoBitencourt/indexnow/internal/telemetry"
	"github.com/OrlandoBitencourt/indexnow/internal/verification"
)

// VerificationRoute is the net/http ServeMux pattern for the key file.
const VerificationRoute = verification.Route

// ValidKeyFileName reports whether name can be served as a key file:
// letters, digits, '-' and '_' followed by ".txt".
func ValidKeyFileName(name string) bool {
	return verification.ValidKeyFileName(name)
}

// NewVerificationHandler returns a handler answering key file requests
// from cfg. A nil cfg uses the process-wide Configuration() at request
// time, so ResetConfiguration and Configure take effect immediately.
//
// Responses: 200 with the API key as text/plain when the requested name
// equals cfg.KeyFileName, 404 for any other name, 500 when the API key
// or key file name is missing.
func NewVerificationHandler(cfg *Config) http.Handler {
	return verification.NewHandler(configSource{cfg: cfg}, telemetry.NewNoOp())
}

// VerificationHandler is NewVerificationHandler with the client's
// configuration and telemetry.
func (c *Client) VerificationHandler() http.Handler {
	return verification.NewHandler(configSource{cfg: c.config}, c.telemetry)
}

// MountVerification registers the key file handler for cfg on mux.
//
// Example:
//
//	mux := http.NewServeMux()
//	indexnow.MountVerification(mux, indexnow.ConfigFromEnv())
func MountVerification(mux *http.ServeMux, cfg *Config) {
	verification.Mount(mux, NewVerificationHandler(cfg))
}

// configSource adapts *Config to verification.Source
type configSource struct {
	cfg *Config
}

func (s configSource) Settings() verification.Settings {
	cfg := s.cfg
	if cfg == nil {
		cfg = Configuration()
	}

	settings := verification.Settings{
		APIKey:      cfg.APIKey,
		KeyFileName: cfg.KeyFileName,
		Missing:     cfg.MissingFields(),
	}
	if cfg.Logger != nil {
		settings.Logger = cfg.Logger
	}
	return settings
}
