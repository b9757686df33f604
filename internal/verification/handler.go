// Package verification serves the IndexNow key file that proves domain
// ownership to search engines.
package verification

import (
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/OrlandoBitencourt/indexnow/internal/telemetry"
)

const (
	// PathParam is the wildcard name used by Route
	PathParam = "key_file_name"

	// Route is the net/http ServeMux pattern for the key file
	Route = "GET /{" + PathParam + "}"
)

// keyFilePattern restricts requests to plain token names with a .txt
// suffix so the handler never answers for arbitrary paths.
var keyFilePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.txt$`)

// ValidKeyFileName reports whether name is an acceptable key file name
func ValidKeyFileName(name string) bool {
	return keyFilePattern.MatchString(name)
}

// Logger receives configuration failures
type Logger interface {
	Error(msg string)
}

// Settings is the configuration snapshot a request is answered from
type Settings struct {
	APIKey      string
	KeyFileName string

	// Missing lists required fields that are unset; empty means the
	// endpoint is servable
	Missing []string

	Logger Logger
}

// Source provides the current settings
type Source interface {
	Settings() Settings
}

// Handler answers key file requests
type Handler struct {
	source    Source
	telemetry telemetry.Provider
}

// NewHandler creates a new key file handler
func NewHandler(source Source, provider telemetry.Provider) *Handler {
	if provider == nil {
		provider = telemetry.NewNoOp()
	}
	return &Handler{
		source:    source,
		telemetry: provider,
	}
}

// Mount registers h on mux under Route
func Mount(mux *http.ServeMux, h http.Handler) {
	mux.Handle(Route, h)
}

// ServeHTTP implements http.Handler. The file name comes from the
// ServeMux wildcard when present, otherwise from the last path segment,
// which keeps the handler usable behind other routers.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue(PathParam)
	if name == "" {
		name = path.Base(r.URL.Path)
	}

	status := h.serve(w, name)
	h.telemetry.RecordVerification(r.Context(), status)
}

func (h *Handler) serve(w http.ResponseWriter, name string) int {
	if !ValidKeyFileName(name) {
		w.WriteHeader(http.StatusNotFound)
		return http.StatusNotFound
	}

	settings := h.source.Settings()

	if len(settings.Missing) > 0 {
		msg := "IndexNow configuration invalid: missing " + strings.Join(settings.Missing, ", ")
		if settings.Logger != nil {
			settings.Logger.Error("[IndexNow] " + msg)
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, msg)
		return http.StatusInternalServerError
	}

	if name != settings.KeyFileName {
		w.WriteHeader(http.StatusNotFound)
		return http.StatusNotFound
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, settings.APIKey)
	return http.StatusOK
}
