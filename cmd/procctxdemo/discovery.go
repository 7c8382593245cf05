package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go.opentelemetry.io/otel-process-ctx/procctx"
)

// newDiscoveryRouter returns a read-only chi.Router exposing this process's
// own published context over HTTP, purely as a convenience for local
// debugging. It is not how procctx is meant to be discovered in general -
// the wire contract is /proc/<pid>/maps plus the mapping's bytes - this is
// only a same-host shortcut around calling procctx.Read() directly.
func newDiscoveryRouter(logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Get("/context", handleContext(logger))

	return r
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// contextResponse is the JSON shape served at /context.
type contextResponse struct {
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

func handleContext(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := procctx.Read()

		resp := contextResponse{Success: result.Success, ErrorMessage: result.ErrorMessage}
		if result.Success {
			resp.Attributes = flattenAttributes(result.Data)
		}

		w.Header().Set("Content-Type", "application/json")
		if !result.Success {
			w.WriteHeader(http.StatusNotFound)
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Warn("failed to encode /context response", slog.Any("error", err))
		}
	}
}

func flattenAttributes(a procctx.Attributes) map[string]string {
	m := map[string]string{
		"deployment.environment.name": a.DeploymentEnvironmentName,
		"service.instance.id":         a.ServiceInstanceID,
		"service.name":                a.ServiceName,
		"service.version":             a.ServiceVersion,
		"telemetry.sdk.language":      a.TelemetrySDKLanguage,
		"telemetry.sdk.version":       a.TelemetrySDKVersion,
		"telemetry.sdk.name":          a.TelemetrySDKName,
	}
	for _, kv := range a.Resources {
		m[string(kv.Key)] = kv.Value.AsString()
	}
	return m
}
