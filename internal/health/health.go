// Package health serves the liveness and readiness probes.
package health

import (
	"encoding/json"
	"net/http"
)

// Check reports one readiness condition. A non-nil error marks the service
// not ready and is surfaced in the probe response.
type Check func() error

// Healthz is the liveness probe: the process is up and serving requests.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readyz builds the readiness probe from the given checks. Checks run in
// order on every probe; the first failure short-circuits with a 503.
func Readyz(checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for _, check := range checks {
			if err := check(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}
