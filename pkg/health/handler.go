package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the aggregated check result as JSON. A failing check
// yields 503 so load balancers can take the instance out of rotation.
func Handler(registry *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := registry.Check(r.Context())

		status := http.StatusOK
		if !result.IsHealthy() {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	})
}
