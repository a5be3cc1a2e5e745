package controllers

import (
	"net/http"

	"github.com/merchantpulse/dashboard-api/api/responses"
)

// Health reports liveness. The service holds no stateful dependencies beyond
// the upstream provider, which is probed lazily per request.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
