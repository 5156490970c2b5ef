package api

import "net/http"

// Healthcheck handles GET /api/healthcheck.
func Healthcheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
