package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"jokes-api/internal/model"
	"jokes-api/pkg/apierror"
)

// Timeout bounds handler time for the JSON API. At the deadline the handler's
// context is cancelled, which aborts in-flight store queries and upstream
// fetches, and the client gets a 503 envelope coded REQUEST_TIMEOUT.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	body := timeoutBody()

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, body)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// TimeoutHandler replaces these headers with the handler's own on
			// success, so this only survives on the timeout path.
			w.Header().Set("Content-Type", "application/json")
			bounded.ServeHTTP(w, r)
		})
	}
}

func timeoutBody() string {
	body, err := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    apierror.CodeRequestTimeout,
			Message: "request timed out",
		},
	})
	if err != nil {
		return `{"success":false}`
	}
	return string(body)
}
