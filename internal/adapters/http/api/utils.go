package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/peloton/internal/adapters/repository"
)

// dataset fetches the served dataset or writes the matching error response.
func dataset(w http.ResponseWriter, r *http.Request, deps Dependencies, op string) (*repository.Dataset, bool) {
	d, err := deps.Current(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "not_loaded", WrapKind(op, ErrUnavailable, err))
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return nil, false
	}
	return d, true
}

// parseLimit reads ?limit=N. A missing limit means maxLimit.
func parseLimit(r *http.Request, maxLimit int, op string) (int, string, error) {
	limitStr := strings.TrimSpace(r.URL.Query().Get("limit"))
	if limitStr == "" {
		return maxLimit, "", nil
	}
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		return 0, "bad_request", NewKind(op, ErrBadRequest)
	}
	if n > maxLimit {
		return 0, "limit_exceeded", NewKind(op, ErrBadRequest)
	}
	return n, "", nil
}

// pathParam returns the single path segment after prefix.
func pathParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
