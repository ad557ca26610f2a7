package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fleetrental-backend/internal/domain"
)

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}

// parseDate accepts a full RFC 3339 timestamp or a bare date.
func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "is required"}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, &domain.ValidationError{Field: field, Reason: "must be RFC 3339 or YYYY-MM-DD"}
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	return parseDate(name, r.URL.Query().Get(name))
}

// queryID parses an optional numeric query filter; zero means unset.
func queryID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func queryPagination(r *http.Request) (page, pageSize int32) {
	q := r.URL.Query()
	if v, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("page_size"), 10, 32); err == nil {
		pageSize = int32(v)
	}
	return page, pageSize
}
