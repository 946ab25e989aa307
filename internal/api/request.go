package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pageParams reads page and limit query parameters with sane bounds.
func pageParams(r *http.Request) (page, limit int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	limit = defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit
}

func titleKind(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}
