package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

// queryInt reads a non-negative integer query parameter, returning 0 when
// it is absent. The service layer applies configured defaults and limits.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

// nextOffset returns the offset of the following page, or nil on the last page.
func nextOffset(offset, count int, hasMore bool) *int {
	if !hasMore {
		return nil
	}
	next := offset + count
	return &next
}
