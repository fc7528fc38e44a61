package sqlite

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezkam/cadence/internal/domain"
)

func TestWrapErr_PassesThroughOrdinaryErrors(t *testing.T) {
	assert.NoError(t, wrapErr(nil))

	plain := errors.New("constraint failed")
	err := wrapErr(plain)
	assert.Same(t, plain, err)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		name   string
		dsn    string
		prefix string
	}{
		{name: "plain path", dsn: "/var/lib/cadence.db", prefix: "/var/lib/cadence.db?_pragma="},
		{name: "existing query", dsn: "file:cadence.db?mode=rwc", prefix: "file:cadence.db?mode=rwc&_pragma="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withPragmas(tt.dsn)
			assert.True(t, strings.HasPrefix(got, tt.prefix), got)
			assert.Contains(t, got, "foreign_keys%281%29")
			assert.Contains(t, got, "busy_timeout%285000%29")
		})
	}
}
