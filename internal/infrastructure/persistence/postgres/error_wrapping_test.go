package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cadence/internal/domain"
)

// TestParseID verifies that malformed IDs keep both the domain error and the
// parse error in the chain.
func TestParseID(t *testing.T) {
	_, parseErr := uuid.Parse("invalid-uuid")
	require.Error(t, parseErr)

	_, err := parseID("invalid-uuid")

	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.ErrorIs(t, err, parseErr,
		"the uuid error should stay in the chain for debugging")

	id := uuid.Must(uuid.NewV7())
	got, err := parseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"check violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23514"}), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapErr(tt.err)

			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.transient, errors.Is(got, domain.ErrUnavailable))
		})
	}

	assert.NoError(t, wrapErr(nil))
}
