package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"

	"github.com/rezkam/cadence/internal/calendar"
)

func TestDateConversion(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		d := calendar.MustNew(2024, time.February, 29)

		pg := dateToPgtype(d)

		assert.True(t, pg.Valid)
		assert.Equal(t, d, pgtypeToDate(pg).MustGet())
	})

	t.Run("none is stored as NULL", func(t *testing.T) {
		pg := optionalDateToPgtype(mo.None[calendar.Date]())

		assert.False(t, pg.Valid)
		assert.True(t, pgtypeToDate(pg).IsAbsent())
	})

	t.Run("scanned dates ignore the driver's location", func(t *testing.T) {
		// pgx may hand back a date in a non-UTC location; the calendar day must not shift.
		tokyo := time.FixedZone("JST", 9*60*60)
		pg := pgtype.Date{Time: time.Date(2024, time.May, 16, 0, 0, 0, 0, tokyo), Valid: true}

		assert.Equal(t, calendar.MustNew(2024, time.May, 16), pgtypeToDate(pg).MustGet())
	})
}

func TestTimestampConversion(t *testing.T) {
	stockholm := time.FixedZone("CET", 60*60)
	ts := time.Date(2024, time.May, 16, 10, 0, 0, 0, stockholm)

	got := pgtypeToTime(timeToPgtype(ts))

	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, ts.Equal(got))
	assert.True(t, pgtypeToTime(pgtype.Timestamptz{}).IsZero())
}
