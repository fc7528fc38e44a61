package domain

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/recurring"
)

func TestReminder_DueOn(t *testing.T) {
	pending := calendar.MustNew(2024, time.May, 10)
	r := &Reminder{Progress: recurring.Progress{LastOccurrence: mo.Some(pending), Count: 1}}

	assert.False(t, r.DueOn(pending.AddDays(-1)))
	assert.True(t, r.DueOn(pending))
	assert.True(t, r.DueOn(pending.AddDays(30)))

	r.Progress.Done = true
	assert.False(t, r.DueOn(pending.AddDays(30)))
	assert.True(t, r.Pending().IsAbsent())
}

func TestReminder_Etag(t *testing.T) {
	r := &Reminder{Version: 42}
	assert.Equal(t, "42", r.Etag())
}
