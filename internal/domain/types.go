package domain

import "github.com/rezkam/cadence/internal/calendar"

// ListRemindersParams contains pagination for listing reminders.
// Reminders are returned newest first.
type ListRemindersParams struct {
	Limit  int // Maximum number of reminders to return (page size)
	Offset int // Number of reminders to skip (for page N: offset = (N-1) * limit)
}

// PagedReminders contains reminders matching ListRemindersParams.
type PagedReminders struct {
	Reminders  []*Reminder
	TotalCount int  // Total reminders across all pages
	HasMore    bool // Whether there are more pages
}

// DueParams selects reminders whose pending occurrence is on or before Today.
// Results are keyset-paginated by ID.
type DueParams struct {
	Today   calendar.Date
	AfterID string // Empty starts from the beginning
	Limit   int
}
