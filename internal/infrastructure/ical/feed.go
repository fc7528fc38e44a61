// Package ical renders upcoming reminder occurrences as an iCalendar feed.
package ical

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
)

// ProductID identifies the feed producer in PRODID.
const ProductID = "-//cadence//Reminder Feed//EN"

// ContentType is the media type of an encoded feed.
const ContentType = "text/calendar; charset=utf-8"

// NewFeed builds a calendar with one all-day event per date. stamp is used
// for DTSTAMP on every event.
func NewFeed(r *domain.Reminder, dates []calendar.Date, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropName, r.Title)

	for _, d := range dates {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, eventUID(r.ID, d))
		event.Props.SetText(ical.PropSummary, r.Title)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDate(ical.PropDateTimeStart, d.Time())
		event.Props.SetDate(ical.PropDateTimeEnd, d.AddDays(1).Time())
		cal.Children = append(cal.Children, event.Component)
	}
	return cal
}

// Write encodes the feed for r to w.
func Write(w io.Writer, r *domain.Reminder, dates []calendar.Date, stamp time.Time) error {
	if err := ical.NewEncoder(w).Encode(NewFeed(r, dates, stamp)); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// eventUID is stable per occurrence so clients update events in place.
func eventUID(reminderID string, d calendar.Date) string {
	return fmt.Sprintf("%s-%s@cadence", reminderID, d.Time().Format("20060102"))
}
