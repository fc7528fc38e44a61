// Package handler adapts HTTP requests to reminder service calls.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/cadence/internal/application/reminder"
)

// ReminderHandler serves the reminder and rule endpoints.
type ReminderHandler struct {
	service *reminder.Service
}

// NewReminderHandler creates a new HTTP API handler.
func NewReminderHandler(service *reminder.Service) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// NewRouter mounts every API route on a fresh router. Production code and
// tests share it so both see identical routing.
func NewRouter(service *reminder.Service) http.Handler {
	h := NewReminderHandler(service)
	r := chi.NewRouter()

	r.Route("/v1/reminders", func(r chi.Router) {
		r.Post("/", h.CreateReminder)
		r.Get("/", h.ListReminders)

		r.Route("/{reminder_id}", func(r chi.Router) {
			r.Get("/", h.GetReminder)
			r.Patch("/", h.UpdateReminder)
			r.Delete("/", h.DeleteReminder)
			r.Get("/firings", h.ListFirings)
			r.Post("/advance", h.AdvanceReminder)
			r.Get("/preview", h.PreviewReminder)
			r.Get("/calendar.ics", h.ReminderCalendar)
		})
	})

	r.Route("/v1/rules", func(r chi.Router) {
		r.Post("/validate", h.ValidateRule)
		r.Post("/repair", h.RepairRule)
		r.Post("/next", h.NextOccurrence)
		r.Post("/preview", h.PreviewRule)
	})

	return r
}
