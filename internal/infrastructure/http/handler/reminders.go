package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
	"github.com/rezkam/cadence/internal/infrastructure/ical"
)

// CreateReminder handles POST /v1/reminders.
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}
	if req.Rule == nil {
		response.ValidationError(w, "rule", "required field missing")
		return
	}

	in := reminder.CreateReminderInput{
		Title:  req.Title,
		Rule:   *req.Rule,
		Repair: req.Repair,
	}
	if req.StartDate != "" {
		start, ok := parseDate(w, "start_date", req.StartDate)
		if !ok {
			return
		}
		in.StartDate = &start
	}

	created, err := h.service.CreateReminder(r.Context(), in)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create reminder via HTTP",
			"title", req.Title,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "reminder created via HTTP",
		"reminder_id", created.ID,
		"repair", req.Repair)

	response.Created(w, map[string]ReminderDTO{"reminder": mapReminderToDTO(created)})
}

// ListReminders handles GET /v1/reminders.
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		response.ValidationError(w, "limit", err.Error())
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		response.ValidationError(w, "offset", err.Error())
		return
	}

	result, err := h.service.ListReminders(r.Context(), domain.ListRemindersParams{Limit: limit, Offset: offset})
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list reminders via HTTP",
			"offset", offset,
			"limit", limit,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]ReminderDTO, len(result.Reminders))
	for i, rem := range result.Reminders {
		dtos[i] = mapReminderToDTO(rem)
	}

	response.OK(w, struct {
		Reminders  []ReminderDTO `json:"reminders"`
		TotalCount int           `json:"total_count"`
		NextOffset *int          `json:"next_offset"`
	}{
		Reminders:  dtos,
		TotalCount: result.TotalCount,
		NextOffset: nextOffset(offset, len(dtos), result.HasMore),
	})
}

// GetReminder handles GET /v1/reminders/{reminder_id}.
func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.GetReminder(r.Context(), chi.URLParam(r, "reminder_id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, map[string]ReminderDTO{"reminder": mapReminderToDTO(found)})
}

// UpdateReminder handles PATCH /v1/reminders/{reminder_id}.
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reminder_id")

	var req UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateReminderParams{
		ReminderID: id,
		Etag:       req.Reminder.Etag,
		UpdateMask: req.UpdateMask,
		Title:      req.Reminder.Title,
		Rule:       req.Reminder.Rule,
	}
	if req.Reminder.StartDate != nil {
		start, ok := parseDate(w, "start_date", *req.Reminder.StartDate)
		if !ok {
			return
		}
		params.StartDate = &start
	}

	updated, err := h.service.UpdateReminder(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to update reminder via HTTP",
			"reminder_id", id,
			"update_mask", params.UpdateMask,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "reminder updated via HTTP",
		"reminder_id", id,
		"update_mask", params.UpdateMask)

	response.OK(w, map[string]ReminderDTO{"reminder": mapReminderToDTO(updated)})
}

// DeleteReminder handles DELETE /v1/reminders/{reminder_id}.
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reminder_id")
	if err := h.service.DeleteReminder(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "failed to delete reminder via HTTP",
			"reminder_id", id,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "reminder deleted via HTTP", "reminder_id", id)
	response.NoContent(w)
}

// ListFirings handles GET /v1/reminders/{reminder_id}/firings.
func (h *ReminderHandler) ListFirings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		response.ValidationError(w, "limit", err.Error())
		return
	}

	firings, err := h.service.ListFirings(r.Context(), chi.URLParam(r, "reminder_id"), limit)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]FiringDTO, len(firings))
	for i, f := range firings {
		dtos[i] = mapFiringToDTO(f)
	}
	response.OK(w, map[string][]FiringDTO{"firings": dtos})
}

// AdvanceReminder handles POST /v1/reminders/{reminder_id}/advance.
func (h *ReminderHandler) AdvanceReminder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reminder_id")

	advanced, err := h.service.AdvanceReminder(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to advance reminder via HTTP",
			"reminder_id", id,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, map[string]ReminderDTO{"reminder": mapReminderToDTO(advanced)})
}

// PreviewReminder handles GET /v1/reminders/{reminder_id}/preview.
func (h *ReminderHandler) PreviewReminder(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count")
	if err != nil {
		response.ValidationError(w, "count", err.Error())
		return
	}

	dates, err := h.service.PreviewReminder(r.Context(), chi.URLParam(r, "reminder_id"), count)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, map[string][]string{"dates": datesToStrings(dates)})
}

// ReminderCalendar handles GET /v1/reminders/{reminder_id}/calendar.ics.
func (h *ReminderHandler) ReminderCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reminder_id")

	found, err := h.service.GetReminder(r.Context(), id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	dates, err := h.service.PreviewReminder(r.Context(), id, reminder.MaxPreviewCount)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := ical.Write(&buf, found, dates, h.service.Now()); err != nil {
		response.InternalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ical.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(r.Context(), "failed to write calendar feed",
			"reminder_id", id,
			"error", err)
	}
}

// parseDate parses a YYYY-MM-DD field, writing a validation error on failure.
func parseDate(w http.ResponseWriter, field, value string) (calendar.Date, bool) {
	d, err := calendar.Parse(value)
	if err != nil {
		response.ValidationError(w, field, "must be a YYYY-MM-DD date")
		return calendar.Date{}, false
	}
	return d, true
}
