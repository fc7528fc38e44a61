package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
	"github.com/rezkam/cadence/internal/recurring"
)

// decodeRuleRequest reads a RuleRequest and resolves its reference date,
// defaulting to today. It writes the error response itself.
func (h *ReminderHandler) decodeRuleRequest(w http.ResponseWriter, r *http.Request) (RuleRequest, calendar.Date, bool) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return req, calendar.Date{}, false
	}
	if req.Rule == nil {
		response.ValidationError(w, "rule", "required field missing")
		return req, calendar.Date{}, false
	}

	ref := calendar.FromTime(h.service.Now())
	if req.ReferenceDate != "" {
		d, ok := parseDate(w, "reference_date", req.ReferenceDate)
		if !ok {
			return req, calendar.Date{}, false
		}
		ref = d
	}
	return req, ref, true
}

// ruleError writes err, reporting rule fields without a prefix.
func ruleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *recurring.ValidationError
	if errors.As(err, &ve) {
		response.RuleError(w, "", ve)
		return
	}
	response.FromDomainError(w, r, err)
}

// ValidateRule handles POST /v1/rules/validate.
func (h *ReminderHandler) ValidateRule(w http.ResponseWriter, r *http.Request) {
	req, _, ok := h.decodeRuleRequest(w, r)
	if !ok {
		return
	}
	if err := reminder.ValidateRule(*req.Rule); err != nil {
		ruleError(w, r, err)
		return
	}
	response.OK(w, map[string]bool{"valid": true})
}

// RepairRule handles POST /v1/rules/repair.
func (h *ReminderHandler) RepairRule(w http.ResponseWriter, r *http.Request) {
	req, ref, ok := h.decodeRuleRequest(w, r)
	if !ok {
		return
	}
	response.OK(w, map[string]domain.RuleRecord{"rule": reminder.RepairRule(*req.Rule, ref)})
}

// NextOccurrence handles POST /v1/rules/next.
func (h *ReminderHandler) NextOccurrence(w http.ResponseWriter, r *http.Request) {
	req, ref, ok := h.decodeRuleRequest(w, r)
	if !ok {
		return
	}

	next, err := reminder.NextOccurrence(*req.Rule, ref, req.Count)
	if err != nil {
		ruleError(w, r, err)
		return
	}

	var date *string
	if d, ok := next.Get(); ok {
		s := d.String()
		date = &s
	}
	response.OK(w, map[string]*string{"date": date})
}

// PreviewRule handles POST /v1/rules/preview. Count defaults to 10.
func (h *ReminderHandler) PreviewRule(w http.ResponseWriter, r *http.Request) {
	req, ref, ok := h.decodeRuleRequest(w, r)
	if !ok {
		return
	}

	n := req.Count
	if n <= 0 {
		n = reminder.DefaultPreviewCount
	}
	n = min(n, reminder.MaxPreviewCount)

	dates, err := reminder.PreviewRule(*req.Rule, ref, n)
	if err != nil {
		ruleError(w, r, err)
		return
	}
	response.OK(w, map[string][]string{"dates": datesToStrings(dates)})
}
