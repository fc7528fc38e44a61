package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rezkam/cadence/internal/calendar"
	"github.com/rezkam/cadence/internal/ptr"
	"github.com/rezkam/cadence/internal/recurring"
)

func TestRuleRecord_DecodeJSON(t *testing.T) {
	raw := `{
		"type": "DOW_OF_SPECIFIC_MONTH",
		"offset": 3,
		"day_of_week": 4,
		"month": 10,
		"repeat": {"type": "YEARLY", "period": 1, "final_date": "2030-12-31", "max_occurrences": 0}
	}`

	var rec RuleRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	rule, err := rec.Decode()
	require.NoError(t, err)

	assert.Equal(t, recurring.DowOfSpecificMonth, rule.Pattern.Kind)
	assert.Equal(t, mo.Some(3), rule.Pattern.Offset)
	assert.Equal(t, mo.Some(time.Thursday), rule.Pattern.Weekday)
	assert.Equal(t, mo.Some(time.November), rule.Pattern.Month)
	assert.Equal(t, recurring.CadenceYearly, rule.Cadence.Kind)
	assert.Equal(t, 1, rule.Cadence.Period)
	assert.Equal(t, mo.Some(calendar.MustNew(2030, time.December, 31)), rule.Cadence.FinalDate)
	assert.Equal(t, mo.Some(0), rule.Cadence.MaxOccurrences)
}

func TestRuleRecord_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  RuleRecord
		code string
	}{
		{"unknown type", RuleRecord{Type: "FULL_MOON"}, recurring.CodeInvalidPatternKind},
		{"unknown repeat", RuleRecord{Type: PatternOnDate, StartDate: "2024-01-01", Repeat: &RepeatRecord{Type: "HOURLY"}}, recurring.CodeInvalidCadenceKind},
		{"bad start date", RuleRecord{Type: PatternOnDate, StartDate: "2024-02-30"}, recurring.CodeStartDateRequired},
		{"missing start date", RuleRecord{Type: PatternOnDate}, recurring.CodeStartDateRequired},
		{"bad final date", RuleRecord{Type: PatternDayOfMonth, Offset: ptr.To(0), Repeat: &RepeatRecord{Type: RepeatMonthly, Period: ptr.To(1), FinalDate: "soon"}}, recurring.CodeFinalDateInvalid},
		{"month out of range", RuleRecord{Type: PatternDayOfSpecificMonth, Offset: ptr.To(0), Month: ptr.To(12)}, recurring.CodeMonthInvalid},
		{"missing period", RuleRecord{Type: PatternDayOfMonth, Offset: ptr.To(0), Repeat: &RepeatRecord{Type: RepeatMonthly}}, recurring.CodePeriodRequired},
		{"weekly day of month", RuleRecord{Type: PatternDayOfMonth, Offset: ptr.To(0), Repeat: &RepeatRecord{Type: RepeatWeekly, Period: ptr.To(1)}}, recurring.CodeInvalidCadenceKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rec.Decode()

			var verr *recurring.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.code, verr.Code)
			assert.ErrorIs(t, err, recurring.ErrInvalidRule)
		})
	}
}

func TestRuleRecord_LenientThenRepair(t *testing.T) {
	rec := RuleRecord{
		Type:      "DOW_OF_MONTH",
		Offset:    ptr.To(9),
		StartDate: "garbage",
		Repeat:    &RepeatRecord{Type: "FORTNIGHTLY", Period: ptr.To(-1)},
	}
	ref := calendar.MustNew(2024, time.May, 16)

	rule := recurring.Repair(rec.DecodeLenient(), ref)

	require.NoError(t, recurring.Validate(rule))
	assert.Equal(t, RuleRecord{
		Type:      PatternDowOfMonth,
		Offset:    ptr.To(2),
		DayOfWeek: ptr.To(4),
	}, EncodeRule(rule))
}

func TestEncodeRule_RoundTrip(t *testing.T) {
	rules := []recurring.Rule{
		{
			Pattern: recurring.Pattern{Kind: recurring.DayEndOfSpecificMonth, Offset: mo.Some(2), Month: mo.Some(time.January)},
			Cadence: recurring.Cadence{Kind: recurring.CadenceYearly, Period: 3, MaxOccurrences: mo.Some(4)},
		},
		{
			Pattern: recurring.Pattern{Kind: recurring.OnDate, Date: mo.Some(calendar.MustNew(2020, time.February, 29))},
			Cadence: recurring.Cadence{Kind: recurring.CadenceDaily, Period: 10, FinalDate: mo.Some(calendar.MustNew(2021, time.January, 1))},
		},
		{
			Pattern: recurring.Pattern{Kind: recurring.DayOfWeek, Weekday: mo.Some(time.Sunday)},
			Cadence: recurring.NoRepeat(),
		},
	}

	for _, rule := range rules {
		t.Run(rule.Pattern.Kind.String(), func(t *testing.T) {
			rec := EncodeRule(rule)

			raw, err := json.Marshal(rec)
			require.NoError(t, err)
			var fromJSON RuleRecord
			require.NoError(t, json.Unmarshal(raw, &fromJSON))

			decoded, err := fromJSON.Decode()
			require.NoError(t, err)
			assert.Equal(t, rule, decoded)
		})
	}
}

func TestRuleRecord_YAML(t *testing.T) {
	doc := `
type: DAY_END_OF_MONTH
offset: 0
repeat:
  type: MONTHLY
  period: 1
`
	var rec RuleRecord
	require.NoError(t, yaml.Unmarshal([]byte(doc), &rec))

	rule, err := rec.Decode()
	require.NoError(t, err)
	assert.Equal(t, recurring.DayEndOfMonth, rule.Pattern.Kind)
	assert.Equal(t, recurring.CadenceMonthly, rule.Cadence.Kind)
}

func TestProgressRecord(t *testing.T) {
	p := recurring.Progress{LastOccurrence: mo.Some(calendar.MustNew(2024, time.March, 1)), Count: 3}

	rec := EncodeProgress(p)
	assert.Equal(t, ProgressRecord{LastOccurrenceDate: "2024-03-01", OccurrenceCount: 3}, rec)

	back, err := rec.Decode()
	require.NoError(t, err)
	assert.Equal(t, p, back)

	_, err = ProgressRecord{LastOccurrenceDate: "03/01/2024"}.Decode()
	assert.ErrorIs(t, err, ErrInvalidProgress)
}
