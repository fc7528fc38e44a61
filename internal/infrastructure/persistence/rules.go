// Package persistence holds helpers shared by the storage backends.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurring"
)

// MarshalRule encodes a rule in its stored JSON form.
func MarshalRule(r recurring.Rule) ([]byte, error) {
	b, err := json.Marshal(domain.EncodeRule(r))
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule: %w", err)
	}
	return b, nil
}

// UnmarshalRule decodes a stored rule. Stored rules were valid when written,
// so a rule that no longer validates is reported as corrupt.
func UnmarshalRule(b []byte) (recurring.Rule, error) {
	var rec domain.RuleRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return recurring.Rule{}, fmt.Errorf("failed to decode rule: %w", err)
	}
	rule, err := rec.Decode()
	if err != nil {
		return recurring.Rule{}, fmt.Errorf("stored rule is invalid: %w", err)
	}
	return rule, nil
}
