// Package schema has configs, models and constants shared by all parts of diffscore.
package schema

import (
	"math"
	"strings"
)

// MemberSpec is the static configuration of one composite member.
type MemberSpec struct {
	Weight float64 `json:"weight" mapstructure:"weight"` // Multiplier applied to the member score
	Mode   Mode    `json:"mode" mapstructure:"mode"`     // RecurseMode or EqualityMode
}

// DefaultMemberSpec returns the spec used when a member is not configured.
func DefaultMemberSpec() MemberSpec {
	return MemberSpec{Weight: DefaultWeight, Mode: RecurseMode}
}

// Validate rejects negative or non-finite weights and unknown modes.
func (s MemberSpec) Validate(component string) error {
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
		return NewConfigurationError(component, "weight must be a finite number (received %v)", s.Weight)
	}
	if s.Weight < 0 {
		return NewConfigurationError(component, "weight must not be negative (received %v)", s.Weight)
	}
	if _, ok := ValidModes[s.Mode]; !ok {
		return NewConfigurationError(component, "invalid mode '%s'. must be recurse or eq", s.Mode)
	}
	return nil
}

// Window parameterizes the windowed sequence alignment.
type Window struct {
	MatchWindow  int     `json:"match_window"`  // Max index distance between matched items
	OrderPenalty float64 `json:"order_penalty"` // Cost per index of positional drift
}

// DefaultWindow returns the universal window used for slices and text.
func DefaultWindow() Window {
	return Window{MatchWindow: DefaultMatchWindow, OrderPenalty: DefaultOrderPenalty}
}

// Validate rejects negative windows and negative or non-finite penalties.
// A zero window is valid and restricts matching to identical indices.
func (w Window) Validate() error {
	if w.MatchWindow < 0 {
		return NewConfigurationError("sequence window", "match window must not be negative (received %d)", w.MatchWindow)
	}
	if math.IsNaN(w.OrderPenalty) || math.IsInf(w.OrderPenalty, 0) {
		return NewConfigurationError("sequence window", "order penalty must be a finite number (received %v)", w.OrderPenalty)
	}
	if w.OrderPenalty < 0 {
		return NewConfigurationError("sequence window", "order penalty must not be negative (received %v)", w.OrderPenalty)
	}
	return nil
}

// ParseMode converts user input such as "eq" or "equality" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recurse", "recursive":
		return RecurseMode, nil
	case "eq", "equal", "equality", "equality_only":
		return EqualityMode, nil
	default:
		return "", NewConfigurationError("member mode", "invalid mode '%s'. must be recurse or eq", s)
	}
}

// MemberScore is the contribution of one member to a composite score.
type MemberScore struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Mode         Mode    `json:"mode"`
	Score        float64 `json:"score"`        // Unweighted member score
	Contribution float64 `json:"contribution"` // Weight * Score
}

// ComparisonResult is the outcome of comparing one document against another.
type ComparisonResult struct {
	Left    string        `json:"left"`
	Right   string        `json:"right"`
	Score   float64       `json:"score"`
	Members []MemberScore `json:"members,omitempty"`
}
