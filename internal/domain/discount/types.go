package discount

import "github.com/google/uuid"

// Type classifies how a rule's value is turned into a monetary effect.
type Type string

const (
	TypeAmount      Type = "AMOUNT"
	TypePercent     Type = "PERCENT"
	TypeFreeMinutes Type = "FREE_MINUTES"
	TypeFreeAll     Type = "FREE_ALL"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeAmount, TypePercent, TypeFreeMinutes, TypeFreeAll:
		return true
	default:
		return false
	}
}

// Effect is one rule's computed monetary impact on one fee.
// Ephemeral, produced per computation.
type Effect struct {
	RuleID       uuid.UUID `json:"rule_id"`
	RuleName     string    `json:"rule_name"`
	Type         Type      `json:"type"`
	AppliedValue int64     `json:"applied_value"`
}
