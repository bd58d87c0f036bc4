package discount

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidRuleType   = errors.New("invalid discount rule type")
	ErrEmptyRuleName     = errors.New("discount rule name cannot be empty")
	ErrNegativeValue     = errors.New("discount value cannot be negative")
	ErrInvalidApplyCount = errors.New("max apply count cannot be negative")
)

// Rule is one operator-defined discount. Rules are created and edited
// elsewhere; the engine treats them as read-only.
type Rule struct {
	id            uuid.UUID
	name          string
	ruleType      Type
	value         int64
	stackable     bool
	maxApplyCount int
}

func NewRule(id uuid.UUID, name string, ruleType Type, value int64, stackable bool, maxApplyCount int) (*Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyRuleName
	}
	if !ruleType.IsValid() {
		return nil, ErrInvalidRuleType
	}
	if value < 0 {
		return nil, ErrNegativeValue
	}
	if maxApplyCount < 0 {
		return nil, ErrInvalidApplyCount
	}

	return &Rule{
		id:            id,
		name:          name,
		ruleType:      ruleType,
		value:         value,
		stackable:     stackable,
		maxApplyCount: maxApplyCount,
	}, nil
}

func (r *Rule) ID() uuid.UUID      { return r.id }
func (r *Rule) Name() string       { return r.name }
func (r *Rule) Type() Type         { return r.ruleType }
func (r *Rule) Value() int64       { return r.value }
func (r *Rule) IsStackable() bool  { return r.stackable }
func (r *Rule) MaxApplyCount() int { return r.maxApplyCount }
