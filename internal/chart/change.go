package chart

import (
	"encoding/json"
	"fmt"
)

// Action is the reconciliation outcome for one chart.
type Action string

// Reconciliation actions.
const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
)

// Properties compared by the reconciler, in comparison order.
const (
	PropDashboard     = "dashboard"
	PropTitle         = "title"
	PropType          = "type"
	PropQuery         = "query"
	PropFieldMappings = "fieldMappings"
	PropStyle         = "style"
)

// Mismatch records one property whose value differs between the
// authoritative and current chart. Values are kept as JSON so a change set
// read back from disk behaves exactly like one passed in memory.
type Mismatch struct {
	Property string          `json:"property"`
	Current  json.RawMessage `json:"currentValue"`
	Expected json.RawMessage `json:"expectedValue"`
}

// NewMismatch encodes current and expected into a Mismatch.
func NewMismatch(property string, current, expected any) (Mismatch, error) {
	cur, err := json.Marshal(current)
	if err != nil {
		return Mismatch{}, fmt.Errorf("encoding current %s: %w", property, err)
	}
	exp, err := json.Marshal(expected)
	if err != nil {
		return Mismatch{}, fmt.Errorf("encoding expected %s: %w", property, err)
	}
	return Mismatch{Property: property, Current: cur, Expected: exp}, nil
}

// DecodeCurrent unmarshals the current value into v. An absent value leaves v untouched.
func (m Mismatch) DecodeCurrent(v any) error {
	return decodeRaw(m.Current, v)
}

// DecodeExpected unmarshals the expected value into v. An absent value leaves v untouched.
func (m Mismatch) DecodeExpected(v any) error {
	return decodeRaw(m.Expected, v)
}

func decodeRaw(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

// Change is one reconciliation outcome. Mismatches is populated only for
// ActionUpdate.
type Change struct {
	ChartID        string     `json:"chartId"`
	Action         Action     `json:"action"`
	TargetArtifact string     `json:"targetArtifact"`
	Mismatches     []Mismatch `json:"mismatches,omitempty"`
}

// ChangeSet is the ordered work order produced by one reconciliation run.
type ChangeSet struct {
	Changes []Change `json:"changes"`
}

// Count returns how many changes carry the given action.
func (cs *ChangeSet) Count(action Action) int {
	n := 0
	for _, c := range cs.Changes {
		if c.Action == action {
			n++
		}
	}
	return n
}
