package secrets

import (
	"fmt"
	"strings"
)

// OpKind distinguishes the three reconciliation operations.
type OpKind int

const (
	OpAdd OpKind = iota
	OpUpdate
	OpRemove
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is one reconciliation operation. Value is empty for removals.
type Op struct {
	Kind  OpKind
	Key   string
	Value string
}

// Plan is an ordered list of operations transforming the current key-value
// state into the desired one. The order is an audit concern only: writes
// re-serialize the full resulting set, not the operation list.
type Plan []Op

// Diff computes the plan from current to desired. Adds and updates follow
// the key order of desired; removals follow the key order of current.
// Reserved metadata labels are never touched through this path.
func Diff(current, desired *SecretSet) Plan {
	var plan Plan

	for _, key := range desired.Keys() {
		if IsMetadataLabel(key) {
			continue
		}
		want, _ := desired.Get(key)
		have, ok := current.Get(key)
		switch {
		case !ok:
			plan = append(plan, Op{Kind: OpAdd, Key: key, Value: want})
		case have != want:
			plan = append(plan, Op{Kind: OpUpdate, Key: key, Value: want})
		}
	}

	for _, key := range current.Keys() {
		if IsMetadataLabel(key) {
			continue
		}
		if !desired.Has(key) {
			plan = append(plan, Op{Kind: OpRemove, Key: key})
		}
	}

	return plan
}

// IsEmpty reports whether the plan contains no operations.
func (p Plan) IsEmpty() bool {
	return len(p) == 0
}

// Keys returns the keys affected by operations of the given kind, in plan
// order.
func (p Plan) Keys(kind OpKind) []string {
	var keys []string
	for _, op := range p {
		if op.Kind == kind {
			keys = append(keys, op.Key)
		}
	}
	return keys
}

// Summary renders the plan as a change summary with key names only. Secret
// values never appear in prompts or logs.
func (p Plan) Summary() string {
	if p.IsEmpty() {
		return "No changes detected"
	}

	var lines []string
	for _, section := range []struct {
		label string
		kind  OpKind
	}{
		{"Added", OpAdd},
		{"Modified", OpUpdate},
		{"Deleted", OpRemove},
	} {
		keys := p.Keys(section.kind)
		if len(keys) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", section.label, strings.Join(keys, ", ")))
	}
	return "Change summary\n" + strings.Join(lines, "\n")
}
