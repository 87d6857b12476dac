package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

/*
 * Condition model for display-logic rules.
 *
 * A Condition is one clause of a question's visibility rule: a target
 * question key, a comparison operator, and a scalar-or-list value. These
 * types are wire-format aware: Condition marshals to the persisted
 * {"q","op","val"} object and Value marshals to a bare string or a string
 * array, matching what the admin form field stores.
 *
 * The question key grammar (plain ref, ::col::, ::sbs::group::..::row::..)
 * is parsed and formatted exclusively by internal/logic; here the key is an
 * opaque string.
 */

// Operator is a condition comparison operator. String-typed to match the
// persisted document.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNe    Operator = "ne"
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
)

// Operators lists the closed operator set in the order the editor offers
// them.
var Operators = []Operator{OpEq, OpNe, OpIn, OpNotIn, OpGt, OpGte, OpLt, OpLte}

// Valid reports whether op is in the closed operator set.
func (op Operator) Valid() bool {
	switch op {
	case OpEq, OpNe, OpIn, OpNotIn, OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// ListOperator reports whether op compares against a list of values.
func (op Operator) ListOperator() bool {
	return op == OpIn || op == OpNotIn
}

// Value is a condition comparison value: either a single scalar string or an
// ordered list of strings. The zero Value is an empty scalar.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar constructs a single-string value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List constructs a list value. The slice is not copied.
func List(items ...string) Value {
	return Value{list: items, isList: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool { return v.isList }

// IsEmpty reports whether the value holds nothing to compare against.
func (v Value) IsEmpty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

// Items returns the list items, or a one-element slice for a scalar.
func (v Value) Items() []string {
	if v.isList {
		return v.list
	}
	return []string{v.scalar}
}

// String returns the scalar, or the comma-joined list. This is the form the
// editor prefills into free-text inputs.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ",")
	}
	return v.scalar
}

// Equal reports deep equality between two values.
func (v Value) Equal(o Value) bool {
	if v.isList != o.isList {
		return false
	}
	if !v.isList {
		return v.scalar == o.scalar
	}
	if len(v.list) != len(o.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != o.list[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes a bare string for scalars and a string array for lists.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts a string, an array, a number, a bool, or null.
// Non-string scalars are stringified, matching how the admin editor prefills
// hand-edited documents (String(cond.val)).
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = Value{scalar: t}
	case json.Number:
		*v = Value{scalar: t.String()}
	case bool:
		*v = Value{scalar: fmt.Sprintf("%v", t)}
	case []any:
		items := make([]string, 0, len(t))
		for _, elem := range t {
			switch e := elem.(type) {
			case string:
				items = append(items, e)
			case json.Number:
				items = append(items, e.String())
			case bool:
				items = append(items, fmt.Sprintf("%v", e))
			default:
				return fmt.Errorf("unsupported list element %T in condition value", elem)
			}
		}
		*v = Value{list: items, isList: true}
	default:
		return fmt.Errorf("unsupported condition value %T", raw)
	}
	return nil
}

// Condition is one display-logic clause.
type Condition struct {
	Q   string   `json:"q"`
	Op  Operator `json:"op"`
	Val Value    `json:"val"`
}

// Equal reports deep equality between two conditions.
func (c Condition) Equal(o Condition) bool {
	return c.Q == o.Q && c.Op == o.Op && c.Val.Equal(o.Val)
}

// Mode is the combination mode of a rule document: every condition must hold
// (all) or at least one must (any).
type Mode string

const (
	ModeAll Mode = "all"
	ModeAny Mode = "any"
)
