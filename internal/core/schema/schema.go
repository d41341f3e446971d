// Package schema holds the declarative field-rule tables for the two
// record types and the generic validation routine over them. Rules are
// evaluated in table order so error messages come out deterministic.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

type Kind string

const (
	String  Kind = "string"
	Boolean Kind = "boolean"
	Object  Kind = "object"
)

// Rule describes the checks applied to a single field. A custom
// Validate predicate returns an error message, or "" when the value is
// acceptable.
type Rule struct {
	Field     string
	Type      Kind
	Required  bool
	Nullable  bool
	MinLength int
	MaxLength int
	Default   any
	Validate  func(value any) string
}

type Schema []Rule

// Error carries the per-field messages of a failed validation, in rule
// table order.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Validate checks data against rules and returns the sanitized record.
// Per field: required, then type, then length bounds (both may fire),
// then the custom predicate. A required violation or type mismatch
// short-circuits the remaining checks for that field. Failure is
// atomic: any error means no sanitized record.
func Validate(data map[string]any, rules Schema) (map[string]any, error) {
	out, msgs := validate(data, rules)

	if len(msgs) > 0 {
		return nil, &Error{Messages: msgs}
	}

	return out, nil
}

func validate(data map[string]any, rules Schema) (map[string]any, []string) {
	var msgs []string
	out := make(map[string]any, len(rules))

	for _, rule := range rules {
		value, present := data[rule.Field]
		isNull := present && value == nil

		if rule.Required && !(rule.Nullable && isNull) {
			if !present || value == nil || value == "" {
				msgs = append(msgs, fmt.Sprintf("%s is required", rule.Field))
				continue
			}
		}

		if !present {
			if rule.Default != nil {
				out[rule.Field] = rule.Default
			}
			continue
		}

		if value == nil {
			out[rule.Field] = nil
			continue
		}

		if rule.Type != "" && kindOf(value) != rule.Type {
			msgs = append(msgs, fmt.Sprintf("%s must be of type %s", rule.Field, rule.Type))
			continue
		}

		if rule.Type == String {
			length := utf8.RuneCountInString(value.(string))

			if rule.MinLength > 0 && length < rule.MinLength {
				msgs = append(msgs, fmt.Sprintf("%s must be at least %d characters long", rule.Field, rule.MinLength))
			}

			if rule.MaxLength > 0 && length > rule.MaxLength {
				msgs = append(msgs, fmt.Sprintf("%s must be at most %d characters long", rule.Field, rule.MaxLength))
			}
		}

		if rule.Validate != nil {
			if msg := rule.Validate(value); msg != "" {
				msgs = append(msgs, msg)
			}
		}

		out[rule.Field] = value
	}

	return out, msgs
}

func kindOf(value any) Kind {
	switch value.(type) {
	case string:
		return String
	case bool:
		return Boolean
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return Object
	}

	return Kind(fmt.Sprintf("%T", value))
}
