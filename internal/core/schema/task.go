package schema

import (
	"regexp"
	"time"
)

var dailyTimeRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// TaskRules is the rule table for task records. Table order is the
// order error messages are reported in.
var TaskRules = Schema{
	{Field: "title", Type: String, Required: true, MinLength: 1, MaxLength: 100},
	{Field: "description", Type: String, MaxLength: 1000},
	{Field: "userId", Type: String, Required: true},
	{Field: "completed", Type: Boolean, Required: true, Default: false},
	{Field: "deadline", Type: String, Nullable: true, Validate: validDeadline},
	{Field: "isDaily", Type: Boolean, Required: true, Default: false},
	{Field: "dailyTime", Type: String, Nullable: true, Validate: validDailyTime},
	{Field: "tags", Type: Object, Nullable: true, Validate: ValidTags},
}

// ValidateTask runs the task rule table plus the daily-time invariant:
// dailyTime is required iff isDaily is true, and forced to null
// otherwise.
func ValidateTask(data map[string]any) (map[string]any, error) {
	out, msgs := validate(data, TaskRules)

	if isDaily, _ := data["isDaily"].(bool); isDaily {
		if v, ok := out["dailyTime"]; !ok || v == nil || v == "" {
			msgs = append(msgs, "dailyTime is required for daily tasks")
		}
	} else {
		out["dailyTime"] = nil
	}

	if len(msgs) > 0 {
		return nil, &Error{Messages: msgs}
	}

	return out, nil
}

func validDeadline(value any) string {
	s, ok := value.(string)

	if !ok || s == "" {
		return ""
	}

	if !isValidDate(s) {
		return "invalid deadline date"
	}

	return ""
}

func validDailyTime(value any) string {
	s, ok := value.(string)

	if !ok || s == "" {
		return ""
	}

	if !dailyTimeRe.MatchString(s) {
		return "invalid daily time format"
	}

	return ""
}

// ValidTags accepts an ordered sequence of strings. JSON decoding
// hands us []any; typed []string is accepted too.
func ValidTags(value any) string {
	switch tags := value.(type) {
	case []string:
		return ""
	case []any:
		for _, tag := range tags {
			if _, ok := tag.(string); !ok {
				return "each tag must be a string"
			}
		}
		return ""
	default:
		return "tags must be an array"
	}
}

func isValidDate(s string) bool {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}

	return false
}
