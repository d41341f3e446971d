package service

import "noteflow/internal/core/domain"

// Converters from sanitized schema output back into typed records. The
// validator guarantees the dynamic types, so these stay lenient.

func fieldString(v any) string {
	s, _ := v.(string)
	return s
}

func fieldBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func fieldStringPtr(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}

	return nil
}

func fieldTags(v any) []string {
	switch tags := v.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	return nil
}

func taskFromFields(fields map[string]any) domain.Task {
	return domain.Task{
		Title:       fieldString(fields["title"]),
		Description: fieldString(fields["description"]),
		UserID:      fieldString(fields["userId"]),
		Completed:   fieldBool(fields["completed"]),
		Deadline:    fieldStringPtr(fields["deadline"]),
		IsDaily:     fieldBool(fields["isDaily"]),
		DailyTime:   fieldStringPtr(fields["dailyTime"]),
		Tags:        fieldTags(fields["tags"]),
	}
}

func noteFromFields(fields map[string]any) domain.Note {
	return domain.Note{
		Title:   fieldString(fields["title"]),
		Content: fieldString(fields["content"]),
		UserID:  fieldString(fields["userId"]),
		Tags:    fieldTags(fields["tags"]),
	}
}
