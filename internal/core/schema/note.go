package schema

// NoteRules is the rule table for note records.
var NoteRules = Schema{
	{Field: "title", Type: String, Required: true, MinLength: 1, MaxLength: 100},
	{Field: "content", Type: String, Required: true, MinLength: 1, MaxLength: 5000},
	{Field: "userId", Type: String, Required: true},
	{Field: "tags", Type: Object, Nullable: true, Validate: ValidTags},
}

func ValidateNote(data map[string]any) (map[string]any, error) {
	return Validate(data, NoteRules)
}
