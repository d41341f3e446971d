package request

type SignUpRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type TaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Deadline    *string  `json:"deadline"`
	IsDaily     bool     `json:"isDaily"`
	DailyTime   *string  `json:"dailyTime"`
	Tags        []string `json:"tags"`
}

// Fields shapes the request into the record mapping the schema
// validator consumes. Absent optional fields stay absent so defaults
// and nullability behave per the rule tables.
func (r *TaskRequest) Fields(owner string) map[string]any {
	fields := map[string]any{
		"title":     r.Title,
		"completed": r.Completed,
		"isDaily":   r.IsDaily,
		"userId":    owner,
	}

	if r.Description != "" {
		fields["description"] = r.Description
	}

	if r.Deadline != nil {
		fields["deadline"] = *r.Deadline
	}

	if r.DailyTime != nil {
		fields["dailyTime"] = *r.DailyTime
	}

	if r.Tags != nil {
		fields["tags"] = r.Tags
	}

	return fields
}

type ToggleRequest struct {
	Completed bool `json:"completed"`
}

type NoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (r *NoteRequest) Fields(owner string) map[string]any {
	fields := map[string]any{
		"title":   r.Title,
		"content": r.Content,
		"userId":  owner,
	}

	if r.Tags != nil {
		fields["tags"] = r.Tags
	}

	return fields
}
