package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"tasktracker/backend/internal/task/domain"
	"tasktracker/backend/internal/validation"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// CreateInput is the body of POST /tasks. Empty Status and Priority take their defaults.
type CreateInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// UpdateInput is the body of PATCH /tasks/:id. Absent fields are left unchanged; an explicit
// null clears description and dueDate.
type UpdateInput struct {
	Title       domain.Optional[string] `json:"title"`
	Description domain.Optional[string] `json:"description"`
	Status      domain.Optional[string] `json:"status"`
	Priority    domain.Optional[string] `json:"priority"`
	DueDate     domain.Optional[string] `json:"dueDate"`
}

// changes is a validated UpdateInput.
type changes struct {
	title       *string
	setDesc     bool
	description *string
	status      *domain.Status
	priority    *domain.Priority
	setDue      bool
	dueDate     *time.Time
}

func (c changes) apply(t *domain.Task) {
	if c.title != nil {
		t.Title = *c.title
	}
	if c.setDesc {
		t.Description = c.description
	}
	if c.status != nil {
		t.Status = *c.status
	}
	if c.priority != nil {
		t.Priority = *c.priority
	}
	if c.setDue {
		t.DueDate = c.dueDate
	}
}

func checkTitle(verr *validation.Error, raw string) string {
	title := strings.TrimSpace(raw)
	switch {
	case title == "":
		verr.Add("title", "Title is required")
	case utf8.RuneCountInString(title) > maxTitleLen:
		verr.Add("title", "Title must be at most 200 characters")
	}
	return title
}

// checkDescription trims and returns nil for an empty description.
func checkDescription(verr *validation.Error, raw string) *string {
	d := strings.TrimSpace(raw)
	if utf8.RuneCountInString(d) > maxDescriptionLen {
		verr.Add("description", "Description must be at most 2000 characters")
		return nil
	}
	if d == "" {
		return nil
	}
	return &d
}

func checkStatus(verr *validation.Error, raw string) domain.Status {
	s := domain.Status(raw)
	if !s.Valid() {
		verr.Add("status", "Status must be one of: PENDING, IN_PROGRESS, COMPLETED")
	}
	return s
}

func checkPriority(verr *validation.Error, raw string) domain.Priority {
	p := domain.Priority(raw)
	if !p.Valid() {
		verr.Add("priority", "Priority must be one of: LOW, MEDIUM, HIGH")
	}
	return p
}

func checkDueDate(verr *validation.Error, raw string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		verr.Add("dueDate", "Invalid date format")
		return nil
	}
	t = t.UTC()
	return &t
}

func (in CreateInput) validate() (*domain.Task, error) {
	verr := validation.NewError()
	t := &domain.Task{
		Title:    checkTitle(verr, in.Title),
		Status:   domain.StatusPending,
		Priority: domain.PriorityMedium,
	}
	if in.Description != nil {
		t.Description = checkDescription(verr, *in.Description)
	}
	if in.Status != "" {
		t.Status = checkStatus(verr, in.Status)
	}
	if in.Priority != "" {
		t.Priority = checkPriority(verr, in.Priority)
	}
	if in.DueDate != nil {
		t.DueDate = checkDueDate(verr, *in.DueDate)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

func (in UpdateInput) validate() (changes, error) {
	verr := validation.NewError()
	var c changes
	if in.Title.Set {
		if in.Title.Null {
			verr.Add("title", "Title is required")
		} else {
			title := checkTitle(verr, in.Title.Value)
			c.title = &title
		}
	}
	if in.Description.Set {
		c.setDesc = true
		if !in.Description.Null {
			c.description = checkDescription(verr, in.Description.Value)
		}
	}
	if in.Status.Set {
		s := checkStatus(verr, in.Status.Value)
		c.status = &s
	}
	if in.Priority.Set {
		p := checkPriority(verr, in.Priority.Value)
		c.priority = &p
	}
	if in.DueDate.Set {
		c.setDue = true
		if !in.DueDate.Null {
			c.dueDate = checkDueDate(verr, in.DueDate.Value)
		}
	}
	return c, verr.OrNil()
}
