package domain

import (
	"encoding/json"
	"testing"
)

func TestStatus_Next(t *testing.T) {
	tests := []struct{ from, want Status }{
		{StatusPending, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusCompleted, StatusPending},
	}
	for _, tt := range tests {
		if got := tt.from.Next(); got != tt.want {
			t.Errorf("%s.Next() = %s, want %s", tt.from, got, tt.want)
		}
	}
	s := StatusPending
	for i := 0; i < 3; i++ {
		s = s.Next()
	}
	if s != StatusPending {
		t.Errorf("three toggles should return to PENDING, got %s", s)
	}
}

func TestValid(t *testing.T) {
	if !StatusCompleted.Valid() || Status("DONE").Valid() || Status("pending").Valid() {
		t.Error("Status.Valid mismatch")
	}
	if !PriorityHigh.Valid() || Priority("URGENT").Valid() {
		t.Error("Priority.Valid mismatch")
	}
}

func TestOwnedBy(t *testing.T) {
	task := &Task{UserID: "u1"}
	if !task.OwnedBy("u1") || task.OwnedBy("u2") || task.OwnedBy("") {
		t.Error("OwnedBy mismatch")
	}
	var nilTask *Task
	if nilTask.OwnedBy("u1") {
		t.Error("nil task is owned by nobody")
	}
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var in struct {
		Description Optional[string] `json:"description"`
		DueDate     Optional[string] `json:"dueDate"`
		Title       Optional[string] `json:"title"`
	}
	if err := json.Unmarshal([]byte(`{"description": null, "title": "x"}`), &in); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !in.Description.Set || !in.Description.Null {
		t.Errorf("description = %+v, want set null", in.Description)
	}
	if in.DueDate.Set {
		t.Errorf("dueDate = %+v, want unset", in.DueDate)
	}
	if !in.Title.Set || in.Title.Null || in.Title.Value != "x" {
		t.Errorf("title = %+v", in.Title)
	}

	if err := json.Unmarshal([]byte(`{"title": 5}`), &in); err == nil {
		t.Error("want type error")
	}
}
