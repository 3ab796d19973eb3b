package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

type registerForm struct {
	Name     string `json:"name" binding:"notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72,password"`
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(&registerForm{Name: "A", Email: "a@x.com", Password: "Passw0rd"}); err != nil {
		t.Fatalf("Struct: %v", err)
	}
}

func TestStruct_FieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		form  registerForm
		field string
		msg   string
	}{
		{"blank name", registerForm{Name: "  ", Email: "a@x.com", Password: "Passw0rd"}, "name", "Name is required"},
		{"bad email", registerForm{Name: "A", Email: "nope", Password: "Passw0rd"}, "email", "Invalid email address"},
		{"short password", registerForm{Name: "A", Email: "a@x.com", Password: "Pa0"}, "password", "Password must be at least 8 characters"},
		{"no digit", registerForm{Name: "A", Email: "a@x.com", Password: "Password"}, "password", PasswordComplexityMessage},
		{"no upper", registerForm{Name: "A", Email: "a@x.com", Password: "passw0rd"}, "password", PasswordComplexityMessage},
		{"no lower", registerForm{Name: "A", Email: "a@x.com", Password: "PASSW0RD"}, "password", PasswordComplexityMessage},
		{"non-ascii letters", registerForm{Name: "A", Email: "a@x.com", Password: "ÄäÄä1234"}, "password", PasswordComplexityMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.form)
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("want *Error, got %v", err)
			}
			if got := verr.Details[tt.field]; !reflect.DeepEqual(got, []string{tt.msg}) {
				t.Errorf("details[%s] = %v, want [%q]", tt.field, got, tt.msg)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	if Translate(nil) != nil {
		t.Error("nil should stay nil")
	}
	other := errors.New("boom")
	if Translate(other) != other {
		t.Error("unrelated errors pass through")
	}

	var v struct {
		Title string `json:"title"`
	}
	err := Translate(json.Unmarshal([]byte(`{"title": 5}`), &v))
	var verr *Error
	if !errors.As(err, &verr) || len(verr.Details["title"]) != 1 {
		t.Errorf("type error = %v", err)
	}
	err = Translate(json.Unmarshal([]byte(`{`), &v))
	if !errors.As(err, &verr) || len(verr.Details["body"]) != 1 {
		t.Errorf("syntax error = %v", err)
	}
}

func TestError(t *testing.T) {
	e := NewError()
	if e.OrNil() != nil || !e.Empty() {
		t.Error("new Error should be empty")
	}
	e.Add("title", "Title is required")
	e.Add("dueDate", "Invalid date format")
	if e.OrNil() == nil {
		t.Error("OrNil should return the error")
	}
	if e.Error() != "validation failed: dueDate, title" {
		t.Errorf("Error() = %q", e.Error())
	}
	var nilErr *Error
	if !nilErr.Empty() {
		t.Error("nil *Error is empty")
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	if err := Default().ValidateStruct([]int{1}); err != nil {
		t.Errorf("non-struct should be ignored, got %v", err)
	}
	if Default().Engine() == nil {
		t.Error("Engine should be initialized")
	}
}
