package validate_test

import (
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/validate"
)

type registerInput struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"nullable,max=20"`
	Role     string `json:"role" validate:"nullable,in=admin,staff,customer"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		FullName: "Nguyễn Văn An",
		Email:    "an@example.com",
		Password: "secret123",
		Phone:    "", // nullable — allowed to be empty
		Role:     "customer",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["fullName"]; !ok {
		t.Error("expected fullName to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,gte=1,lte=5"`
	}
	if errs := validate.Struct(in{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating > 5 to fail")
	}
	if errs := validate.Struct(in{Rating: 4}); validate.HasErrors(errs) {
		t.Errorf("expected rating 4 to pass, got: %v", errs)
	}
}

func TestInRuleWithMultipleValues(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,confirmed,processing,shipping,delivered,cancelled"`
	}
	if errs := validate.Struct(in{Status: "teleported"}); !validate.HasErrors(errs) {
		t.Error("expected unknown status to fail")
	}
	if errs := validate.Struct(in{Status: "shipping"}); validate.HasErrors(errs) {
		t.Errorf("expected shipping to pass, got: %v", errs)
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		StartDate string `json:"startDate" validate:"required,date"`
	}
	if errs := validate.Struct(in{StartDate: "tomorrow"}); !validate.HasErrors(errs) {
		t.Error("expected non-date to fail")
	}
	if errs := validate.Struct(in{StartDate: "2026-01-01"}); validate.HasErrors(errs) {
		t.Errorf("expected date-only to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{StartDate: "2026-01-01T00:00:00Z"}); validate.HasErrors(errs) {
		t.Errorf("expected RFC3339 to pass, got: %v", errs)
	}
}

func TestNullableSkipsRemainingRules(t *testing.T) {
	type in struct {
		Phone string `json:"phone" validate:"nullable,min=8"`
	}
	if errs := validate.Struct(in{Phone: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Phone: "123"}); !validate.HasErrors(errs) {
		t.Error("expected short non-empty value to fail min rule")
	}
}
