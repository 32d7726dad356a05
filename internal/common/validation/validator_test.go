package validation

import (
	"errors"
	"testing"

	commonerrors "github.com/AlibekovAA/tasktrack/internal/common/errors"
)

type sampleRequest struct {
	Title   string `json:"title" validate:"required,max=10"`
	Urgency string `json:"urgency" validate:"omitempty,oneof=important normal"`
	Ignored string `json:"-"`
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(sampleRequest{Title: "ok", Urgency: "normal"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Struct(sampleRequest{Title: "ok"}); err != nil {
		t.Fatalf("omitted optional field should pass: %v", err)
	}
}

func TestStruct_Required(t *testing.T) {
	err := Struct(sampleRequest{})
	if !errors.Is(err, commonerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	de, _ := commonerrors.AsDomainError(err)
	if de.Message() != "title is required" {
		t.Errorf("unexpected message %q", de.Message())
	}
	if de.Details()["title"] != "is required" {
		t.Errorf("expected title detail keyed by json name, got %v", de.Details())
	}
}

func TestStruct_OneOfAndMax(t *testing.T) {
	err := Struct(sampleRequest{Title: "much too long title", Urgency: "urgent"})
	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	if len(de.Details()) != 2 {
		t.Fatalf("expected two field errors, got %v", de.Details())
	}
	if de.Details()["urgency"] != "must be one of [important normal]" {
		t.Errorf("unexpected urgency detail %v", de.Details()["urgency"])
	}
}
