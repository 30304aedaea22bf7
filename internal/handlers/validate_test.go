package handlers

import (
	"errors"
	"strings"
	"testing"

	"nikshay/internal/algorithm"
	"nikshay/internal/models"
)

func TestEnRequired(t *testing.T) {
	type body struct {
		Title models.Text `json:"title" validate:"en_required"`
	}
	tests := []struct {
		name    string
		title   models.Text
		wantErr bool
	}{
		{"english present", models.Text{"en": "Cough"}, false},
		{"english and others", models.Text{"en": "Cough", "hi": "खांसी"}, false},
		{"only hindi", models.Text{"hi": "खांसी"}, true},
		{"blank english", models.Text{"en": " "}, true},
		{"nil text", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStruct(&body{Title: tt.title})
			if (err != nil) != tt.wantErr {
				t.Errorf("err: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStructMessages(t *testing.T) {
	long := strings.Repeat("x", 101)
	err := validateStruct(&algorithm.NodeInput{NodeType: long, Index: -1})

	var verr *validationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validationError, got %T", err)
	}
	want := []string{
		"nodeType must be shorter than or equal to 100 characters",
		"index must not be less than 0",
		"title.en should not be empty",
	}
	for _, w := range want {
		if !strings.Contains(err.Error(), w) {
			t.Errorf("message %q missing %q", err.Error(), w)
		}
	}
}

func TestPatchOmitsAbsentTitle(t *testing.T) {
	if err := validateStruct(&algorithm.PatchInput{}); err != nil {
		t.Errorf("empty patch should be valid, got %v", err)
	}
}
