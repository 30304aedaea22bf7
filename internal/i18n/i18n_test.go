package i18n

import (
	"testing"

	"nikshay/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "en"},
		{"   ", "en"},
		{"hi", "hi"},
		{" gu ", "gu"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	full := models.Text{"en": "Cough", "hi": "खांसी", "gu": ""}

	tests := []struct {
		name     string
		text     models.Text
		lang     string
		wantLang string
		wantVal  string
		wantLen  int
	}{
		{"requested language present", full, "hi", "hi", "खांसी", 1},
		{"empty string is defined", full, "gu", "gu", "", 1},
		{"missing language falls back to english", full, "ta", "en", "Cough", 1},
		{"empty lang means english", full, "", "en", "Cough", 1},
		{"english missing yields empty", models.Text{"hi": "खांसी"}, "mr", "", "", 0},
		{"nil map yields empty", nil, "hi", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.text, tt.lang)
			if len(got) != tt.wantLen {
				t.Fatalf("len: got %d (%v), want %d", len(got), got, tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			v, ok := got[tt.wantLang]
			if !ok || v != tt.wantVal {
				t.Errorf("got %v, want {%s: %q}", got, tt.wantLang, tt.wantVal)
			}
		})
	}
}

// TestResolveNeverOtherLanguage checks every language/field combination:
// the only keys ever returned are the requested language or "en".
func TestResolveNeverOtherLanguage(t *testing.T) {
	langs := []string{"en", "hi", "gu", "mr", "te", "ta", "pa", "kn", "xx", ""}
	texts := []models.Text{
		{"en": "A"},
		{"hi": "B"},
		{"en": "A", "te": "C", "pa": "D"},
		{},
	}
	for _, text := range texts {
		for _, lang := range langs {
			got := Resolve(text, lang)
			want := Normalize(lang)
			for k := range got {
				if k != want && k != "en" {
					t.Errorf("Resolve(%v, %q) returned key %q", text, lang, k)
				}
			}
			if v, ok := text[want]; ok && got[want] != v {
				t.Errorf("Resolve(%v, %q) = %v, want requested language", text, lang, got)
			}
		}
	}
}

func TestTranslateLeavesSourceIntact(t *testing.T) {
	n := models.TreeNode{
		Title:       models.Text{"en": "Title", "kn": "ಶೀರ್ಷಿಕೆ"},
		Description: models.Text{"en": "Desc"},
		Header:      "Header",
	}
	got := Translate(n, "kn")

	if got.Title["kn"] != "ಶೀರ್ಷಿಕೆ" || len(got.Title) != 1 {
		t.Errorf("title: got %v", got.Title)
	}
	if got.Description["en"] != "Desc" || len(got.Description) != 1 {
		t.Errorf("description: got %v", got.Description)
	}
	if got.Header != "Header" {
		t.Errorf("header should pass through, got %q", got.Header)
	}
	if len(n.Title) != 2 {
		t.Errorf("source title mutated: %v", n.Title)
	}
}
