// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestTextUnmarshalDropsNull(t *testing.T) {
	var txt Text
	if err := json.Unmarshal([]byte(`{"en":"Cough","hi":null,"gu":""}`), &txt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := txt.Lookup("hi"); ok {
		t.Error("null entry should be dropped")
	}
	if v, ok := txt.Lookup("gu"); !ok || v != "" {
		t.Errorf("empty string entry: got (%q, %v), want (\"\", true)", v, ok)
	}
	if txt["en"] != "Cough" {
		t.Errorf("en: got %q, want %q", txt["en"], "Cough")
	}
}

func TestTextScan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    Text
		wantErr bool
	}{
		{"bytes", []byte(`{"en":"A"}`), Text{"en": "A"}, false},
		{"string", `{"en":"B","mr":"ब"}`, Text{"en": "B", "mr": "ब"}, false},
		{"nil", nil, nil, false},
		{"int", 42, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			err := got.Scan(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestTextValueNil(t *testing.T) {
	v, err := Text(nil).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "{}" {
		t.Errorf("got %v, want {}", v)
	}
}

func TestNodePatchApply(t *testing.T) {
	parent := uuid.New()
	activated := false
	header := "Symptoms"

	base := TreeNode{
		ID:        uuid.New(),
		Title:     Text{"en": "Old", "hi": "पुराना"},
		Activated: true,
		Header:    "Keep",
		Index:     3,
	}

	t.Run("replaces set fields and keeps the rest", func(t *testing.T) {
		p := &NodePatch{
			ParentID:  &parent,
			Activated: &activated,
			Title:     Text{"en": "New"},
		}
		got := p.Apply(base)
		if got.ParentID == nil || *got.ParentID != parent {
			t.Errorf("parent: got %v, want %v", got.ParentID, parent)
		}
		if got.Activated {
			t.Error("activated should be false")
		}
		if len(got.Title) != 1 || got.Title["en"] != "New" {
			t.Errorf("title should be replaced wholesale, got %v", got.Title)
		}
		if got.Header != "Keep" || got.Index != 3 {
			t.Errorf("untouched fields changed: header=%q index=%d", got.Header, got.Index)
		}
	})

	t.Run("clear parent wins over parent id", func(t *testing.T) {
		withParent := base
		withParent.ParentID = &parent
		p := &NodePatch{ClearParent: true, ParentID: &parent, Header: &header}
		got := p.Apply(withParent)
		if !got.IsRoot() {
			t.Error("expected node to become a root")
		}
		if got.Header != header {
			t.Errorf("header: got %q, want %q", got.Header, header)
		}
	})
}
