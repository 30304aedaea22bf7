package response

import (
	"encoding/json"
	"testing"
)

func TestNewPageTotals(t *testing.T) {
	tests := []struct {
		name             string
		total, page, lim int
		wantPages        int
	}{
		{"empty", 0, 1, 10, 0},
		{"exact", 20, 2, 10, 2},
		{"remainder", 21, 1, 10, 3},
		{"zero limit", 5, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage("ok", []int{}, tt.total, tt.page, tt.lim)
			if p.Data.TotalPages != tt.wantPages {
				t.Errorf("totalPages: got %d, want %d", p.Data.TotalPages, tt.wantPages)
			}
			if !p.Status || p.Code != 200 {
				t.Errorf("status/code: got %v/%d", p.Status, p.Code)
			}
		})
	}
}

func TestEnvelopeShapesDiffer(t *testing.T) {
	env, _ := json.Marshal(OK("done", nil))
	page, _ := json.Marshal(NewPage("done", []string{"a"}, 1, 1, 10))

	var e map[string]any
	var p map[string]any
	json.Unmarshal(env, &e)
	json.Unmarshal(page, &p)

	for _, k := range []string{"statusCode", "message", "data"} {
		if _, ok := e[k]; !ok {
			t.Errorf("envelope missing %q: %s", k, env)
		}
	}
	if _, ok := e["data"]; !ok || e["data"] != nil {
		t.Errorf("nil data should encode as null: %s", env)
	}
	for _, k := range []string{"status", "message", "data", "code"} {
		if _, ok := p[k]; !ok {
			t.Errorf("page missing %q: %s", k, page)
		}
	}
	data := p["data"].(map[string]any)
	for _, k := range []string{"list", "totalItems", "currentPage", "totalPages"} {
		if _, ok := data[k]; !ok {
			t.Errorf("page data missing %q", k)
		}
	}
}

func TestNewError(t *testing.T) {
	e := NewError(400, "Invalid id")
	if e.Error != "Bad Request" || e.StatusCode != 400 || e.Message != "Invalid id" {
		t.Errorf("got %+v", e)
	}
}
