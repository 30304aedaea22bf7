package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"nikshay/internal/country"
	"nikshay/internal/response"
)

type stubCountry struct {
	env   *response.Envelope
	err   error
	calls int
	input country.Input
}

func (s *stubCountry) List(context.Context) (*response.Envelope, error) {
	s.calls++
	return s.env, s.err
}

func (s *stubCountry) Create(_ context.Context, in country.Input) (*response.Envelope, error) {
	s.calls++
	s.input = in
	return s.env, s.err
}

func (s *stubCountry) Remove(context.Context, uuid.UUID) (*response.Envelope, error) {
	s.calls++
	return s.env, s.err
}

func TestCountryRemoveInUse(t *testing.T) {
	svc := &stubCountry{err: country.ErrInUse}
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/country/x", nil), "id", uuid.NewString())
	rr := httptest.NewRecorder()
	NewCountry(svc).Remove(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	body := decodeError(t, rr)
	if body.Message != "Country is in use by subscribers!" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestCountryCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCalls  int
	}{
		{"valid", `{"title":{"en":"India"}}`, http.StatusCreated, 1},
		{"missing english", `{"title":{"hi":"भारत"}}`, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubCountry{env: response.Created("Country Created Successfully!", nil)}
			rr := httptest.NewRecorder()
			NewCountry(svc).Create(rr, httptest.NewRequest(http.MethodPost, "/country", strings.NewReader(tt.body)))

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if svc.calls != tt.wantCalls {
				t.Errorf("calls: got %d, want %d", svc.calls, tt.wantCalls)
			}
		})
	}
}

func TestCountryList(t *testing.T) {
	svc := &stubCountry{env: response.OK("Country Fetched Successfully!", []string{})}
	rr := httptest.NewRecorder()
	NewCountry(svc).List(rr, httptest.NewRequest(http.MethodGet, "/country", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("got %d %s", rr.Code, rr.Body.String())
	}
}
