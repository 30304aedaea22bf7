// Package country manages the country list subscribers register against.
package country

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"nikshay/internal/models"
	"nikshay/internal/response"
)

// ErrInUse is returned when removing a country that subscribers still
// reference. Its text is shown to API clients as is.
var ErrInUse = errors.New("Country is in use by subscribers!")

// Store persists countries. Lookups return (nil, nil) on a miss.
type Store interface {
	List(ctx context.Context) ([]models.Country, error)
	Create(ctx context.Context, c *models.Country) (*models.Country, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Country, error)
}

// UsageCounter counts subscribers registered in a country.
type UsageCounter interface {
	CountByCountry(ctx context.Context, countryID uuid.UUID) (int, error)
}

// Input is the body of a create request.
type Input struct {
	Title models.Text `json:"title" validate:"en_required"`
}

// Service implements the country operations.
type Service struct {
	store Store
	usage UsageCounter
}

// NewService creates a country service.
func NewService(store Store, usage UsageCounter) *Service {
	return &Service{store: store, usage: usage}
}

// List returns every country.
func (s *Service) List(ctx context.Context) (*response.Envelope, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	if list == nil {
		list = []models.Country{}
	}
	return response.OK("Country Fetched Successfully!", list), nil
}

// Create adds a country.
func (s *Service) Create(ctx context.Context, in Input) (*response.Envelope, error) {
	c, err := s.store.Create(ctx, &models.Country{Title: in.Title})
	if err != nil {
		return nil, fmt.Errorf("create country: %w", err)
	}
	slog.Info("country created", "id", c.ID)
	return response.Created("Country Created Successfully!", c), nil
}

// Remove deletes a country unless a subscriber references it.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (*response.Envelope, error) {
	n, err := s.usage.CountByCountry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count country subscribers: %w", err)
	}
	if n > 0 {
		return nil, ErrInUse
	}

	c, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete country: %w", err)
	}
	var data any
	if c != nil {
		data = c
	}
	return response.OK("Country Deleted Successfully!", data), nil
}
