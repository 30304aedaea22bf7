package country

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"nikshay/internal/models"
)

type memStore struct {
	countries map[uuid.UUID]models.Country
	deleted   []uuid.UUID
}

func (m *memStore) List(context.Context) ([]models.Country, error) {
	var out []models.Country
	for _, c := range m.countries {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) Create(_ context.Context, c *models.Country) (*models.Country, error) {
	n := *c
	n.ID = uuid.New()
	m.countries[n.ID] = n
	return &n, nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) (*models.Country, error) {
	m.deleted = append(m.deleted, id)
	c, ok := m.countries[id]
	if !ok {
		return nil, nil
	}
	delete(m.countries, id)
	return &c, nil
}

type usage map[uuid.UUID]int

func (u usage) CountByCountry(_ context.Context, id uuid.UUID) (int, error) {
	return u[id], nil
}

type failingUsage struct{}

func (failingUsage) CountByCountry(context.Context, uuid.UUID) (int, error) {
	return 0, errors.New("db down")
}

func TestCreateAndList(t *testing.T) {
	store := &memStore{countries: map[uuid.UUID]models.Country{}}
	svc := NewService(store, usage{})
	ctx := context.Background()

	env, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list := env.Data.([]models.Country); list == nil || len(list) != 0 {
		t.Errorf("empty list = %v, want []", list)
	}

	env, err = svc.Create(ctx, Input{Title: models.Text{"en": "India"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if env.StatusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want 201", env.StatusCode)
	}

	env, _ = svc.List(ctx)
	if got := len(env.Data.([]models.Country)); got != 1 {
		t.Errorf("list length = %d, want 1", got)
	}
}

func TestRemove(t *testing.T) {
	used := uuid.New()
	free := uuid.New()
	store := &memStore{countries: map[uuid.UUID]models.Country{
		used: {ID: used, Title: models.Text{"en": "India"}},
		free: {ID: free, Title: models.Text{"en": "Nepal"}},
	}}
	svc := NewService(store, usage{used: 3})
	ctx := context.Background()

	_, err := svc.Remove(ctx, used)
	if !errors.Is(err, ErrInUse) {
		t.Fatalf("err = %v, want ErrInUse", err)
	}
	if err.Error() != "Country is in use by subscribers!" {
		t.Errorf("message = %q", err.Error())
	}
	if len(store.deleted) != 0 {
		t.Error("a country in use must not be deleted")
	}

	env, err := svc.Remove(ctx, free)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if env.Data == nil {
		t.Error("expected deleted country in data")
	}

	env, err = svc.Remove(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	if env.Data != nil {
		t.Errorf("missing country data = %v, want nil", env.Data)
	}
}

func TestRemoveUsageError(t *testing.T) {
	svc := NewService(&memStore{countries: map[uuid.UUID]models.Country{}}, failingUsage{})
	if _, err := svc.Remove(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}
