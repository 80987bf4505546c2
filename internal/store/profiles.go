// Package store exposes one typed accessor per remote table. Authorization
// lives in the remote row-level security, keyed on the caller's token; the
// stores just carry the token through.
package store

import (
	"context"
	"fmt"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/model"
)

const (
	tableProfiles   = "profiles"
	tableTimesheets = "timesheets"
	tableCatalog    = "chargeable_tasks"
)

type ProfileStore struct {
	gw *gateway.Client
}

func NewProfileStore(gw *gateway.Client) *ProfileStore {
	return &ProfileStore{gw: gw}
}

// Get returns the profile for the given identity, or nil if the row is
// absent or hidden by policy.
func (s *ProfileStore) Get(ctx context.Context, token, id string) (*model.Profile, error) {
	var rows []model.Profile
	err := s.gw.Select(ctx, token, tableProfiles, "*", gateway.Filters{"id": gateway.Eq(id)}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// List returns every profile visible to the caller. For an admin that is all
// of them, for an employee just their own row.
func (s *ProfileStore) List(ctx context.Context, token string) ([]model.Profile, error) {
	var rows []model.Profile
	if err := s.gw.Select(ctx, token, tableProfiles, "*", nil, &rows); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return rows, nil
}

// ListByIDs fetches name rows for the given identity set.
func (s *ProfileStore) ListByIDs(ctx context.Context, token string, ids []string) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []model.Profile
	err := s.gw.Select(ctx, token, tableProfiles, "id,name", gateway.Filters{"id": gateway.In(ids)}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list profiles by ids: %w", err)
	}
	return rows, nil
}
