package store

import (
	"context"
	"fmt"
	"sort"

	"feuilletemps/internal/gateway"
	"feuilletemps/internal/model"
)

type CatalogStore struct {
	gw *gateway.Client
}

func NewCatalogStore(gw *gateway.Client) *CatalogStore {
	return &CatalogStore{gw: gw}
}

// ApprovedNames returns the approved chargeable task names, sorted.
func (s *CatalogStore) ApprovedNames(ctx context.Context, token string) ([]string, error) {
	var rows []model.ChargeableTask
	err := s.gw.Select(ctx, token, tableCatalog, "name",
		gateway.Filters{"status": gateway.Eq(model.TaskStatusApproved)}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list approved tasks: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names, nil
}

// ListPending returns proposals awaiting an admin decision.
func (s *CatalogStore) ListPending(ctx context.Context, token string) ([]model.ChargeableTask, error) {
	var rows []model.ChargeableTask
	err := s.gw.Select(ctx, token, tableCatalog, "*",
		gateway.Filters{"status": gateway.Eq(model.TaskStatusPending)}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	return rows, nil
}

// FindByName returns catalog entries with the given name, any status. Used
// for the duplicate-proposal check.
func (s *CatalogStore) FindByName(ctx context.Context, token, name string) ([]model.ChargeableTask, error) {
	var rows []model.ChargeableTask
	err := s.gw.Select(ctx, token, tableCatalog, "name",
		gateway.Filters{"name": gateway.Eq(name)}, &rows)
	if err != nil {
		return nil, fmt.Errorf("find task by name: %w", err)
	}
	return rows, nil
}

// Propose inserts a pending catalog entry.
func (s *CatalogStore) Propose(ctx context.Context, token, name, proposerID string) error {
	row := model.ChargeableTask{Name: name, Status: model.TaskStatusPending, ProposedBy: proposerID}
	if err := s.gw.Insert(ctx, token, tableCatalog, []model.ChargeableTask{row}, nil); err != nil {
		return fmt.Errorf("propose task: %w", err)
	}
	return nil
}

// SetStatus moves a catalog entry to the given approval status.
func (s *CatalogStore) SetStatus(ctx context.Context, token, id, status string) error {
	if err := s.gw.Update(ctx, token, tableCatalog, id, map[string]any{"status": status}); err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	return nil
}

// Delete removes a catalog entry. Rejection deletes the row outright.
func (s *CatalogStore) Delete(ctx context.Context, token, id string) error {
	if err := s.gw.Delete(ctx, token, tableCatalog, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
