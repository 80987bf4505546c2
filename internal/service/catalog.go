package service

import (
	"context"
	"fmt"
	"strings"

	"feuilletemps/internal/model"
	"feuilletemps/internal/state"
)

// CatalogRepo is the slice of the catalog store the services consume.
type CatalogRepo interface {
	ApprovedNames(ctx context.Context, token string) ([]string, error)
	ListPending(ctx context.Context, token string) ([]model.ChargeableTask, error)
	FindByName(ctx context.Context, token, name string) ([]model.ChargeableTask, error)
	Propose(ctx context.Context, token, name, proposerID string) error
	SetStatus(ctx context.Context, token, id, status string) error
	Delete(ctx context.Context, token, id string) error
}

// CatalogService owns the chargeable-task approval workflow: employees
// propose names, admins approve them into the catalog or reject them.
type CatalogService struct {
	catalog  CatalogRepo
	profiles ProfileReader
}

func NewCatalogService(catalog CatalogRepo, profiles ProfileReader) *CatalogService {
	return &CatalogService{catalog: catalog, profiles: profiles}
}

// ApprovedNames fetches the approved catalog.
func (s *CatalogService) ApprovedNames(ctx context.Context, token string) ([]string, error) {
	return s.catalog.ApprovedNames(ctx, token)
}

// Propose submits a new chargeable task name for approval. A name that
// already exists in any status is a validation error, not a remote failure.
func (s *CatalogService) Propose(ctx context.Context, sess *state.Session, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyField
	}
	profile, ok := sess.Profile()
	if !ok {
		return ErrProfileNotFound
	}

	existing, err := s.catalog.FindByName(ctx, sess.Token(), name)
	if err != nil {
		return fmt.Errorf("check task name: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}

	if err := s.catalog.Propose(ctx, sess.Token(), name, profile.ID); err != nil {
		return fmt.Errorf("submit proposal: %w", err)
	}

	if profile.Role == model.RoleAdmin {
		return s.RefreshPending(ctx, sess)
	}
	return nil
}

// RefreshPending reloads proposals with their proposer names resolved via a
// membership read over the profiles table. Admin only; for everyone else the
// pending list simply stays empty.
func (s *CatalogService) RefreshPending(ctx context.Context, sess *state.Session) error {
	profile, ok := sess.Profile()
	if !ok || profile.Role != model.RoleAdmin {
		return nil
	}

	pending, err := s.catalog.ListPending(ctx, sess.Token())
	if err != nil {
		return fmt.Errorf("refresh pending tasks: %w", err)
	}

	proposerIDs := make([]string, 0, len(pending))
	seen := make(map[string]bool)
	for _, t := range pending {
		if t.ProposedBy != "" && !seen[t.ProposedBy] {
			seen[t.ProposedBy] = true
			proposerIDs = append(proposerIDs, t.ProposedBy)
		}
	}

	names := make(map[string]string)
	if len(proposerIDs) > 0 {
		proposers, err := s.profiles.ListByIDs(ctx, sess.Token(), proposerIDs)
		if err != nil {
			return fmt.Errorf("resolve proposers: %w", err)
		}
		for _, p := range proposers {
			names[p.ID] = p.Name
		}
	}
	for i := range pending {
		pending[i].ProposerName = names[pending[i].ProposedBy]
		if pending[i].ProposerName == "" {
			pending[i].ProposerName = "Inconnu"
		}
	}

	sess.SetPending(pending)
	return nil
}

// Approve moves a proposal into the approved catalog. The pending list is
// trimmed optimistically and restored when the remote write fails.
func (s *CatalogService) Approve(ctx context.Context, sess *state.Session, taskID string) error {
	profile, ok := sess.Profile()
	if !ok || profile.Role != model.RoleAdmin {
		return ErrForbidden
	}
	removed, found := s.removePendingOptimistic(sess, taskID)
	if !found {
		return ErrTaskNotFound
	}

	if err := s.catalog.SetStatus(ctx, sess.Token(), taskID, model.TaskStatusApproved); err != nil {
		sess.AddPending(removed)
		return fmt.Errorf("approve task: %w", err)
	}
	sess.AddCatalogName(removed.Name)
	return nil
}

// Reject deletes a proposal outright.
func (s *CatalogService) Reject(ctx context.Context, sess *state.Session, taskID string) error {
	profile, ok := sess.Profile()
	if !ok || profile.Role != model.RoleAdmin {
		return ErrForbidden
	}
	removed, found := s.removePendingOptimistic(sess, taskID)
	if !found {
		return ErrTaskNotFound
	}

	if err := s.catalog.Delete(ctx, sess.Token(), taskID); err != nil {
		sess.AddPending(removed)
		return fmt.Errorf("reject task: %w", err)
	}
	return nil
}

func (s *CatalogService) removePendingOptimistic(sess *state.Session, taskID string) (model.ChargeableTask, bool) {
	return sess.RemovePending(taskID)
}
