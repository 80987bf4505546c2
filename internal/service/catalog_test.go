package service

import (
	"context"
	"errors"
	"testing"

	"feuilletemps/internal/model"
	"feuilletemps/internal/state"
)

type fakeCatalog struct {
	approved  []string
	pending   []model.ChargeableTask
	byName    map[string][]model.ChargeableTask
	proposed  []string
	statusErr error
	deleteErr error
	statuses  map[string]string
	deleted   []string
}

func (f *fakeCatalog) ApprovedNames(ctx context.Context, token string) ([]string, error) {
	return f.approved, nil
}

func (f *fakeCatalog) ListPending(ctx context.Context, token string) ([]model.ChargeableTask, error) {
	return f.pending, nil
}

func (f *fakeCatalog) FindByName(ctx context.Context, token, name string) ([]model.ChargeableTask, error) {
	return f.byName[name], nil
}

func (f *fakeCatalog) Propose(ctx context.Context, token, name, proposerID string) error {
	f.proposed = append(f.proposed, name)
	return nil
}

func (f *fakeCatalog) SetStatus(ctx context.Context, token, id, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeCatalog) Delete(ctx context.Context, token, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func adminSession(t *testing.T, pending ...model.ChargeableTask) *state.Session {
	t.Helper()
	sess := state.NewManager().Login("tok", boss.ID, boss.Username)
	sess.SetProfile(boss)
	sess.SetPending(pending)
	return sess
}

func TestProposeEmptyName(t *testing.T) {
	svc := NewCatalogService(&fakeCatalog{}, &fakeProfiles{})
	sess := newSession(t, alice)
	if err := svc.Propose(context.Background(), sess, "   "); !errors.Is(err, ErrEmptyField) {
		t.Fatalf("err = %v, want ErrEmptyField", err)
	}
}

func TestProposeDuplicate(t *testing.T) {
	catalog := &fakeCatalog{byName: map[string][]model.ChargeableTask{
		"Projet Alpha": {{ID: "ct-1", Name: "Projet Alpha"}},
	}}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := newSession(t, alice)

	if err := svc.Propose(context.Background(), sess, "Projet Alpha"); !errors.Is(err, ErrDuplicateTask) {
		t.Fatalf("err = %v, want ErrDuplicateTask", err)
	}
	if len(catalog.proposed) != 0 {
		t.Fatalf("duplicate must not reach the store, proposed = %v", catalog.proposed)
	}
}

func TestProposeTrimsAndSubmits(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := newSession(t, alice)

	if err := svc.Propose(context.Background(), sess, "  Projet Beta  "); err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if len(catalog.proposed) != 1 || catalog.proposed[0] != "Projet Beta" {
		t.Fatalf("proposed = %v", catalog.proposed)
	}
}

func TestRefreshPendingResolvesProposers(t *testing.T) {
	catalog := &fakeCatalog{pending: []model.ChargeableTask{
		{ID: "ct-1", Name: "Projet Alpha", ProposedBy: "e1"},
		{ID: "ct-2", Name: "Projet Beta", ProposedBy: "ghost"},
	}}
	profiles := &fakeProfiles{profiles: map[string]model.Profile{"e1": alice}}
	svc := NewCatalogService(catalog, profiles)
	sess := adminSession(t)

	if err := svc.RefreshPending(context.Background(), sess); err != nil {
		t.Fatalf("RefreshPending: %v", err)
	}
	pending := sess.Pending()
	if len(pending) != 2 {
		t.Fatalf("pending = %+v", pending)
	}
	if pending[0].ProposerName != "Alice" {
		t.Fatalf("proposer 0 = %q", pending[0].ProposerName)
	}
	if pending[1].ProposerName != "Inconnu" {
		t.Fatalf("unknown proposer must fall back, got %q", pending[1].ProposerName)
	}
}

func TestRefreshPendingNonAdminIsNoop(t *testing.T) {
	catalog := &fakeCatalog{pending: []model.ChargeableTask{{ID: "ct-1", Name: "X"}}}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := newSession(t, alice)

	if err := svc.RefreshPending(context.Background(), sess); err != nil {
		t.Fatalf("RefreshPending: %v", err)
	}
	if len(sess.Pending()) != 0 {
		t.Fatalf("non-admin pending = %+v", sess.Pending())
	}
}

func TestApprove(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := adminSession(t, model.ChargeableTask{ID: "ct-1", Name: "Projet Alpha"})

	if err := svc.Approve(context.Background(), sess, "ct-1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if catalog.statuses["ct-1"] != model.TaskStatusApproved {
		t.Fatalf("statuses = %v", catalog.statuses)
	}
	if len(sess.Pending()) != 0 {
		t.Fatalf("pending = %+v", sess.Pending())
	}
	found := false
	for _, n := range sess.Catalog() {
		if n == "Projet Alpha" {
			found = true
		}
	}
	if !found {
		t.Fatalf("approved name missing from catalog: %v", sess.Catalog())
	}
}

func TestApproveRollbackOnRemoteFailure(t *testing.T) {
	catalog := &fakeCatalog{statusErr: errors.New("rls denied")}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := adminSession(t, model.ChargeableTask{ID: "ct-1", Name: "Projet Alpha"})

	if err := svc.Approve(context.Background(), sess, "ct-1"); err == nil {
		t.Fatal("expected remote failure to surface")
	}
	if len(sess.Pending()) != 1 {
		t.Fatalf("pending must be restored, got %+v", sess.Pending())
	}
	if len(sess.Catalog()) != 0 {
		t.Fatalf("failed approval must not enter the catalog: %v", sess.Catalog())
	}
}

func TestApproveForbiddenForEmployee(t *testing.T) {
	svc := NewCatalogService(&fakeCatalog{}, &fakeProfiles{})
	sess := newSession(t, alice)
	if err := svc.Approve(context.Background(), sess, "ct-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestReject(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := adminSession(t, model.ChargeableTask{ID: "ct-1", Name: "Projet Alpha"})

	if err := svc.Reject(context.Background(), sess, "ct-1"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if len(catalog.deleted) != 1 || catalog.deleted[0] != "ct-1" {
		t.Fatalf("deleted = %v", catalog.deleted)
	}
	if len(sess.Catalog()) != 0 {
		t.Fatalf("rejected name must never enter the catalog: %v", sess.Catalog())
	}
}

func TestRejectRollbackOnRemoteFailure(t *testing.T) {
	catalog := &fakeCatalog{deleteErr: errors.New("remote down")}
	svc := NewCatalogService(catalog, &fakeProfiles{})
	sess := adminSession(t, model.ChargeableTask{ID: "ct-1", Name: "Projet Alpha"})

	if err := svc.Reject(context.Background(), sess, "ct-1"); err == nil {
		t.Fatal("expected remote failure to surface")
	}
	if len(sess.Pending()) != 1 {
		t.Fatalf("pending must be restored, got %+v", sess.Pending())
	}
}
