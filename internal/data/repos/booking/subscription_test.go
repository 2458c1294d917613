package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/tidyhome-backend/internal/data/repos/testutil"
	types "github.com/yungbote/tidyhome-backend/internal/domain"
	"github.com/yungbote/tidyhome-backend/internal/platform/dbctx"
)

func TestSubscriptionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubscriptionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	cust := testutil.SeedCustomer(t, ctx, tx, "James Wilson")
	created, err := repo.Create(dbc, []*types.Subscription{
		{CustomerID: cust.ID, Frequency: types.FrequencyWeekly, StartDate: "2026-01-05", Status: types.SubscriptionStatusActive},
		{CustomerID: cust.ID, Frequency: types.FrequencyMonthly, StartDate: "2026-03-01", Status: types.SubscriptionStatusPaused},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil || created[1].ID == uuid.Nil {
		t.Fatalf("Create should assign ids")
	}

	locked, err := repo.LockByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if locked == nil || locked.Frequency != types.FrequencyWeekly {
		t.Fatalf("LockByID: unexpected row %+v", locked)
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].StartDate != "2026-03-01" {
		t.Fatalf("List: unexpected order %+v", all)
	}

	active, err := repo.ListByStatus(dbc, []string{types.SubscriptionStatusActive})
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(active) != 1 || active[0].ID != created[0].ID {
		t.Fatalf("ListByStatus: unexpected %+v", active)
	}

	if err := repo.UpdateStatus(dbc, created[0].ID, types.SubscriptionStatusCancelled, time.Now().UTC()); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != types.SubscriptionStatusCancelled {
		t.Fatalf("status: want=cancelled got=%s", got.Status)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): row=%v err=%v", missing, err)
	}
}
