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

func TestJobRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewJobRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	cust := testutil.SeedCustomer(t, ctx, tx, "Maria Garcia")
	sub := testutil.SeedSubscription(t, ctx, tx, cust.ID, types.FrequencyWeekly, types.SubscriptionStatusActive)
	other := testutil.SeedSubscription(t, ctx, tx, cust.ID, types.FrequencyMonthly, types.SubscriptionStatusActive)

	done := testutil.SeedJob(t, ctx, tx, cust.ID, &sub.ID, "2026-02-02", types.JobStatusCompleted)
	next := testutil.SeedJob(t, ctx, tx, cust.ID, &sub.ID, "2026-02-09", types.JobStatusScheduled)
	later := testutil.SeedJob(t, ctx, tx, cust.ID, &sub.ID, "2026-02-16", types.JobStatusScheduled)
	oneOff := testutil.SeedJob(t, ctx, tx, cust.ID, nil, "2026-02-09", types.JobStatusScheduled)
	unrelated := testutil.SeedJob(t, ctx, tx, cust.ID, &other.ID, "2026-02-20", types.JobStatusScheduled)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(dbc, next.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got == nil || got.ID != next.ID {
			t.Fatalf("GetByID: want=%s got=%v", next.ID, got)
		}
		missing, err := repo.GetByID(dbc, uuid.New())
		if err != nil {
			t.Fatalf("GetByID(missing): %v", err)
		}
		if missing != nil {
			t.Fatalf("GetByID(missing): expected nil, got %v", missing.ID)
		}
	})

	t.Run("List newest date first", func(t *testing.T) {
		all, err := repo.List(dbc)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(all) != 5 {
			t.Fatalf("List: want=5 got=%d", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i-1].ScheduledDate < all[i].ScheduledDate {
				t.Fatalf("List not sorted desc at %d: %s < %s", i, all[i-1].ScheduledDate, all[i].ScheduledDate)
			}
		}
		if all[0].ID != unrelated.ID {
			t.Fatalf("List head: want=%s got=%s", unrelated.ID, all[0].ID)
		}
	})

	t.Run("ListByDate", func(t *testing.T) {
		got, err := repo.ListByDate(dbc, "2026-02-09")
		if err != nil {
			t.Fatalf("ListByDate: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("ListByDate: want=2 got=%d", len(got))
		}
		ids := map[uuid.UUID]bool{got[0].ID: true, got[1].ID: true}
		if !ids[next.ID] || !ids[oneOff.ID] {
			t.Fatalf("ListByDate: unexpected ids %v", ids)
		}
	})

	t.Run("ListByDate orders by window start", func(t *testing.T) {
		windows := map[uuid.UUID]string{next.ID: "10:00 AM - 12:00 PM", oneOff.ID: "9:00 AM - 11:00 AM"}
		for id, w := range windows {
			if err := tx.Model(&types.Job{}).Where("id = ?", id).Update("arrival_window", w).Error; err != nil {
				t.Fatalf("set window: %v", err)
			}
		}
		early := testutil.SeedJob(t, ctx, tx, cust.ID, nil, "2026-02-09", types.JobStatusScheduled)
		if err := tx.Model(&types.Job{}).Where("id = ?", early.ID).Update("arrival_window", "1:00 PM - 3:00 PM").Error; err != nil {
			t.Fatalf("set window: %v", err)
		}
		got, err := repo.ListByDate(dbc, "2026-02-09")
		if err != nil {
			t.Fatalf("ListByDate: %v", err)
		}
		order := make([]string, 0, len(got))
		for _, j := range got {
			order = append(order, j.ArrivalWindow)
		}
		if len(got) != 3 || got[0].ID != oneOff.ID || got[1].ID != next.ID || got[2].ID != early.ID {
			t.Fatalf("ListByDate order: %v", order)
		}
		if err := tx.Delete(&types.Job{}, "id = ?", early.ID).Error; err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	})

	t.Run("ListBySubscription and latest", func(t *testing.T) {
		got, err := repo.ListBySubscription(dbc, sub.ID)
		if err != nil {
			t.Fatalf("ListBySubscription: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("ListBySubscription: want=3 got=%d", len(got))
		}
		latest, err := repo.LatestBySubscription(dbc, sub.ID)
		if err != nil {
			t.Fatalf("LatestBySubscription: %v", err)
		}
		if latest == nil || latest.ID != later.ID {
			t.Fatalf("LatestBySubscription: want=%s got=%v", later.ID, latest)
		}
		exists, err := repo.ExistsForSubscriptionOnDate(dbc, sub.ID, "2026-02-16")
		if err != nil || !exists {
			t.Fatalf("ExistsForSubscriptionOnDate: exists=%v err=%v", exists, err)
		}
		exists, err = repo.ExistsForSubscriptionOnDate(dbc, sub.ID, "2026-02-23")
		if err != nil || exists {
			t.Fatalf("ExistsForSubscriptionOnDate(free): exists=%v err=%v", exists, err)
		}
	})

	t.Run("CancelScheduledBySubscription", func(t *testing.T) {
		n, err := repo.CancelScheduledBySubscription(dbc, sub.ID, time.Now().UTC())
		if err != nil {
			t.Fatalf("CancelScheduledBySubscription: %v", err)
		}
		if n != 2 {
			t.Fatalf("cancelled rows: want=2 got=%d", n)
		}
		for id, want := range map[uuid.UUID]string{
			done.ID:      types.JobStatusCompleted,
			next.ID:      types.JobStatusCancelled,
			later.ID:     types.JobStatusCancelled,
			oneOff.ID:    types.JobStatusScheduled,
			unrelated.ID: types.JobStatusScheduled,
		} {
			got, err := repo.GetByID(dbc, id)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if got.Status != want {
				t.Fatalf("job %s status: want=%s got=%s", id, want, got.Status)
			}
			if got.PriceSnapshot != 166.5 {
				t.Fatalf("job %s price snapshot changed: %v", id, got.PriceSnapshot)
			}
		}
		again, err := repo.CancelScheduledBySubscription(dbc, sub.ID, time.Now().UTC())
		if err != nil {
			t.Fatalf("CancelScheduledBySubscription(again): %v", err)
		}
		if again != 0 {
			t.Fatalf("second cascade should affect nothing, got %d", again)
		}
	})
}
