package achievement_test

import (
	"context"
	"testing"

	achievementstore "gohuddleup/internal/adapters/storage/achievement"
	domain "gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/testkit"
)

// TestSQLStore_InsertAndList returns achievements most recently earned first.
func TestSQLStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenDB(t)
	p := testkit.SeedStudent(t, db, "Ada", testkit.Directory{})
	store := achievementstore.NewSQLStore(db)

	for _, a := range []domain.Achievement{
		{ID: "a1", StudentID: p.ID, Type: domain.TypeFCA, Title: "Camp Graduate", DateEarned: "2024-06-20", PointsAwarded: 30, CreatedAt: testkit.Now},
		{ID: "a2", StudentID: p.ID, Type: domain.TypeLeadership, Title: "Huddle Leader", DateEarned: "2024-08-15", PointsAwarded: 50, AwardedBy: "Coach Reed", CreatedAt: testkit.Now},
	} {
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert(%s): %v", a.ID, err)
		}
	}

	got, err := store.ListByStudentID(ctx, p.ID)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByStudentID() = %+v, %v", got, err)
	}
	if got[0].Title != "Huddle Leader" || got[0].AwardedBy != "Coach Reed" || got[0].Type != domain.TypeLeadership {
		t.Errorf("first achievement = %+v", got[0])
	}
	if total := domain.TotalPoints(got); total != 80 {
		t.Errorf("TotalPoints() = %d, want 80", total)
	}
	if none, err := store.ListByStudentID(ctx, "missing"); err != nil || len(none) != 0 {
		t.Errorf("ListByStudentID(missing) = %+v, %v", none, err)
	}
}
