package projections

import (
	"context"
	"testing"

	"gohuddleup/internal/testkit"
)

// TestQuerySearchSchools filters by state and substring.
func TestQuerySearchSchools(t *testing.T) {
	s := openStores(t)
	ky := testkit.SeedDirectory(t, s.db)
	testkit.SeedSchool(t, s.db, "KY", "Lexington", "Lafayette High", "Generals FCA")
	testkit.SeedSchool(t, s.db, "TN", "Nashville", "Central Magnet", "Tigers FCA")
	deps := SearchSchoolsDeps{Directory: s.directory}
	ctx := context.Background()

	tests := []struct {
		name  string
		query SearchSchoolsQuery
		want  []string
	}{
		{"state only", SearchSchoolsQuery{StateCode: "ky"}, []string{"Central High School", "Lafayette High"}},
		{"state and query", SearchSchoolsQuery{StateCode: "KY", Query: "central"}, []string{"Central High School"}},
		{"query across states", SearchSchoolsQuery{Query: "Central"}, []string{"Central High School", "Central Magnet"}},
		{"limit", SearchSchoolsQuery{Query: "central", Limit: 1}, []string{"Central High School"}},
		{"unknown state", SearchSchoolsQuery{StateCode: "ZZ"}, nil},
		{"no match", SearchSchoolsQuery{StateCode: "TN", Query: "lafayette"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuerySearchSchools(ctx, tt.query, deps)
			if err != nil {
				t.Fatalf("QuerySearchSchools() error = %v", err)
			}
			if got == nil || len(got) != len(tt.want) {
				t.Fatalf("QuerySearchSchools() = %+v, want %v", got, tt.want)
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}

	got, err := QuerySearchSchools(ctx, SearchSchoolsQuery{StateCode: "KY", Query: "central"}, deps)
	if err != nil || len(got) != 1 {
		t.Fatalf("QuerySearchSchools() = %+v, %v", got, err)
	}
	if got[0].ID != ky.School.ID || got[0].Region != "Louisville Metro" || len(got[0].Huddles) != 1 || got[0].Huddles[0] != "Central FCA" {
		t.Errorf("result = %+v", got[0])
	}
}

// TestQueryListStates returns an empty list before seeding.
func TestQueryListStates(t *testing.T) {
	s := openStores(t)
	deps := ListStatesDeps{Directory: s.directory}

	states, err := QueryListStates(context.Background(), deps)
	if err != nil || states == nil || len(states) != 0 {
		t.Errorf("QueryListStates(empty) = %v, %v", states, err)
	}
	testkit.SeedDirectory(t, s.db)
	testkit.SeedSchool(t, s.db, "AL", "Birmingham", "Hoover High", "Bucs FCA")
	states, err = QueryListStates(context.Background(), deps)
	if err != nil || len(states) != 2 || states[0].Code != "AL" {
		t.Errorf("QueryListStates() = %+v, %v", states, err)
	}
}
