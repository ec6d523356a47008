package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/domain/school"
)

// DirectoryStoreForSeed defines the store interface needed by the seed orchestrators.
type DirectoryStoreForSeed interface {
	InsertState(ctx context.Context, v school.State) error
	GetStateByCode(ctx context.Context, code string) (school.State, error)
	ListStates(ctx context.Context) ([]school.State, error)
	InsertRegion(ctx context.Context, v school.Region) error
	ListRegions(ctx context.Context, stateID string) ([]school.Region, error)
	InsertSchool(ctx context.Context, v school.School) error
	FindSchoolByName(ctx context.Context, name string) (school.School, error)
	InsertHuddle(ctx context.Context, v school.Huddle) error
	FindHuddleByName(ctx context.Context, schoolID, name string) (school.Huddle, error)
}

// SeedDeps holds dependencies for the seed orchestrators.
type SeedDeps struct {
	Directory DirectoryStoreForSeed
	Now       func() time.Time
}

// ExecuteSeedStates inserts every US state that is not yet present.
// PRE: none
// POST: All 50 states exist; returns how many were inserted
func ExecuteSeedStates(ctx context.Context, deps SeedDeps) (int, error) {
	existing, err := deps.Directory.ListStates(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, s := range existing {
		have[s.Code] = true
	}

	inserted := 0
	now := deps.Now()
	for _, info := range school.USStates {
		if have[info.Code] {
			continue
		}
		st := school.State{ID: uuid.NewString(), Code: info.Code, Name: info.Name, CreatedAt: now}
		if err := st.Validate(); err != nil {
			return inserted, err
		}
		if err := deps.Directory.InsertState(ctx, st); err != nil {
			return inserted, err
		}
		inserted++
	}
	if inserted > 0 {
		slog.Info("seed_event", "event", "states_seeded", "count", inserted)
	}
	return inserted, nil
}

// DemoDirectory names the sample rows created by ExecuteSeedDemo.
var DemoDirectory = struct {
	StateCode, Region, School, City, Huddle string
}{"KY", "Louisville Metro", "Louisville Male High School", "Louisville", "Bulldogs FCA Huddle"}

// SeedDemoResult carries the sample directory rows.
type SeedDemoResult struct {
	State  school.State
	Region school.Region
	School school.School
	Huddle school.Huddle
}

// ExecuteSeedDemo seeds states plus one sample region, school and huddle.
// PRE: none
// POST: The sample rows exist; existing rows with the same names are reused
func ExecuteSeedDemo(ctx context.Context, deps SeedDeps) (SeedDemoResult, error) {
	if _, err := ExecuteSeedStates(ctx, deps); err != nil {
		return SeedDemoResult{}, err
	}
	now := deps.Now()
	var res SeedDemoResult

	st, err := deps.Directory.GetStateByCode(ctx, DemoDirectory.StateCode)
	if err != nil {
		return SeedDemoResult{}, err
	}
	res.State = st

	regions, err := deps.Directory.ListRegions(ctx, st.ID)
	if err != nil {
		return SeedDemoResult{}, err
	}
	for _, r := range regions {
		if school.SameName(r.Name, DemoDirectory.Region) {
			res.Region = r
		}
	}
	if res.Region.ID == "" {
		res.Region = school.Region{ID: uuid.NewString(), Name: DemoDirectory.Region, StateID: st.ID, CreatedAt: now}
		if err := deps.Directory.InsertRegion(ctx, res.Region); err != nil {
			return SeedDemoResult{}, err
		}
	}

	res.School, err = deps.Directory.FindSchoolByName(ctx, DemoDirectory.School)
	if isNotFound(err) {
		res.School = school.School{ID: uuid.NewString(), Name: DemoDirectory.School, City: DemoDirectory.City, CreatedAt: now}
		res.School.PlaceIn(res.Region)
		err = deps.Directory.InsertSchool(ctx, res.School)
	}
	if err != nil {
		return SeedDemoResult{}, err
	}

	res.Huddle, err = deps.Directory.FindHuddleByName(ctx, res.School.ID, DemoDirectory.Huddle)
	if isNotFound(err) {
		res.Huddle = school.Huddle{ID: uuid.NewString(), Name: DemoDirectory.Huddle, SchoolID: res.School.ID, CreatedAt: now}
		err = deps.Directory.InsertHuddle(ctx, res.Huddle)
	}
	if err != nil {
		return SeedDemoResult{}, err
	}

	slog.Info("seed_event", "event", "demo_seeded", "school_id", res.School.ID, "huddle_id", res.Huddle.ID)
	return res, nil
}
