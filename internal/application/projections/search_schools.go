package projections

import (
	"context"
	"strings"

	schoolstore "gohuddleup/internal/adapters/storage/school"
	"gohuddleup/internal/domain/school"
)

// DefaultSchoolSearchLimit caps QuerySearchSchools when the query sets no limit.
const DefaultSchoolSearchLimit = 20

// SearchSchoolsQuery carries query parameters.
type SearchSchoolsQuery struct {
	StateCode string
	Query     string
	Limit     int
}

// SchoolSearchResult is one school with the names of its huddles.
type SchoolSearchResult struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	City    string   `json:"city"`
	Region  string   `json:"region"`
	Huddles []string `json:"huddles"`
}

// SearchSchoolsDeps holds dependencies for SearchSchools.
type SearchSchoolsDeps struct {
	Directory DirectoryStore
}

// QuerySearchSchools finds schools by name or city within a state.
// PRE: none
// POST: An unknown state code yields an empty result, not an error
func QuerySearchSchools(ctx context.Context, query SearchSchoolsQuery, deps SearchSchoolsDeps) ([]SchoolSearchResult, error) {
	filter := schoolstore.SchoolFilter{Query: query.Query, Limit: query.Limit}
	if filter.Limit <= 0 {
		filter.Limit = DefaultSchoolSearchLimit
	}
	if code := strings.TrimSpace(query.StateCode); code != "" {
		st, err := deps.Directory.GetStateByCode(ctx, code)
		if isMissing(err) {
			return []SchoolSearchResult{}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.StateID = st.ID
	}

	schools, err := deps.Directory.ListSchools(ctx, filter)
	if err != nil {
		return nil, err
	}
	regions := make(map[string]string)
	results := make([]SchoolSearchResult, 0, len(schools))
	for _, sc := range schools {
		name, ok := regions[sc.RegionID]
		if !ok {
			r, err := deps.Directory.GetRegion(ctx, sc.RegionID)
			if err := ignoreMissing(err); err != nil {
				return nil, err
			}
			name = r.Name
			regions[sc.RegionID] = name
		}
		huddles, err := deps.Directory.ListHuddles(ctx, sc.ID)
		if err != nil {
			return nil, err
		}
		res := SchoolSearchResult{ID: sc.ID, Name: sc.Name, City: sc.City, Region: name, Huddles: make([]string, 0, len(huddles))}
		for _, h := range huddles {
			res.Huddles = append(res.Huddles, h.Name)
		}
		results = append(results, res)
	}
	return results, nil
}

// ListStatesDeps holds dependencies for ListStates.
type ListStatesDeps struct {
	Directory DirectoryStore
}

// QueryListStates returns the seeded states ordered by name.
func QueryListStates(ctx context.Context, deps ListStatesDeps) ([]school.State, error) {
	states, err := deps.Directory.ListStates(ctx)
	if err != nil {
		return nil, err
	}
	if states == nil {
		states = []school.State{}
	}
	return states, nil
}
