package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-planner/internal/domain"
)

// TestDestination_UnmarshalJSON_dropsStaleVisitFields verifies that a stored
// record with visited=false never surfaces visit fields left over from an
// earlier visited state.
func TestDestination_UnmarshalJSON_dropsStaleVisitFields(t *testing.T) {
	raw := `{"id":"a","name":"Yosemite","state":"CA","type":"national-park",
		"visited":false,"visitedDate":"June 2024","visitedNotes":"great"}`

	var d domain.Destination
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.False(t, d.Visited())
	assert.Nil(t, d.Visit)
}

func TestDestination_JSONRoundTrip(t *testing.T) {
	lat, lon := 37.8651, -119.5383
	want := domain.Destination{
		ID:        "a",
		Name:      "Yosemite",
		State:     "California",
		Region:    "pacific-northwest",
		Type:      domain.TypeNationalPark,
		Latitude:  &lat,
		Longitude: &lon,
		Visit:     &domain.Visit{Date: "June 2024", Notes: "Half Dome at sunset"},
		FolderID:  "f1",
		Priority:  domain.PriorityHigh,
		Season:    domain.SeasonSummer,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(want)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, true, fields["visited"])
	assert.Equal(t, "June 2024", fields["visitedDate"])
	assert.Equal(t, "f1", fields["folder"])

	var got domain.Destination
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, want, got)
}

func TestDestination_Validate(t *testing.T) {
	tests := []struct {
		name    string
		d       domain.Destination
		wantErr bool
	}{
		{"valid", domain.Destination{Name: "Zion", Type: domain.TypeNationalPark}, false},
		{"blank name", domain.Destination{Name: "   ", Type: domain.TypeCity}, true},
		{"unknown type", domain.Destination{Name: "Zion", Type: "volcano"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDestination_Mappable(t *testing.T) {
	lat, lon, bad := 44.4, -110.5, 200.0

	assert.True(t, domain.Destination{Latitude: &lat, Longitude: &lon}.Mappable())
	assert.False(t, domain.Destination{Latitude: &lat}.Mappable())
	assert.False(t, domain.Destination{Latitude: &lat, Longitude: &bad}.Mappable())
}

func TestParseDestinationType(t *testing.T) {
	got, err := domain.ParseDestinationType(" National-Park ")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeNationalPark, got)

	got, err = domain.ParseDestinationType("")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeOther, got)

	_, err = domain.ParseDestinationType("volcano")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDestinationPatch_Apply(t *testing.T) {
	name := "  Zion NP "
	typ := domain.TypeNationalPark
	d := domain.Destination{ID: "z", Name: "Zion", State: "Utah", Type: domain.TypeOther, FolderID: "f1"}

	got := domain.DestinationPatch{Name: &name, Type: &typ}.Apply(d)

	assert.Equal(t, "Zion NP", got.Name)
	assert.Equal(t, domain.TypeNationalPark, got.Type)
	assert.Equal(t, "Utah", got.State, "untouched fields keep their value")
	assert.Equal(t, "f1", got.FolderID)
}

func TestDestinationPatch_Apply_normalizesLikeNewRecords(t *testing.T) {
	state := " Utah "
	d := domain.Destination{ID: "z", Name: "Zion", State: "Nevada"}

	got := domain.DestinationPatch{State: &state}.Apply(d)

	assert.Equal(t, "Utah", got.State)
	assert.Equal(t, domain.PriorityWishlist, got.Priority)
	assert.Equal(t, got, got.WithDefaults(), "an applied patch is already normalized")
}

func TestFilterState_Normalize(t *testing.T) {
	got := domain.FilterState{Folder: "unfiled-bucket", Search: "  YellowStone "}.Normalize()

	assert.Equal(t, domain.FolderWishlist, got.Folder)
	assert.Equal(t, domain.FilterAll, got.Type)
	assert.Equal(t, domain.FilterAll, got.Region)
	assert.Equal(t, "yellowstone", got.Search)
}

func TestPaginationParams_Bounds(t *testing.T) {
	page, limit := 2, 3
	p := domain.NewPaginationParams(&page, &limit)

	start, end := p.Bounds(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = p.Bounds(4)
	assert.Equal(t, 3, start)
	assert.Equal(t, 4, end)

	start, end = p.Bounds(2)
	assert.Equal(t, 2, start)
	assert.Equal(t, 2, end)

	huge, limit := 1<<62, domain.MaxPageLimit
	start, end = domain.NewPaginationParams(&huge, &limit).Bounds(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	start, end = domain.PaginationParams{}.Bounds(3)
	assert.Equal(t, 3, start, "zero value is an empty page")
	assert.Equal(t, 3, end)
}

func TestNewPaginationParams_defaultsAndClamp(t *testing.T) {
	zero, huge := 0, 500
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: domain.DefaultPageLimit}, domain.NewPaginationParams(nil, nil))
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: domain.MaxPageLimit}, domain.NewPaginationParams(&zero, &huge))
}

func TestParsePriorityAndSeason(t *testing.T) {
	pr, err := domain.ParsePriority(" High ")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, pr)

	_, err = domain.ParsePriority("urgent")
	require.ErrorIs(t, err, domain.ErrValidation)

	se, err := domain.ParseSeason("fall")
	require.NoError(t, err)
	assert.Equal(t, domain.SeasonFall, se)

	_, err = domain.ParseSeason("monsoon")
	require.ErrorIs(t, err, domain.ErrValidation)
}
