package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/service"
	"github.com/pkordes/rv-planner/internal/view"
)

func newDestinationService(t *testing.T) (*service.DestinationService, *service.CollectionStore) {
	t.Helper()
	store := newStore(t)
	return service.NewDestinationService(store, newCatalog(t)), store
}

// ---- Add -------------------------------------------------------------------

func TestDestinationService_Add_Valid(t *testing.T) {
	svc, _ := newDestinationService(t)

	got, err := svc.Add(context.Background(), owner, domain.Destination{
		Name:  "  Moab ",
		State: "Utah",
		Type:  domain.TypeCity,
		Visit: &domain.Visit{Date: "ignored"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Moab", got.Name)
	assert.False(t, got.Visited(), "new destinations start on the wishlist")
	assert.Equal(t, domain.PriorityWishlist, got.Priority)
	assert.Equal(t, domain.SeasonAny, got.Season)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDestinationService_Add_Validation(t *testing.T) {
	svc, _ := newDestinationService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, owner, domain.Destination{Name: "   ", State: "Utah"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Add(ctx, owner, domain.Destination{Name: "Moab"})
	assert.ErrorIs(t, err, domain.ErrValidation, "state is required")

	_, err = svc.Add(ctx, owner, domain.Destination{Name: "Moab", State: "Utah", Type: "volcano"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- AddFromCatalog --------------------------------------------------------

func TestDestinationService_AddFromCatalog_MapMeansVisited(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()

	got, err := svc.AddFromCatalog(ctx, owner, "p1", service.OriginMap)

	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	assert.True(t, got.Visited())

	ds, err := store.Load(ctx, owner)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.True(t, ds[0].Visited())
}

func TestDestinationService_AddFromCatalog_ListMeansWishlist(t *testing.T) {
	svc, _ := newDestinationService(t)

	got, err := svc.AddFromCatalog(context.Background(), owner, "arches", service.OriginList)

	require.NoError(t, err)
	assert.False(t, got.Visited())
	assert.Equal(t, "Arches", got.Name)
}

func TestDestinationService_AddFromCatalog_Errors(t *testing.T) {
	svc, _ := newDestinationService(t)
	ctx := context.Background()

	_, err := svc.AddFromCatalog(ctx, owner, "atlantis", service.OriginList)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddFromCatalog(ctx, owner, "p1", service.OriginList)
	require.NoError(t, err)
	_, err = svc.AddFromCatalog(ctx, owner, "p1", service.OriginMap)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// TestDestinationService_AdoptFromMap_RendersVisitedPin follows a curated
// pin through adoption and checks the next map render.
func TestDestinationService_AdoptFromMap_RendersVisitedPin(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	curated := newCatalog(t).ListCurated()

	_, err := svc.AddFromCatalog(ctx, owner, "p1", service.OriginMap)
	require.NoError(t, err)

	ds, err := store.Load(ctx, owner)
	require.NoError(t, err)
	m := view.RenderMap(view.Merge(ds, curated, domain.FilterState{}).Pins)

	require.Len(t, m.Markers, 1)
	assert.Equal(t, "p1", m.Markers[0].ID)
	assert.Equal(t, view.ColorVisited, m.Markers[0].ColorClass)
}

func TestParseOrigin(t *testing.T) {
	o, err := service.ParseOrigin("")
	require.NoError(t, err)
	assert.Equal(t, service.OriginList, o)

	o, err = service.ParseOrigin("MAP")
	require.NoError(t, err)
	assert.Equal(t, service.OriginMap, o)

	_, err = service.ParseOrigin("satellite")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- ToggleVisited ---------------------------------------------------------

func TestDestinationService_ToggleVisited_RoundTrip(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	original := domain.Destination{ID: "a", Name: "Yosemite", State: "California", Type: domain.TypeNationalPark}
	seed(t, store, original)

	visitForm := formDialog(t, map[string]string{
		service.FieldVisitDate:  " June 2026 ",
		service.FieldVisitNotes: "Half Dome",
	}, true)

	got, err := svc.ToggleVisited(ctx, owner, "a", visitForm)
	require.NoError(t, err)
	require.True(t, got.Visited())
	assert.Equal(t, domain.Visit{Date: "June 2026", Notes: "Half Dome"}, *got.Visit)

	got, err = svc.ToggleVisited(ctx, owner, "a", confirmDialog(t, true))
	require.NoError(t, err)
	assert.False(t, got.Visited())
	assert.Nil(t, got.Visit, "visit fields are cleared")
	afterOne := got

	_, err = svc.ToggleVisited(ctx, owner, "a", visitForm)
	require.NoError(t, err)
	got, err = svc.ToggleVisited(ctx, owner, "a", confirmDialog(t, true))
	require.NoError(t, err)

	assert.Equal(t, afterOne, got, "a second round trip ends in the same state")
	assert.Equal(t, original, got)
}

func TestDestinationService_ToggleVisited_CancelIsNoOp(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store,
		domain.Destination{ID: "w", Name: "Wish", Type: domain.TypeCity},
		domain.Destination{ID: "v", Name: "Been", Type: domain.TypeCity, Visit: &domain.Visit{Notes: "keep me"}},
	)

	_, err := svc.ToggleVisited(ctx, owner, "w", formDialog(t, nil, false))
	require.ErrorIs(t, err, domain.ErrCancelled)

	_, err = svc.ToggleVisited(ctx, owner, "v", confirmDialog(t, false))
	require.ErrorIs(t, err, domain.ErrCancelled)

	ds, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.False(t, ds[0].Visited())
	require.True(t, ds[1].Visited())
	assert.Equal(t, "keep me", ds[1].Visit.Notes)
}

func TestDestinationService_ToggleVisited_NotFound(t *testing.T) {
	svc, _ := newDestinationService(t)

	_, err := svc.ToggleVisited(context.Background(), owner, "missing", noDialog(t))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Edit ------------------------------------------------------------------

func TestDestinationService_Edit_PrefillsAndSaves(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", State: "Utah", Type: domain.TypeOther, FolderID: "f1"})

	var shown domain.Form
	dlg := &mockDialog{t: t, promptForm: func(_ context.Context, f domain.Form) (map[string]string, bool, error) {
		shown = f
		return map[string]string{
			service.FieldName: "Zion National Park",
			service.FieldType: "national-park",
		}, true, nil
	}}

	got, err := svc.Edit(ctx, owner, "a", dlg)

	require.NoError(t, err)
	assert.Equal(t, "Zion", shown.Fields[0].Value, "form is pre-filled")
	assert.Equal(t, "Zion National Park", got.Name)
	assert.Equal(t, domain.TypeNationalPark, got.Type)
	assert.Equal(t, "Utah", got.State)
	assert.Equal(t, "f1", got.FolderID, "folder survives an edit")
}

func TestDestinationService_Edit_RepromptsOnBlankName(t *testing.T) {
	svc, store := newDestinationService(t)
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", State: "Utah", Type: domain.TypeNationalPark})

	var forms []domain.Form
	dlg := &mockDialog{t: t, promptForm: func(_ context.Context, f domain.Form) (map[string]string, bool, error) {
		forms = append(forms, f)
		if len(forms) == 1 {
			return map[string]string{service.FieldName: "  "}, true, nil
		}
		return map[string]string{service.FieldName: "Zion NP"}, true, nil
	}}

	got, err := svc.Edit(context.Background(), owner, "a", dlg)

	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Empty(t, forms[0].Problem)
	assert.Equal(t, "Name is required", forms[1].Problem)
	assert.Equal(t, "Zion NP", got.Name)
}

func TestDestinationService_Edit_Cancel(t *testing.T) {
	svc, store := newDestinationService(t)
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", Type: domain.TypeNationalPark})

	_, err := svc.Edit(context.Background(), owner, "a", formDialog(t, nil, false))

	assert.ErrorIs(t, err, domain.ErrCancelled)
}

// ---- Update ----------------------------------------------------------------

func TestDestinationService_Update(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", Type: domain.TypeNationalPark})

	notes := "Book Watchman early"
	got, err := svc.Update(ctx, owner, "a", domain.DestinationPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)

	blank := " "
	_, err = svc.Update(ctx, owner, "a", domain.DestinationPatch{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, owner, "missing", domain.DestinationPatch{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDestinationService_Update_StateCannotBeCleared(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", State: "Utah", Type: domain.TypeNationalPark})

	blank := "  "
	_, err := svc.Update(ctx, owner, "a", domain.DestinationPatch{State: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.Get(ctx, owner, "a")
	require.NoError(t, err)
	assert.Equal(t, "Utah", got.State)
}

func TestDestinationService_Edit_RepromptsOnBlankState(t *testing.T) {
	svc, store := newDestinationService(t)
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", State: "Utah", Type: domain.TypeNationalPark})

	var forms []domain.Form
	dlg := &mockDialog{t: t, promptForm: func(_ context.Context, f domain.Form) (map[string]string, bool, error) {
		forms = append(forms, f)
		if len(forms) == 1 {
			return map[string]string{service.FieldState: ""}, true, nil
		}
		return map[string]string{service.FieldState: "Utah"}, true, nil
	}}

	_, err := svc.Edit(context.Background(), owner, "a", dlg)

	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "State is required", forms[1].Problem)
}

// ---- Delete ----------------------------------------------------------------

func TestDestinationService_Delete(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store, domain.Destination{ID: "a", Name: "Zion"}, domain.Destination{ID: "b", Name: "Bryce"})

	var asked string
	dlg := &mockDialog{t: t, confirm: func(_ context.Context, msg string) (bool, error) {
		asked = msg
		return true, nil
	}}

	require.NoError(t, svc.Delete(ctx, owner, "a", dlg))
	assert.Contains(t, asked, "Zion")

	ds, err := store.Load(ctx, owner)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "b", ds[0].ID)

	require.NoError(t, svc.Delete(ctx, owner, "a", noDialog(t)), "deleting again is a no-op")
}

func TestDestinationService_Delete_Cancel(t *testing.T) {
	svc, store := newDestinationService(t)
	seed(t, store, domain.Destination{ID: "a", Name: "Zion"})

	err := svc.Delete(context.Background(), owner, "a", confirmDialog(t, false))

	require.ErrorIs(t, err, domain.ErrCancelled)
	ds, _ := store.Load(context.Background(), owner)
	assert.Len(t, ds, 1)
}

// ---- folders ---------------------------------------------------------------

func TestDestinationService_AssignFolder(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store, domain.Destination{ID: "a", Name: "Zion"})
	seedFolders(t, store, domain.Folder{ID: "f1", Name: "Utah"})

	var options []domain.Option
	dlg := &mockDialog{t: t, promptForm: func(_ context.Context, f domain.Form) (map[string]string, bool, error) {
		options = f.Fields[0].Options
		return map[string]string{service.FieldFolder: "f1"}, true, nil
	}}

	got, err := svc.AssignFolder(ctx, owner, "a", dlg)

	require.NoError(t, err)
	assert.Equal(t, "f1", got.FolderID)
	assert.Equal(t, []domain.Option{{Label: "Unfiled", Value: ""}, {Label: "Utah", Value: "f1"}}, options)
}

func TestDestinationService_AssignFolder_NoFolders(t *testing.T) {
	svc, store := newDestinationService(t)
	seed(t, store, domain.Destination{ID: "a", Name: "Zion"})

	_, err := svc.AssignFolder(context.Background(), owner, "a", noDialog(t))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDestinationService_SetFolder(t *testing.T) {
	svc, store := newDestinationService(t)
	ctx := context.Background()
	seed(t, store, domain.Destination{ID: "a", Name: "Zion", FolderID: "f1"})
	seedFolders(t, store, domain.Folder{ID: "f1", Name: "Utah"})

	_, err := svc.SetFolder(ctx, owner, "a", "nope")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.SetFolder(ctx, owner, "a", "")
	require.NoError(t, err)
	assert.Empty(t, got.FolderID)

	_, err = svc.SetFolder(ctx, owner, "missing", "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
