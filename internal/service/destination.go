package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/domain"
)

// Origin says where a catalog entry was adopted from.
type Origin string

const (
	// OriginMap is the quick "I've been here" log from a map pin: the new
	// record starts out visited.
	OriginMap Origin = "map"
	// OriginList is "add to bucket list" from the discover list: the new
	// record starts out on the wishlist.
	OriginList Origin = "list"
)

// ParseOrigin validates an origin string. Empty means OriginList.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(strings.ToLower(strings.TrimSpace(s))) {
	case "", OriginList:
		return OriginList, nil
	case OriginMap:
		return OriginMap, nil
	}
	return "", fmt.Errorf("%w: unknown origin %q", domain.ErrValidation, s)
}

// Form field IDs used by the destination flows.
const (
	FieldVisitDate  = "visitedDate"
	FieldVisitNotes = "visitedNotes"
	FieldName       = "name"
	FieldState      = "state"
	FieldRegion     = "region"
	FieldType       = "type"
	FieldNotes      = "notes"
	FieldPriority   = "priority"
	FieldSeason     = "season"
	FieldBestSeason = "bestSeason"
	FieldCost       = "estimatedCost"
	FieldMustSee    = "mustSee"
	FieldFolder     = "folder"
)

// DestinationService implements the destination flows: add, adopt from the
// catalog, toggle visited, edit, delete and folder assignment.
type DestinationService struct {
	store   *CollectionStore
	catalog *catalog.Provider
	now     func() time.Time
}

// NewDestinationService constructs a DestinationService. cat may be nil,
// in which case every catalog lookup misses.
func NewDestinationService(store *CollectionStore, cat *catalog.Provider) *DestinationService {
	return &DestinationService{store: store, catalog: cat, now: time.Now}
}

// List returns the owner's whole collection.
func (s *DestinationService) List(ctx context.Context, owner string) ([]domain.Destination, error) {
	ds, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.DestinationService.List: %w", err)
	}
	return ds, nil
}

// Get returns one destination.
func (s *DestinationService) Get(ctx context.Context, owner, id string) (domain.Destination, error) {
	d, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.Get: %w", err)
	}
	return d, nil
}

// Add validates and stores a new, unvisited destination. Name and state
// are required. The destination gets a fresh ID; visit and folder fields
// on the input are ignored.
func (s *DestinationService) Add(ctx context.Context, owner string, d domain.Destination) (domain.Destination, error) {
	d = d.WithDefaults()
	if d.State == "" {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.Add: %w: state is required", domain.ErrValidation)
	}
	if err := d.Validate(); err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.Add: %w", err)
	}

	d.ID = uuid.NewString()
	d.Visit = nil
	d.FolderID = ""
	d.CreatedAt = s.now().UTC()

	if err := s.store.Add(ctx, owner, d); err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.Add: %w", err)
	}
	return d, nil
}

// AddFromCatalog copies a catalog entry into the collection under the
// entry's own ID. Adopting from the map marks it visited; adopting from
// the list puts it on the wishlist. Adopting twice fails with
// domain.ErrConflict.
func (s *DestinationService) AddFromCatalog(ctx context.Context, owner, entryID string, origin Origin) (domain.Destination, error) {
	entry, ok := s.catalog.Get(entryID)
	if !ok {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.AddFromCatalog: catalog entry %q: %w", entryID, domain.ErrNotFound)
	}

	d := entry.ToDestination()
	d.CreatedAt = s.now().UTC()
	if origin == OriginMap {
		d.Visit = &domain.Visit{}
	}

	if err := s.store.Add(ctx, owner, d); err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.AddFromCatalog: %w", err)
	}
	return d, nil
}

// ToggleVisited flips the visited state.
//
// Marking visited asks for an optional visit date and notes. Marking
// unvisited asks for confirmation first because the visit date and notes
// are discarded.
func (s *DestinationService) ToggleVisited(ctx context.Context, owner, id string, dlg Dialog) (domain.Destination, error) {
	const op = "service.DestinationService.ToggleVisited"

	d, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}

	var visit *domain.Visit
	if d.Visited() {
		ok, err := dlg.Confirm(ctx, fmt.Sprintf("Move %q back to your wishlist? Your visit date and notes will be removed.", d.Name))
		if err != nil {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, domain.ErrCancelled)
		}
	} else {
		values, ok, err := dlg.PromptForm(ctx, VisitForm())
		if err != nil {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, domain.ErrCancelled)
		}
		visit = &domain.Visit{
			Date:  strings.TrimSpace(values[FieldVisitDate]),
			Notes: strings.TrimSpace(values[FieldVisitNotes]),
		}
	}

	updated, found, err := s.store.Update(ctx, owner, id, func(cur domain.Destination) domain.Destination {
		cur.Visit = visit
		return cur
	})
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return domain.Destination{}, fmt.Errorf("%s: destination %q: %w", op, id, domain.ErrNotFound)
	}
	return updated, nil
}

// VisitForm is the form shown when marking a destination visited.
func VisitForm() domain.Form {
	return domain.Form{
		Title: "Mark as Visited",
		Fields: []domain.Field{
			{ID: FieldVisitDate, Label: "When did you visit?", Kind: domain.FieldText, Placeholder: "e.g., June 2026"},
			{ID: FieldVisitNotes, Label: "Notes about your visit", Kind: domain.FieldTextarea, Placeholder: "Share your experience..."},
		},
	}
}

// EditForm is the edit form pre-filled from d.
func EditForm(d domain.Destination) domain.Form {
	typeOpts := make([]domain.Option, 0, len(domain.DestinationTypes))
	for _, t := range domain.DestinationTypes {
		typeOpts = append(typeOpts, domain.Option{Label: t.Label(), Value: string(t)})
	}
	regionOpts := []domain.Option{{Label: "None", Value: ""}}
	for _, r := range domain.Regions {
		regionOpts = append(regionOpts, domain.Option{Label: domain.RegionLabel(r), Value: r})
	}
	if d.Region != "" && domain.RegionLabel(d.Region) == d.Region {
		regionOpts = append(regionOpts, domain.Option{Label: d.Region, Value: d.Region})
	}

	return domain.Form{
		Title: "Edit Destination",
		Fields: []domain.Field{
			{ID: FieldName, Label: "Name", Kind: domain.FieldText, Value: d.Name},
			{ID: FieldState, Label: "State", Kind: domain.FieldText, Value: d.State},
			{ID: FieldType, Label: "Type", Kind: domain.FieldSelect, Value: string(d.Type), Options: typeOpts},
			{ID: FieldRegion, Label: "Region", Kind: domain.FieldSelect, Value: d.Region, Options: regionOpts},
			{ID: FieldPriority, Label: "Priority", Kind: domain.FieldSelect, Value: string(d.Priority), Options: []domain.Option{
				{Label: "Wishlist", Value: string(domain.PriorityWishlist)},
				{Label: "High Priority", Value: string(domain.PriorityHigh)},
				{Label: "Medium Priority", Value: string(domain.PriorityMedium)},
				{Label: "Low Priority", Value: string(domain.PriorityLow)},
			}},
			{ID: FieldSeason, Label: "Season", Kind: domain.FieldSelect, Value: string(d.Season), Options: []domain.Option{
				{Label: "Any", Value: string(domain.SeasonAny)},
				{Label: "Spring", Value: string(domain.SeasonSpring)},
				{Label: "Summer", Value: string(domain.SeasonSummer)},
				{Label: "Fall", Value: string(domain.SeasonFall)},
				{Label: "Winter", Value: string(domain.SeasonWinter)},
			}},
			{ID: FieldBestSeason, Label: "Best season", Kind: domain.FieldText, Value: d.BestSeason},
			{ID: FieldCost, Label: "Estimated cost", Kind: domain.FieldText, Value: d.EstimatedCost},
			{ID: FieldMustSee, Label: "Must see", Kind: domain.FieldTextarea, Value: d.MustSee},
			{ID: FieldNotes, Label: "Notes", Kind: domain.FieldTextarea, Value: d.Notes},
		},
	}
}

// Edit shows the edit form pre-filled from the stored record and saves
// the answers. A blank name re-opens the form with a problem message.
func (s *DestinationService) Edit(ctx context.Context, owner, id string, dlg Dialog) (domain.Destination, error) {
	const op = "service.DestinationService.Edit"

	d, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}

	form := EditForm(d)
	for {
		values, ok, err := dlg.PromptForm(ctx, form)
		if err != nil {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, domain.ErrCancelled)
		}

		patch, problem := patchFromForm(values)
		if problem != "" {
			form = refill(form, values)
			form.Problem = problem
			continue
		}

		updated, err := s.Update(ctx, owner, id, patch)
		if err != nil {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
		}
		return updated, nil
	}
}

// patchFromForm reads the edit form answers. Fields absent from values are
// left unchanged. problem is non-empty when an answer is unusable.
func patchFromForm(values map[string]string) (domain.DestinationPatch, string) {
	var p domain.DestinationPatch
	str := func(id string) *string {
		v, ok := values[id]
		if !ok {
			return nil
		}
		v = strings.TrimSpace(v)
		return &v
	}

	p.Name = str(FieldName)
	if p.Name != nil && *p.Name == "" {
		return p, "Name is required"
	}
	p.State = str(FieldState)
	if p.State != nil && *p.State == "" {
		return p, "State is required"
	}
	p.Region = str(FieldRegion)
	p.Notes = str(FieldNotes)
	p.BestSeason = str(FieldBestSeason)
	p.EstimatedCost = str(FieldCost)
	p.MustSee = str(FieldMustSee)

	if v := str(FieldType); v != nil {
		t, err := domain.ParseDestinationType(*v)
		if err != nil {
			return p, "Unknown destination type"
		}
		p.Type = &t
	}
	if v := str(FieldPriority); v != nil && *v != "" {
		pr, err := domain.ParsePriority(*v)
		if err != nil {
			return p, "Unknown priority"
		}
		p.Priority = &pr
	}
	if v := str(FieldSeason); v != nil && *v != "" {
		se, err := domain.ParseSeason(*v)
		if err != nil {
			return p, "Unknown season"
		}
		p.Season = &se
	}
	return p, ""
}

// refill copies the user's answers back into the form so a re-prompt
// keeps what was typed.
func refill(form domain.Form, values map[string]string) domain.Form {
	fields := make([]domain.Field, len(form.Fields))
	copy(fields, form.Fields)
	for i := range fields {
		if v, ok := values[fields[i].ID]; ok {
			fields[i].Value = v
		}
	}
	form.Fields = fields
	return form
}

// Update applies patch to the stored destination. As in Add, the name and
// state cannot be cleared.
func (s *DestinationService) Update(ctx context.Context, owner, id string, patch domain.DestinationPatch) (domain.Destination, error) {
	const op = "service.DestinationService.Update"

	cur, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	if patch.State != nil && strings.TrimSpace(*patch.State) == "" {
		return domain.Destination{}, fmt.Errorf("%s: %w: state is required", op, domain.ErrValidation)
	}
	if err := patch.Apply(cur).Validate(); err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, found, err := s.store.Update(ctx, owner, id, patch.Apply)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return domain.Destination{}, fmt.Errorf("%s: destination %q: %w", op, id, domain.ErrNotFound)
	}
	return updated, nil
}

// Delete removes a destination after the user confirms. Deleting an ID
// that is not in the collection does nothing.
func (s *DestinationService) Delete(ctx context.Context, owner, id string, dlg Dialog) error {
	const op = "service.DestinationService.Delete"

	d, err := s.store.Get(ctx, owner, id)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := dlg.Confirm(ctx, fmt.Sprintf("Delete %q?", d.Name))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrCancelled)
	}

	if _, err := s.store.Remove(ctx, owner, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AssignFolder offers the owner's folders and files the destination in
// the chosen one. Choosing "Unfiled" clears the assignment.
func (s *DestinationService) AssignFolder(ctx context.Context, owner, id string, dlg Dialog) (domain.Destination, error) {
	const op = "service.DestinationService.AssignFolder"

	d, err := s.store.Get(ctx, owner, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	folders, err := s.store.LoadFolders(ctx, owner)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(folders) == 0 {
		return domain.Destination{}, fmt.Errorf("%s: %w: create a folder first", op, domain.ErrValidation)
	}

	opts := []domain.Option{{Label: "Unfiled", Value: ""}}
	for _, f := range folders {
		opts = append(opts, domain.Option{Label: f.Name, Value: f.ID})
	}
	values, ok, err := dlg.PromptForm(ctx, domain.Form{
		Title: "Add to Folder",
		Fields: []domain.Field{
			{ID: FieldFolder, Label: d.Name, Kind: domain.FieldSelect, Value: d.FolderID, Options: opts},
		},
	})
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, domain.ErrCancelled)
	}

	return s.SetFolder(ctx, owner, id, values[FieldFolder])
}

// SetFolder files the destination in folderID, or unfiles it when
// folderID is empty. The folder must exist.
func (s *DestinationService) SetFolder(ctx context.Context, owner, id, folderID string) (domain.Destination, error) {
	const op = "service.DestinationService.SetFolder"

	folderID = strings.TrimSpace(folderID)
	if folderID != "" {
		folders, err := s.store.LoadFolders(ctx, owner)
		if err != nil {
			return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
		}
		if folderIndex(folders, folderID) < 0 {
			return domain.Destination{}, fmt.Errorf("%s: %w: unknown folder %q", op, domain.ErrValidation, folderID)
		}
	}

	updated, found, err := s.store.Update(ctx, owner, id, func(d domain.Destination) domain.Destination {
		d.FolderID = folderID
		return d
	})
	if err != nil {
		return domain.Destination{}, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return domain.Destination{}, fmt.Errorf("%s: destination %q: %w", op, id, domain.ErrNotFound)
	}
	return updated, nil
}
