package view

import "github.com/pkordes/rv-planner/internal/domain"

// Empty-state messages of the list view.
const (
	EmptyCollection = "Start adding places you want to visit!"
	EmptyFiltered   = "No destinations in this category yet."
)

// Badge classes.
const (
	BadgeType     = "type"
	BadgeRegion   = "region"
	BadgePriority = "priority"
	BadgeSeason   = "season"
	BadgeVisited  = "success"
)

type Badge struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

type InfoRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// VisitSummary is shown on cards of visited destinations.
type VisitSummary struct {
	Date  string `json:"date,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Card is one rendered destination.
type Card struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Badges   []Badge       `json:"badges"`
	Info     []InfoRow     `json:"info"`
	MustSee  string        `json:"mustSee,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Visit    *VisitSummary `json:"visit,omitempty"`
	Folder   string        `json:"folder,omitempty"`
	Actions  []ActionRef   `json:"actions"`
}

// ListView is a complete list rendering. It replaces whatever was shown
// before; there is no incremental patching.
type ListView struct {
	Cards        []Card `json:"cards"`
	Total        int    `json:"total"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"emptyMessage,omitempty"`
}

var priorityLabels = map[domain.Priority]string{
	domain.PriorityHigh:   "High Priority",
	domain.PriorityMedium: "Medium Priority",
	domain.PriorityLow:    "Low Priority",
}

var seasonLabels = map[domain.Season]string{
	domain.SeasonSpring: "Spring",
	domain.SeasonSummer: "Summer",
	domain.SeasonFall:   "Fall",
	domain.SeasonWinter: "Winter",
}

// RenderList renders one page of the working set. f is only consulted to
// pick the empty-state message.
func RenderList(working []domain.Destination, folders []domain.Folder, f domain.FilterState, p domain.PaginationParams) ListView {
	names := make(map[string]string, len(folders))
	for _, fo := range folders {
		names[fo.ID] = fo.Name
	}

	start, end := p.Bounds(len(working))
	v := ListView{
		Cards: make([]Card, 0, end-start),
		Total: len(working),
		Page:  p.Page,
		Limit: p.Limit,
	}
	for _, d := range working[start:end] {
		v.Cards = append(v.Cards, renderCard(d, names[d.FolderID]))
	}

	if len(working) == 0 {
		v.Empty = true
		v.EmptyMessage = EmptyFiltered
		if f.Normalize() == (domain.FilterState{}).Normalize() {
			v.EmptyMessage = EmptyCollection
		}
	}
	return v
}

func renderCard(d domain.Destination, folderName string) Card {
	c := Card{
		ID:       d.ID,
		Title:    d.Name,
		Subtitle: d.State,
		Badges:   []Badge{{Text: d.Type.Label(), Class: BadgeType}},
		Info:     []InfoRow{},
		MustSee:  d.MustSee,
		Notes:    d.Notes,
		Folder:   folderName,
	}

	if d.Region != "" {
		c.Badges = append(c.Badges, Badge{Text: domain.RegionLabel(d.Region), Class: BadgeRegion})
	}
	if l, ok := priorityLabels[d.Priority]; ok {
		c.Badges = append(c.Badges, Badge{Text: l, Class: BadgePriority})
	}
	if d.Season != "" && d.Season != domain.SeasonAny {
		l, ok := seasonLabels[d.Season]
		if !ok {
			l = string(d.Season)
		}
		c.Badges = append(c.Badges, Badge{Text: l, Class: BadgeSeason})
	}
	if d.Visited() {
		c.Badges = append(c.Badges, Badge{Text: "Visited", Class: BadgeVisited})
		c.Visit = &VisitSummary{Date: d.Visit.Date, Notes: d.Visit.Notes}
	}

	if d.RVCamping {
		details := d.RVCampingDetails
		if details == "" {
			details = "Available"
		}
		c.Info = append(c.Info, InfoRow{Label: "RV Camping", Value: details})
	}
	if d.BestSeason != "" {
		c.Info = append(c.Info, InfoRow{Label: "Best Season", Value: d.BestSeason})
	}
	if d.EstimatedCost != "" {
		c.Info = append(c.Info, InfoRow{Label: "Est. Cost", Value: d.EstimatedCost})
	}

	toggle := "Mark as Visited"
	if d.Visited() {
		toggle = "Mark as Wishlist"
	}
	c.Actions = []ActionRef{
		{Kind: ActionToggleVisited, ID: d.ID, Label: toggle},
		{Kind: ActionEdit, ID: d.ID, Label: "Edit"},
		{Kind: ActionDelete, ID: d.ID, Label: "Delete"},
		{Kind: ActionAddToFolder, ID: d.ID, Label: "Add to Folder"},
	}
	return c
}
