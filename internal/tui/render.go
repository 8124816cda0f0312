package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pkordes/rv-planner/internal/domain"
	"github.com/pkordes/rv-planner/internal/view"
)

// RenderList draws every card of v followed by a page footer, or the
// empty-state message when there is nothing to show.
func RenderList(v view.ListView) string {
	if v.Empty {
		return EmptyStyle.Render(v.EmptyMessage)
	}

	blocks := make([]string, 0, len(v.Cards)+1)
	for _, c := range v.Cards {
		blocks = append(blocks, RenderCard(c))
	}
	blocks = append(blocks, MutedStyle.Render(pageFooter(v)))
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func pageFooter(v view.ListView) string {
	pages := 1
	if v.Limit > 0 && v.Total > v.Limit {
		pages = (v.Total + v.Limit - 1) / v.Limit
	}
	return fmt.Sprintf("page %d of %d · %d destinations", v.Page, pages, v.Total)
}

// RenderCard draws one destination card inside a rounded border.
func RenderCard(c view.Card) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(c.Title))
	if c.Subtitle != "" {
		b.WriteString(" " + MutedStyle.Render(c.Subtitle))
	}
	b.WriteString("\n")

	badges := make([]string, 0, len(c.Badges))
	for _, badge := range c.Badges {
		badges = append(badges, BadgeStyle(badge.Class).Render(badge.Text))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, badges...))

	for _, row := range c.Info {
		fmt.Fprintf(&b, "\n%s %s", MutedStyle.Render(row.Label+":"), row.Value)
	}
	if c.MustSee != "" {
		fmt.Fprintf(&b, "\n%s %s", MutedStyle.Render("Must see:"), c.MustSee)
	}
	if c.Visit != nil {
		line := "Visited"
		if c.Visit.Date != "" {
			line += " " + c.Visit.Date
		}
		b.WriteString("\n" + BadgeStyle(view.BadgeVisited).UnsetPadding().Render(line))
		if c.Visit.Notes != "" {
			b.WriteString("\n" + c.Visit.Notes)
		}
	}
	if c.Notes != "" {
		b.WriteString("\n" + c.Notes)
	}
	if c.Folder != "" {
		fmt.Fprintf(&b, "\n%s %s", MutedStyle.Render("Folder:"), c.Folder)
	}
	fmt.Fprintf(&b, "\n%s", MutedStyle.Render(actionHints(c.ID, c.Actions)))

	return CardStyle.Render(b.String())
}

// actionHints lists the sub-commands that perform each card action.
func actionHints(id string, actions []view.ActionRef) string {
	hints := make([]string, 0, len(actions))
	for _, a := range actions {
		hints = append(hints, fmt.Sprintf("%s (%s)", a.Label, CommandFor(a.Kind)))
	}
	return id + "  " + strings.Join(hints, " · ")
}

// CommandFor maps an action kind to the planner sub-command performing it.
func CommandFor(kind view.ActionKind) string {
	switch kind {
	case view.ActionToggleVisited:
		return "toggle"
	case view.ActionEdit:
		return "edit"
	case view.ActionDelete:
		return "delete"
	case view.ActionAddToFolder:
		return "file"
	case view.ActionAddToCollection:
		return "adopt"
	case view.ActionLogVisit:
		return "adopt -from map"
	default:
		return string(kind)
	}
}

// RenderSidebar draws the pseudo folders and the user's folders with
// their member counts.
func RenderSidebar(s view.Sidebar) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Folders"))
	fmt.Fprintf(&b, "\n  %-24s %d", "All Destinations", s.All)
	fmt.Fprintf(&b, "\n  %-24s %d", "Wishlist", s.Wishlist)
	fmt.Fprintf(&b, "\n  %-24s %d", "Visited", s.Visited)
	for _, fc := range s.Folders {
		fmt.Fprintf(&b, "\n  %-24s %d  %s", fc.Folder.Name, fc.Count, MutedStyle.Render(fc.Folder.ID))
	}
	return b.String()
}

// RenderMap lists the markers of m with their coordinates. A terminal has
// no tiles to draw on, so the pins print as a legend around the viewport.
func RenderMap(m view.MapView) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Map"))
	if m.Bounds != nil {
		fmt.Fprintf(&b, "\n%s", MutedStyle.Render(fmt.Sprintf("bounds %.4f,%.4f to %.4f,%.4f",
			m.Bounds.South, m.Bounds.West, m.Bounds.North, m.Bounds.East)))
	} else {
		fmt.Fprintf(&b, "\n%s", MutedStyle.Render(fmt.Sprintf("centre %.4f,%.4f zoom %d",
			m.Center.Lat, m.Center.Lng, m.Zoom)))
	}
	for _, p := range m.Markers {
		fmt.Fprintf(&b, "\n%s %s %s", PinStyle(p.ColorClass).Render("●"), TitleStyle.Render(p.Popup.Title),
			MutedStyle.Render(fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lng)))
		if p.Popup.Subtitle != "" {
			b.WriteString(" " + p.Popup.Subtitle)
		}
		for _, line := range p.Popup.Lines {
			b.WriteString("\n    " + line)
		}
		if len(p.Actions) > 0 {
			b.WriteString("\n    " + MutedStyle.Render(actionHints(p.ID, p.Actions)))
		}
	}
	return b.String()
}

// RenderCatalog draws catalog entries offered for adoption.
func RenderCatalog(entries []domain.CatalogEntry) string {
	if len(entries) == 0 {
		return EmptyStyle.Render("No destinations to discover.")
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Discover"))
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%s %s %s", TitleStyle.Render(e.Name), MutedStyle.Render(e.State),
			BadgeStyle(view.BadgeType).Render(e.Type.Label()))
		if e.MustSee != "" {
			b.WriteString("\n    " + e.MustSee)
		}
		fmt.Fprintf(&b, "\n    %s", MutedStyle.Render(fmt.Sprintf("%s  Add (%s)", e.ID, CommandFor(view.ActionAddToCollection))))
	}
	return b.String()
}
