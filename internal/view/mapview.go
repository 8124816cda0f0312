package view

import (
	"github.com/pkordes/rv-planner/internal/domain"
)

// ColorClass keys a pin's colour to its status.
type ColorClass string

const (
	ColorVisited   ColorClass = "success"
	ColorUnvisited ColorClass = "alert"
	ColorCurated   ColorClass = "info"
)

// Default viewport: the continental US.
const (
	DefaultLat  = 39.8283
	DefaultLng  = -98.5795
	DefaultZoom = 4

	boundsPadding = 0.1
)

// Popup is the content shown when a pin is clicked.
type Popup struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Lines    []string `json:"lines,omitempty"`
}

// Pin is a map marker before layout: where it goes and what it shows.
type Pin struct {
	ID         string      `json:"id"`
	Lat        float64     `json:"lat"`
	Lng        float64     `json:"lng"`
	ColorClass ColorClass  `json:"colorClass"`
	Curated    bool        `json:"curated"`
	Popup      Popup       `json:"popup"`
	Actions    []ActionRef `json:"actions,omitempty"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the rectangle the map should fit.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// MapView is the full marker set. Clients clear every marker they drew
// before and draw Markers; nothing is tracked between renders.
type MapView struct {
	Markers []Pin   `json:"markers"`
	Bounds  *Bounds `json:"bounds,omitempty"`
	Center  LatLng  `json:"center"`
	Zoom    int     `json:"zoom"`
}

// RenderMap lays out pins. With at least one pin the view carries bounds
// padded by 10% on every side; otherwise it falls back to the default
// centre and zoom.
func RenderMap(pins []Pin) MapView {
	v := MapView{
		Markers: append(make([]Pin, 0, len(pins)), pins...),
		Center:  LatLng{Lat: DefaultLat, Lng: DefaultLng},
		Zoom:    DefaultZoom,
	}
	if len(pins) == 0 {
		return v
	}

	b := Bounds{South: pins[0].Lat, North: pins[0].Lat, West: pins[0].Lng, East: pins[0].Lng}
	for _, p := range pins[1:] {
		b.South = min(b.South, p.Lat)
		b.North = max(b.North, p.Lat)
		b.West = min(b.West, p.Lng)
		b.East = max(b.East, p.Lng)
	}
	dLat := (b.North - b.South) * boundsPadding
	dLng := (b.East - b.West) * boundsPadding
	b.South -= dLat
	b.North += dLat
	b.West -= dLng
	b.East += dLng

	v.Bounds = &b
	v.Center = LatLng{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
	return v
}

func destinationPin(d domain.Destination) (Pin, bool) {
	if !d.Mappable() {
		return Pin{}, false
	}
	p := Pin{
		ID:         d.ID,
		Lat:        *d.Latitude,
		Lng:        *d.Longitude,
		ColorClass: ColorUnvisited,
		Popup:      popup(d.Name, d.State, d.RVCamping, d.BestSeason),
		Actions:    []ActionRef{{Kind: ActionToggleVisited, ID: d.ID, Label: "Mark as Visited"}},
	}
	if d.Visited() {
		p.ColorClass = ColorVisited
		p.Actions[0].Label = "Mark as Wishlist"
		if d.Visit.Date != "" {
			p.Popup.Lines = append(p.Popup.Lines, "Visited: "+d.Visit.Date)
		}
	}
	return p, true
}

func catalogPin(e domain.CatalogEntry) (Pin, bool) {
	if !e.Mappable() {
		return Pin{}, false
	}
	return Pin{
		ID:         e.ID,
		Lat:        *e.Latitude,
		Lng:        *e.Longitude,
		ColorClass: ColorCurated,
		Curated:    true,
		Popup:      popup(e.Name, e.State, e.RVCamping, e.BestSeason),
		Actions:    []ActionRef{{Kind: ActionLogVisit, ID: e.ID, Label: "I've been here"}},
	}, true
}

func popup(title, subtitle string, rvCamping bool, bestSeason string) Popup {
	p := Popup{Title: title, Subtitle: subtitle}
	if rvCamping {
		p.Lines = append(p.Lines, "RV Camping Available")
	}
	if bestSeason != "" {
		p.Lines = append(p.Lines, "Best: "+bestSeason)
	}
	return p
}
