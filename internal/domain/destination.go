// Package domain contains the core data types for the RV Planner application.
// This package has zero external dependencies and is imported by every other
// internal package (catalog, repo, service, view, handler).
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DestinationType is the fixed category of a destination.
type DestinationType string

const (
	TypeNationalPark DestinationType = "national-park"
	TypeStatePark    DestinationType = "state-park"
	TypeAttraction   DestinationType = "attraction"
	TypeCity         DestinationType = "city"
	TypeScenic       DestinationType = "scenic"
	TypeCampground   DestinationType = "campground"
	TypeOther        DestinationType = "other"
)

// DestinationTypes lists every valid type in display order.
var DestinationTypes = []DestinationType{
	TypeNationalPark, TypeStatePark, TypeAttraction, TypeCity, TypeScenic, TypeCampground, TypeOther,
}

var typeLabels = map[DestinationType]string{
	TypeNationalPark: "National Park",
	TypeStatePark:    "State Park",
	TypeAttraction:   "Attraction",
	TypeCity:         "City",
	TypeScenic:       "Scenic Route",
	TypeCampground:   "Campground",
	TypeOther:        "Other",
}

// Label returns the human-readable name of the type.
// Unknown types label as themselves.
func (t DestinationType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the fixed destination types.
func (t DestinationType) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// ParseDestinationType normalises s and validates it.
// An empty string maps to TypeOther.
func ParseDestinationType(s string) (DestinationType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TypeOther, nil
	}
	t := DestinationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown destination type %q", ErrValidation, s)
	}
	return t, nil
}

// Regions lists the built-in regions in display order.
// Destinations may carry any other region string; it labels as itself.
var Regions = []string{"southwest", "pacific-northwest", "east-coast", "southeast", "midwest", "rocky-mountains"}

var regionLabels = map[string]string{
	"southwest":         "Southwest",
	"pacific-northwest": "Pacific Northwest",
	"east-coast":        "East Coast",
	"southeast":         "Southeast",
	"midwest":           "Midwest",
	"rocky-mountains":   "Rocky Mountains",
}

// RegionLabel returns the display label for a region slug.
func RegionLabel(region string) string {
	if l, ok := regionLabels[region]; ok {
		return l
	}
	return region
}

// Priority ranks how much the user wants to visit a destination.
type Priority string

const (
	PriorityWishlist Priority = "wishlist"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Season is the season the user plans to visit in.
type Season string

const (
	SeasonAny    Season = "any"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// ParsePriority normalises s and validates it.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityWishlist, PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
}

// ParseSeason normalises s and validates it.
func ParseSeason(s string) (Season, error) {
	se := Season(strings.ToLower(strings.TrimSpace(s)))
	switch se {
	case SeasonAny, SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return se, nil
	}
	return "", fmt.Errorf("%w: unknown season %q", ErrValidation, s)
}

// Visit holds what the user recorded when marking a destination visited.
// Date is free text ("June 2026"), exactly as the user typed it.
type Visit struct {
	Date  string
	Notes string
}

// Destination is a user-owned record of a place the user is tracking.
//
// Visit is nil while the destination is on the wishlist. A visited
// destination always has a non-nil Visit, so "unvisited but carrying a
// visit date" cannot be represented.
type Destination struct {
	ID        string
	Name      string
	State     string
	Region    string
	Type      DestinationType
	Latitude  *float64
	Longitude *float64

	Visit    *Visit
	FolderID string // "" when unfiled

	Notes            string
	Priority         Priority
	Season           Season
	BestSeason       string
	EstimatedCost    string
	RVCamping        bool
	RVCampingDetails string
	MustSee          string

	CreatedAt time.Time
}

// Visited reports whether the user has been to the destination.
func (d Destination) Visited() bool {
	return d.Visit != nil
}

// Mappable reports whether the destination has usable coordinates.
func (d Destination) Mappable() bool {
	return validCoordinates(d.Latitude, d.Longitude)
}

// Validate checks the only hard rule on a destination: a non-empty name
// and a known type.
func (d Destination) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown destination type %q", ErrValidation, d.Type)
	}
	return nil
}

// WithDefaults fills in the defaults a freshly created destination gets.
func (d Destination) WithDefaults() Destination {
	d.Name = strings.TrimSpace(d.Name)
	d.State = strings.TrimSpace(d.State)
	if d.Type == "" {
		d.Type = TypeOther
	}
	if d.Priority == "" {
		d.Priority = PriorityWishlist
	}
	if d.Season == "" {
		d.Season = SeasonAny
	}
	return d
}

func validCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}

// destinationJSON is the stored and exported shape. It matches the record
// layout the browser front end has always written to local storage.
type destinationJSON struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	State            string          `json:"state"`
	Region           string          `json:"region,omitempty"`
	Type             DestinationType `json:"type"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	Visited          bool            `json:"visited"`
	VisitedDate      string          `json:"visitedDate,omitempty"`
	VisitedNotes     string          `json:"visitedNotes,omitempty"`
	Folder           string          `json:"folder,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Priority         Priority        `json:"priority,omitempty"`
	Season           Season          `json:"season,omitempty"`
	BestSeason       string          `json:"bestSeason,omitempty"`
	EstimatedCost    string          `json:"estimatedCost,omitempty"`
	RVCamping        bool            `json:"rvCamping,omitempty"`
	RVCampingDetails string          `json:"rvCampingDetails,omitempty"`
	MustSee          string          `json:"mustSee,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// MarshalJSON writes the flat visited/visitedDate/visitedNotes form.
func (d Destination) MarshalJSON() ([]byte, error) {
	out := destinationJSON{
		ID:               d.ID,
		Name:             d.Name,
		State:            d.State,
		Region:           d.Region,
		Type:             d.Type,
		Latitude:         d.Latitude,
		Longitude:        d.Longitude,
		Folder:           d.FolderID,
		Notes:            d.Notes,
		Priority:         d.Priority,
		Season:           d.Season,
		BestSeason:       d.BestSeason,
		EstimatedCost:    d.EstimatedCost,
		RVCamping:        d.RVCamping,
		RVCampingDetails: d.RVCampingDetails,
		MustSee:          d.MustSee,
		CreatedAt:        d.CreatedAt,
	}
	if d.Visit != nil {
		out.Visited = true
		out.VisitedDate = d.Visit.Date
		out.VisitedNotes = d.Visit.Notes
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat form. Visit fields left behind on a record
// whose visited flag is false are dropped.
func (d *Destination) UnmarshalJSON(b []byte) error {
	var in destinationJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*d = Destination{
		ID:               in.ID,
		Name:             in.Name,
		State:            in.State,
		Region:           in.Region,
		Type:             in.Type,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		FolderID:         in.Folder,
		Notes:            in.Notes,
		Priority:         in.Priority,
		Season:           in.Season,
		BestSeason:       in.BestSeason,
		EstimatedCost:    in.EstimatedCost,
		RVCamping:        in.RVCamping,
		RVCampingDetails: in.RVCampingDetails,
		MustSee:          in.MustSee,
		CreatedAt:        in.CreatedAt,
	}
	if in.Visited {
		d.Visit = &Visit{Date: in.VisitedDate, Notes: in.VisitedNotes}
	}
	return nil
}

// DestinationPatch carries the editable fields of a destination.
// Nil fields are left unchanged. Visit state and folder assignment have
// their own flows and are not patchable here.
type DestinationPatch struct {
	Name             *string
	State            *string
	Region           *string
	Type             *DestinationType
	Latitude         *float64
	Longitude        *float64
	Notes            *string
	Priority         *Priority
	Season           *Season
	BestSeason       *string
	EstimatedCost    *string
	RVCamping        *bool
	RVCampingDetails *string
	MustSee          *string
}

// Apply returns d with every non-nil patch field copied over.
func (p DestinationPatch) Apply(d Destination) Destination {
	setString(&d.Name, p.Name)
	setString(&d.State, p.State)
	setString(&d.Region, p.Region)
	setString(&d.Notes, p.Notes)
	setString(&d.BestSeason, p.BestSeason)
	setString(&d.EstimatedCost, p.EstimatedCost)
	setString(&d.RVCampingDetails, p.RVCampingDetails)
	setString(&d.MustSee, p.MustSee)
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Latitude != nil {
		lat := *p.Latitude
		d.Latitude = &lat
	}
	if p.Longitude != nil {
		lon := *p.Longitude
		d.Longitude = &lon
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.Season != nil {
		d.Season = *p.Season
	}
	if p.RVCamping != nil {
		d.RVCamping = *p.RVCamping
	}
	return d.WithDefaults()
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
