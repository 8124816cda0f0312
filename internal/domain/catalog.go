package domain

// CatalogEntry is an immutable reference record shipped with the app.
// It has the shape of a Destination without any user state and serves as a
// template when the user adopts it into their collection.
//
// Curated entries are always shown on the map; the rest are only offered
// through the discover view once a region or type is chosen.
type CatalogEntry struct {
	ID               string          `yaml:"id" json:"id"`
	Name             string          `yaml:"name" json:"name"`
	State            string          `yaml:"state" json:"state"`
	Region           string          `yaml:"region" json:"region,omitempty"`
	Type             DestinationType `yaml:"type" json:"type"`
	Latitude         *float64        `yaml:"latitude" json:"latitude,omitempty"`
	Longitude        *float64        `yaml:"longitude" json:"longitude,omitempty"`
	BestSeason       string          `yaml:"bestSeason" json:"bestSeason,omitempty"`
	EstimatedCost    string          `yaml:"estimatedCost" json:"estimatedCost,omitempty"`
	RVCamping        bool            `yaml:"rvCamping" json:"rvCamping,omitempty"`
	RVCampingDetails string          `yaml:"rvCampingDetails" json:"rvCampingDetails,omitempty"`
	MustSee          string          `yaml:"mustSee" json:"mustSee,omitempty"`
	Curated          bool            `yaml:"-" json:"curated"`
}

// Mappable reports whether the entry has usable coordinates.
func (e CatalogEntry) Mappable() bool {
	return validCoordinates(e.Latitude, e.Longitude)
}

// ToDestination copies the template fields into a new, unvisited and
// unfiled Destination with the same ID.
func (e CatalogEntry) ToDestination() Destination {
	d := Destination{
		ID:               e.ID,
		Name:             e.Name,
		State:            e.State,
		Region:           e.Region,
		Type:             e.Type,
		BestSeason:       e.BestSeason,
		EstimatedCost:    e.EstimatedCost,
		RVCamping:        e.RVCamping,
		RVCampingDetails: e.RVCampingDetails,
		MustSee:          e.MustSee,
	}
	if e.Latitude != nil {
		lat := *e.Latitude
		d.Latitude = &lat
	}
	if e.Longitude != nil {
		lon := *e.Longitude
		d.Longitude = &lon
	}
	return d.WithDefaults()
}
