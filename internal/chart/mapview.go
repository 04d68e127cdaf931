package chart

import (
	"math"

	"github.com/golang/geo/s2"

	"signalmap/internal/table"
)

// Role decides how a marker is drawn.
type Role string

const (
	RoleMeasurement Role = "measurement"
	RoleSite        Role = "site"
	RoleSelected    Role = "selected"
)

// Marker is one point on the map.
type Marker struct {
	ID  string
	Lon float64
	Lat float64
}

// Layer is a set of markers sharing a Role.
type Layer struct {
	Role    Role
	Markers []Marker
}

// MapView is the full map of one sheet, layers in drawing order.
type MapView struct {
	Sheet  string
	Layers []Layer
}

// Layer returns the layer with the given role.
func (m MapView) Layer(role Role) (Layer, bool) {
	for _, l := range m.Layers {
		if l.Role == role {
			return l, true
		}
	}
	return Layer{}, false
}

func validCoords(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return false
	}
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// markers collects one marker per distinct id. Only the first row of a
// repeated id counts, and it is dropped if its coordinates are unusable.
func markers(t *table.Table) []Marker {
	if t == nil {
		return nil
	}
	keys := t.Keys()
	seen := make(map[string]bool, len(t.Rows))
	out := make([]Marker, 0, len(t.Rows))
	for r := range t.Rows {
		id := t.At(r, keys.ID).String()
		if seen[id] {
			continue
		}
		seen[id] = true
		lon, okLon := t.At(r, keys.Lon).Float()
		lat, okLat := t.At(r, keys.Lat).Float()
		if !okLon || !okLat || !validCoords(lon, lat) {
			continue
		}
		out = append(out, Marker{ID: id, Lon: lon, Lat: lat})
	}
	return out
}

// BuildMap assembles the measurement layer of t, the site layer when sites is
// present, and the selected layer when selected is not nil.
func BuildMap(sheet string, t, sites *table.Table, selected *Marker) MapView {
	m := MapView{Sheet: sheet}
	m.Layers = append(m.Layers, Layer{Role: RoleMeasurement, Markers: markers(t)})
	if sites != nil {
		m.Layers = append(m.Layers, Layer{Role: RoleSite, Markers: markers(sites)})
	}
	if selected != nil && validCoords(selected.Lon, selected.Lat) {
		m.Layers = append(m.Layers, Layer{Role: RoleSelected, Markers: []Marker{*selected}})
	}
	return m
}

// Bounds is a longitude/latitude box in degrees.
type Bounds struct {
	MinLon, MaxLon float64
	MinLat, MaxLat float64
}

var worldBounds = Bounds{MinLon: -180, MaxLon: 180, MinLat: -90, MaxLat: 90}

// Bounds returns the padded box around every marker of the view.
func (m MapView) Bounds() Bounds {
	rect := s2.EmptyRect()
	for _, l := range m.Layers {
		for _, mk := range l.Markers {
			rect = rect.AddPoint(s2.LatLngFromDegrees(mk.Lat, mk.Lon))
		}
	}
	if rect.IsEmpty() {
		return worldBounds
	}
	lo, hi := rect.Lo(), rect.Hi()
	b := Bounds{
		MinLon: lo.Lng.Degrees(), MaxLon: hi.Lng.Degrees(),
		MinLat: lo.Lat.Degrees(), MaxLat: hi.Lat.Degrees(),
	}
	// A box crossing the antimeridian cannot be drawn on linear axes.
	if b.MinLon > b.MaxLon {
		b.MinLon, b.MaxLon = -180, 180
	}
	return b.padded(0.05, 0.001)
}

func (b Bounds) padded(frac, min float64) Bounds {
	padLon := math.Max((b.MaxLon-b.MinLon)*frac, min)
	padLat := math.Max((b.MaxLat-b.MinLat)*frac, min)
	return Bounds{
		MinLon: math.Max(b.MinLon-padLon, -180),
		MaxLon: math.Min(b.MaxLon+padLon, 180),
		MinLat: math.Max(b.MinLat-padLat, -90),
		MaxLat: math.Min(b.MaxLat+padLat, 90),
	}
}
