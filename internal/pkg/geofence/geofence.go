package geofence

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

//go:embed boundary.geojson
var defaultBoundary []byte

// Fence is a service-area boundary made of one or more polygons
type Fence struct {
	polygons []orb.Polygon
}

// Load reads a GeoJSON FeatureCollection from path. An empty path falls back
// to the embedded default boundary.
func Load(path string) (*Fence, error) {
	data := defaultBoundary
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read geofence: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds a fence from GeoJSON. Polygon and MultiPolygon features are
// used, anything else is ignored.
func Parse(data []byte) (*Fence, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid geofence geojson: %w", err)
	}

	f := &Fence{}
	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			f.polygons = append(f.polygons, g)
		case orb.MultiPolygon:
			f.polygons = append(f.polygons, g...)
		}
	}
	if len(f.polygons) == 0 {
		return nil, errors.New("geofence has no polygon")
	}
	return f, nil
}

// Contains reports whether the point lies inside any polygon of the fence
func (f *Fence) Contains(lat, lng float64) bool {
	pt := orb.Point{lng, lat}
	for _, p := range f.polygons {
		if planar.PolygonContains(p, pt) {
			return true
		}
	}
	return false
}
