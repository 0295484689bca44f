package geofence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const square = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},
"geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}]}`

func TestParse_Contains(t *testing.T) {
	f, err := Parse([]byte(square))
	require.NoError(t, err)

	require.True(t, f.Contains(5, 5))
	require.False(t, f.Contains(5, 11))
	require.False(t, f.Contains(-1, 5))
}

func TestParse_NoPolygon(t *testing.T) {
	_, err := Parse([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`))
	require.Error(t, err)

	_, err = Parse([]byte(`not json`))
	require.Error(t, err)
}

func TestLoad_DefaultBoundary(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)

	require.True(t, f.Contains(36.8065, 10.1815)) // Tunis
	require.False(t, f.Contains(48.8566, 2.3522)) // Paris
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.geojson")
	require.Error(t, err)
}
