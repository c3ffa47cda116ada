package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoPointValid(t *testing.T) {
	assert.True(t, NewGeoPoint(2.3522, 48.8566).Valid())
	assert.True(t, NewGeoPoint(-180, -90).Valid())
	assert.True(t, NewGeoPoint(180, 90).Valid())

	assert.False(t, NewGeoPoint(181, 0).Valid())
	assert.False(t, NewGeoPoint(0, 91).Valid())
	assert.False(t, NewGeoPoint(-181, 0).Valid())
	assert.False(t, GeoPoint{}.Valid())
}

func TestGeoPointAccessors(t *testing.T) {
	p := NewGeoPoint(2.3522, 48.8566)
	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, 2.3522, p.Lon())
	assert.Equal(t, 48.8566, p.Lat())
}
