package allocator

import (
	"math/rand"

	"github.com/ashiishme/center-randomize/geo"
)

// Test fixtures place a school at |origin| and centers at measured
// offsets due north, so distances are exact and easy to reason about.
var origin = geo.Point{Lat: 27.7, Lon: 85.3}

// kmPerDegreeLat is the great-circle length of one degree of latitude on
// the model sphere.
const kmPerDegreeLat = geo.EarthRadiusKm * 3.141592653589793 / 180

// pointAtKm returns a point |km| due north of origin.
func pointAtKm(km float64) geo.Point {
	return geo.Point{Lat: origin.Lat + km/kmPerDegreeLat, Lon: origin.Lon}
}

func schoolAt(code string, count int) School {
	var loc = origin
	return School{Code: code, Name: code + " School", Count: count, Location: &loc}
}

func centerAtKm(code string, capacity int, km float64) Center {
	return Center{
		Code:     code,
		Name:     code + " Center",
		Address:  code + " Address",
		Capacity: capacity,
		Location: pointAtKm(km),
	}
}

func newTestSelector(prefs PreferenceTable, policy Policy) *Selector {
	if prefs == nil {
		prefs = make(PreferenceTable)
	}
	return &Selector{Prefs: prefs, Policy: policy, Rand: rand.New(rand.NewSource(42))}
}
