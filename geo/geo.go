// Package geo provides great-circle distance computation over WGS 84
// coordinates expressed in decimal degrees.
package geo

import "math"

// EarthRadiusKm is the mean radius of the Earth, in kilometers.
const EarthRadiusKm = 6371

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance between |a| and |b| in
// kilometers, computed with the haversine formula on a sphere of radius
// EarthRadiusKm. Inputs outside valid latitude / longitude ranges are not
// validated and produce undefined results.
func Distance(a, b Point) float64 {
	var (
		lat1 = radians(a.Lat)
		lon1 = radians(a.Lon)
		lat2 = radians(b.Lat)
		lon2 = radians(b.Lon)
	)
	var (
		dLat = lat2 - lat1
		dLon = lon2 - lon1
	)
	var h = math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	var c = 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
