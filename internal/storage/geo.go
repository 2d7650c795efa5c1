package storage

import "math"

const earthRadiusMeters = 6371000

// withinRadius reports whether two points are at most radiusMeters apart
// along the great circle.
func withinRadius(lng1, lat1, lng2, lat2, radiusMeters float64) bool {
	return haversineMeters(lng1, lat1, lng2, lat2) <= radiusMeters
}

func haversineMeters(lng1, lat1, lng2, lat2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}
