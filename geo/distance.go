package geo

import (
	"fmt"
	"math"
)

// EarthMeanRadiusMeters is the mean earth radius used by the haversine helpers.
const EarthMeanRadiusMeters = 6_371_008.7714

const (
	toRadians = math.Pi / 180
	toDegrees = 180 / math.Pi

	// distance slop added when deriving bounding boxes, in meters
	boxSlopMeters = 7e-2
)

// HaversinSortKey returns a value that orders like the great-circle distance
// between two points but is cheaper to compute. The three lowest mantissa
// bits are cleared so that keys are stable under tiny rounding differences.
func HaversinSortKey(lat1, lon1, lat2, lon2 float64) float64 {
	x1 := lat1 * toRadians
	x2 := lat2 * toRadians
	h1 := 1 - math.Cos(x1-x2)
	h2 := 1 - math.Cos((lon1-lon2)*toRadians)
	h := h1 + math.Cos(x1)*math.Cos(x2)*h2
	return math.Float64frombits(math.Float64bits(h) &^ 7)
}

// HaversinMeters converts a sort key back to meters.
func HaversinMeters(sortKey float64) float64 {
	return EarthMeanRadiusMeters * 2 * math.Asin(math.Min(1, math.Sqrt(sortKey*0.5)))
}

// HaversinDistance returns the great-circle distance in meters.
func HaversinDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversinMeters(HaversinSortKey(lat1, lon1, lat2, lon2))
}

// BoxFromPointDistance returns the geographic box enclosing every point
// within radiusMeters of (lat, lon). The box crosses the antimeridian when
// MinLon > MaxLon; near the poles it spans all longitudes. An infinite radius
// yields the whole world.
func BoxFromPointDistance(lat, lon, radiusMeters float64) (LatLonBox, error) {
	if err := CheckLatitude(lat); err != nil {
		return LatLonBox{}, err
	}
	if err := CheckLongitude(lon); err != nil {
		return LatLonBox{}, err
	}
	if math.IsNaN(radiusMeters) || radiusMeters < 0 {
		return LatLonBox{}, fmt.Errorf("%w: radius %v", ErrInvalidGeometry, radiusMeters)
	}
	world := LatLonBox{MinLat: MinLatitude, MaxLat: MaxLatitude, MinLon: MinLongitude, MaxLon: MaxLongitude}
	if math.IsInf(radiusMeters, 1) {
		return world, nil
	}

	radLat := lat * toRadians
	radLon := lon * toRadians
	radDistance := (radiusMeters + boxSlopMeters) / EarthMeanRadiusMeters
	minLat := radLat - radDistance
	maxLat := radLat + radDistance

	const (
		minLatRad = MinLatitude * toRadians
		maxLatRad = MaxLatitude * toRadians
		minLonRad = MinLongitude * toRadians
		maxLonRad = MaxLongitude * toRadians
	)

	var minLon, maxLon float64
	if minLat > minLatRad && maxLat < maxLatRad {
		deltaLon := math.Asin(math.Sin(radDistance) / math.Cos(radLat))
		minLon = radLon - deltaLon
		if minLon < minLonRad {
			minLon += 2 * math.Pi
		}
		maxLon = radLon + deltaLon
		if maxLon > maxLonRad {
			maxLon -= 2 * math.Pi
		}
	} else {
		// a pole is within the distance
		minLon = minLonRad
		maxLon = maxLonRad
	}

	box := LatLonBox{
		MinLat: math.Max(MinLatitude, minLat*toDegrees),
		MaxLat: math.Min(MaxLatitude, maxLat*toDegrees),
		MinLon: math.Max(MinLongitude, minLon*toDegrees),
		MaxLon: math.Min(MaxLongitude, maxLon*toDegrees),
	}
	if math.IsNaN(box.MinLon) || math.IsNaN(box.MaxLon) {
		box.MinLon, box.MaxLon = MinLongitude, MaxLongitude
	}
	return box, nil
}
