package storage

import (
	"math"
	"sort"

	"xalqbahosi/internal/domain"
)

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// withinRadius keeps locations inside radiusKm, nearest first.
func withinRadius(locs []domain.Location, lat, lon, radiusKm float64) []domain.Location {
	type ranked struct {
		loc  domain.Location
		dist float64
	}
	hits := make([]ranked, 0, len(locs))
	for _, l := range locs {
		if d := DistanceKm(lat, lon, l.Lat, l.Lon); d <= radiusKm {
			hits = append(hits, ranked{loc: l, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]domain.Location, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.loc)
	}
	return out
}
