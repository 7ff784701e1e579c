package domain

// Location types known to the stats screen.
const (
	TypeSchool       = "maktab"
	TypeClinic       = "klinika"
	TypeKindergarten = "bogcha"
	TypeWater        = "suv"
	TypeRoad         = "yo'l"
)

var LocationTypes = []string{TypeSchool, TypeClinic, TypeKindergarten, TypeWater, TypeRoad}

type Location struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Rating      Rating  `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// LocationPatch is a partial update; nil fields are left as they are.
type LocationPatch struct {
	Rating      *Rating `json:"rating,omitempty"`
	ReviewCount *int    `json:"reviewCount,omitempty"`
}

// Apply returns a copy of l with the patch applied.
func (p LocationPatch) Apply(l Location) Location {
	if p.Rating != nil {
		l.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		l.ReviewCount = *p.ReviewCount
	}
	return l
}

// FindLocation returns the location with the given id.
func FindLocation(locs []Location, id string) (Location, bool) {
	for _, l := range locs {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
