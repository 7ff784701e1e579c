package location

// CreateLocationRequest is the admin payload for a new location. A zero
// coordinate is treated as missing.
type CreateLocationRequest struct {
	Name    string  `json:"name" validate:"required"`
	Type    string  `json:"type" validate:"required"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon     float64 `json:"lon" validate:"required,min=-180,max=180"`
}

const DefaultNearbyRadiusKm = 5.0
