package model

// GeoPosition places an entity. For geographic zones the coordinates are
// degrees; for grid zones Longitude is the x axis and Latitude the y axis.
type GeoPosition struct {
	EntityID  string  `json:"entity_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Track pairs two consecutive position samples of the same entity.
type Track struct {
	EntityID string      `json:"entity_id"`
	Previous GeoPosition `json:"previous"`
	Current  GeoPosition `json:"current"`
}
