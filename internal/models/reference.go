package models

// Area is static reference data.
type Area struct {
	AreaID string `json:"areaId"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// Park is a physical location. AreaCode points at Area.Code.
type Park struct {
	ParkID   string `json:"parkId"`
	AreaCode string `json:"areaCode"`
	Name     string `json:"name,omitempty"`
}
