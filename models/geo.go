package models

// GeoLocation is what the IP geolocation lookup yields for an address.
type GeoLocation struct {
	Country   string
	City      string
	ISP       string
	Latitude  float64
	Longitude float64
}
