package models

// ClientSignals is what the interstitial page collects in the visitor's
// browser and posts to /verify. Coordinates are only set when the visitor
// granted location access; they are never persisted as their own entity.
type ClientSignals struct {
	ShortCode string   `json:"shortCode"`
	UserAgent string   `json:"userAgent"`
	Referrer  string   `json:"referrer"`
	Screen    string   `json:"screen"`
	Language  string   `json:"language"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
}

// HasGPS reports whether the visitor supplied a usable coordinate pair.
// A lone latitude or longitude is ignored so a partial fix can never be
// mixed with resolver-derived coordinates.
func (s ClientSignals) HasGPS() bool {
	return s.Latitude != nil && s.Longitude != nil
}
