package models

import (
	"time"

	"github.com/guregu/null"
)

// Visit is the enrichment record written once per resolved redirect,
// after the visitor has already been answered. Append-only.
type Visit struct {
	ID         int64       `json:"id" db:"id"`
	LinkID     int64       `json:"link_id" db:"link_id"`
	IP         string      `json:"ip" db:"ip"`
	Country    null.String `json:"country" db:"country"`
	City       null.String `json:"city" db:"city"`
	ISP        null.String `json:"isp" db:"isp"`
	DeviceType string      `json:"device_type" db:"device_type"`
	OS         null.String `json:"os" db:"os"`
	Browser    null.String `json:"browser" db:"browser"`
	UserAgent  string      `json:"user_agent" db:"user_agent"`
	Referrer   null.String `json:"referrer" db:"referrer"`
	Latitude   null.Float  `json:"latitude" db:"latitude"`
	Longitude  null.Float  `json:"longitude" db:"longitude"`
	Accuracy   null.Float  `json:"accuracy" db:"accuracy"`
	Properties PropertyMap `json:"properties" db:"properties"`
	Created    time.Time   `json:"created_at" db:"created_at"`
}
