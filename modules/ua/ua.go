package ua

import (
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
)

// Device categories. Anything we cannot place defaults to desktop, matching
// how the dashboard buckets traffic.
const (
	CategoryMobile  = "mobile"
	CategoryTablet  = "tablet"
	CategoryDesktop = "desktop"
)

// Info is the classified view of a raw user-agent string. Unparseable
// input yields empty fields and the desktop category, never an error.
type Info struct {
	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	DeviceCategory string
	DeviceVendor   string
	DeviceModel    string
}

var parser = uaparser.NewFromSaved()

// Classify parses a raw user-agent string into browser, OS and device
// fields using the shared uap-core rule set.
func Classify(raw string) Info {
	client := parser.Parse(raw)

	info := Info{
		BrowserName:    family(client.UserAgent.Family),
		BrowserVersion: client.UserAgent.ToVersionString(),
		OSName:         family(client.Os.Family),
		OSVersion:      client.Os.ToVersionString(),
		DeviceVendor:   client.Device.Brand,
		DeviceModel:    family(client.Device.Family),
		DeviceCategory: category(raw),
	}
	return info
}

// DeviceType is the free-form descriptor we persist: vendor and model
// joined when either is known, otherwise the category bucket.
func (i Info) DeviceType() string {
	descriptor := strings.TrimSpace(strings.Join([]string{i.DeviceVendor, i.DeviceModel}, " "))
	if descriptor != "" {
		return descriptor
	}
	return i.DeviceCategory
}

// Browser renders "Name Version" the way the visit record stores it.
func (i Info) Browser() string {
	return strings.TrimSpace(i.BrowserName + " " + i.BrowserVersion)
}

// OS renders "Name Version" the way the visit record stores it.
func (i Info) OS() string {
	return strings.TrimSpace(i.OSName + " " + i.OSVersion)
}

// uap-core reports unknowns as "Other"; the pipeline wants empty fields.
func family(name string) string {
	if name == "Other" {
		return ""
	}
	return name
}

// Android tablets carry no "Mobile" token, which is why the tablet check
// runs first.
func category(raw string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "ipad"), strings.Contains(s, "tablet"), strings.Contains(s, "kindle"):
		return CategoryTablet
	case strings.Contains(s, "mobi"), strings.Contains(s, "iphone"), strings.Contains(s, "ipod"), strings.Contains(s, "windows phone"):
		return CategoryMobile
	default:
		return CategoryDesktop
	}
}
