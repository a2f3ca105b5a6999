package ua

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
	chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	ipadUA   = "Mozilla/5.0 (iPad; CPU OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
)

func TestClassifyIPhone(t *testing.T) {
	info := Classify(iphoneUA)

	assert.Contains(t, info.BrowserName, "Safari")
	assert.Equal(t, "iOS", info.OSName)
	assert.Equal(t, CategoryMobile, info.DeviceCategory)
	assert.Equal(t, "Apple", info.DeviceVendor)
	assert.Equal(t, "iPhone", info.DeviceModel)
	assert.Equal(t, "Apple iPhone", info.DeviceType())
}

func TestClassifyDesktopChrome(t *testing.T) {
	info := Classify(chromeUA)

	assert.Equal(t, "Chrome", info.BrowserName)
	assert.Equal(t, "Windows", info.OSName)
	assert.Equal(t, CategoryDesktop, info.DeviceCategory)
	// No vendor or model known, descriptor falls back to the category.
	assert.Equal(t, CategoryDesktop, info.DeviceType())
}

func TestClassifyTablet(t *testing.T) {
	info := Classify(ipadUA)
	assert.Equal(t, CategoryTablet, info.DeviceCategory)
}

func TestClassifyGarbage(t *testing.T) {
	for _, raw := range []string{"", "null", "definitely-not-a-browser"} {
		info := Classify(raw)
		assert.Empty(t, info.BrowserName, "raw=%q", raw)
		assert.Empty(t, info.OSName, "raw=%q", raw)
		assert.Equal(t, CategoryDesktop, info.DeviceCategory, "raw=%q", raw)
		assert.Equal(t, CategoryDesktop, info.DeviceType(), "raw=%q", raw)
	}
}

func TestBrowserAndOSStrings(t *testing.T) {
	info := Classify(chromeUA)
	assert.Contains(t, info.Browser(), "Chrome")
	assert.Contains(t, info.OS(), "Windows")

	empty := Classify("")
	assert.Equal(t, "", empty.Browser())
	assert.Equal(t, "", empty.OS())
}
