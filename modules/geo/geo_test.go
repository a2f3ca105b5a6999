package geo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"status":"success","country":"United States","city":"Mountain View","isp":"Google LLC","lat":37.386,"lon":-122.0838}`))
	}))
	defer ts.Close()

	client := NewClientWithBaseURL(ts.URL, time.Second)
	loc, err := client.Resolve("8.8.8.8")
	assert.Nil(t, err)
	assert.Equal(t, "United States", loc.Country)
	assert.Equal(t, "Mountain View", loc.City)
	assert.Equal(t, "Google LLC", loc.ISP)
	assert.Equal(t, 37.386, loc.Latitude)
	assert.Equal(t, -122.0838, loc.Longitude)
}

func TestResolveFailStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer ts.Close()

	client := NewClientWithBaseURL(ts.URL, time.Second)
	loc, err := client.Resolve("192.0.2.1")
	assert.NotNil(t, err)
	assert.Nil(t, loc)
}

func TestResolveHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClientWithBaseURL(ts.URL, time.Second)
	_, err := client.Resolve("8.8.8.8")
	assert.NotNil(t, err)
}

func TestResolveMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	client := NewClientWithBaseURL(ts.URL, time.Second)
	_, err := client.Resolve("8.8.8.8")
	assert.NotNil(t, err)
}

func TestResolveTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	client := NewClientWithBaseURL(ts.URL, 20*time.Millisecond)
	_, err := client.Resolve("8.8.8.8")
	assert.NotNil(t, err)
}

func TestPrivateNetworkLocation(t *testing.T) {
	loc := PrivateNetworkLocation()
	assert.Equal(t, "Private Network", loc.ISP)
	assert.Equal(t, "Local", loc.Country)
	assert.Equal(t, "Local", loc.City)
	assert.Zero(t, loc.Latitude)
	assert.Zero(t, loc.Longitude)
}
