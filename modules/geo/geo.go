package geo

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/zirius/linkcloak/models"
)

// DefaultTimeout bounds the external lookup so a slow geolocation service
// cannot pile up enrichment jobs behind it.
const DefaultTimeout = 5 * time.Second

const defaultBaseURL = "http://ip-api.com/json"

// Resolver turns a public IP into a location. Implementations must degrade
// with an error rather than block; callers absorb the error into an empty
// result.
type Resolver interface {
	Resolve(ip string) (*models.GeoLocation, error)
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	ISP     string  `json:"isp"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Client queries the ip-api.com JSON endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithBaseURL exists so tests can point the client at a stub.
func NewClientWithBaseURL(baseURL string, timeout time.Duration) *Client {
	c := NewClient(timeout)
	c.baseURL = baseURL
	return c
}

func (c *Client) Resolve(ip string) (*models.GeoLocation, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/%s", c.baseURL, ip), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup returned status %v", resp.StatusCode)
	}

	var res ipAPIResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}

	if res.Status != "success" {
		return nil, fmt.Errorf("geo lookup failed for %v: %v", ip, res.Message)
	}

	return &models.GeoLocation{
		Country:   res.Country,
		City:      res.City,
		ISP:       res.ISP,
		Latitude:  res.Lat,
		Longitude: res.Lon,
	}, nil
}

// PrivateNetworkLocation is the fixed sentinel assigned to loopback and
// RFC1918 visitors without touching the network. It carries no
// coordinates.
func PrivateNetworkLocation() *models.GeoLocation {
	return &models.GeoLocation{
		Country: "Local",
		City:    "Local",
		ISP:     "Private Network",
	}
}
