package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

// GeoService resolves locations through two external collaborators: Nominatim
// for reverse geocoding browser coordinates and ip-api for IP lookups when the
// guest denied geolocation. Both are best effort, failures degrade to empty
// values and never fail the scan.
type GeoService struct {
	HTTPClient   *http.Client
	NominatimURL string
	IPAPIURL     string
	Logger       *logrus.Logger
}

func NewGeoService(httpClient *http.Client, nominatimURL, ipAPIURL string, logger *logrus.Logger) *GeoService {
	return &GeoService{
		HTTPClient:   httpClient,
		NominatimURL: nominatimURL,
		IPAPIURL:     ipAPIURL,
		Logger:       logger,
	}
}

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// ReverseGeocode returns the city name for the coordinates, or "" when the
// lookup fails or the location has no city.
func (s *GeoService) ReverseGeocode(latitude, longitude string) string {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", latitude)
	query.Set("lon", longitude)

	var result nominatimResponse
	if err := s.getJSON(fmt.Sprintf("%s/reverse?%s", s.NominatimURL, query.Encode()), &result); err != nil {
		s.Logger.Errorf("Error with geolocation: %v", err)
		return ""
	}

	switch {
	case result.Address.City != "":
		return result.Address.City
	case result.Address.Town != "":
		return result.Address.Town
	default:
		return result.Address.Village
	}
}

type ipAPIResponse struct {
	Status string  `json:"status"`
	City   string  `json:"city"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// LocateIP geolocates a guest by IP address. Failed lookups return empty
// strings for all three values.
func (s *GeoService) LocateIP(ip string) (latitude, longitude, city string) {
	var result ipAPIResponse
	if err := s.getJSON(fmt.Sprintf("%s/json/%s", s.IPAPIURL, url.PathEscape(ip)), &result); err != nil {
		s.Logger.Errorf("Error with IP geolocation for %s: %v", ip, err)
		return "", "", ""
	}
	if result.Status != "success" {
		s.Logger.Infof("IP geolocation for %s returned status %q", ip, result.Status)
		return "", "", ""
	}
	return fmt.Sprintf("%g", result.Lat), fmt.Sprintf("%g", result.Lon), result.City
}

func (s *GeoService) getJSON(rawURL string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "pet-book")
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
