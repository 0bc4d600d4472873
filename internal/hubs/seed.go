package hubs

import (
	"fmt"

	"github.com/relaymesh/relaycoord/internal/models"
	"github.com/spf13/viper"
)

// DefaultCatalog returns the built-in city hub seed catalog.
// One hub per region is flagged as the designated regional routing hub.
func DefaultCatalog() []models.CityHub {
	return []models.CityHub{
		{ID: "NYC", Name: "New York", Location: models.GeoPoint{Lat: 40.7128, Lng: -74.0060}, Region: "na", Capacity: 50, Regional: true},
		{ID: "TOR", Name: "Toronto", Location: models.GeoPoint{Lat: 43.6532, Lng: -79.3832}, Region: "na", Capacity: 30},
		{ID: "SFO", Name: "San Francisco", Location: models.GeoPoint{Lat: 37.7749, Lng: -122.4194}, Region: "na", Capacity: 40},
		{ID: "LON", Name: "London", Location: models.GeoPoint{Lat: 51.5074, Lng: -0.1278}, Region: "eu", Capacity: 50},
		{ID: "PAR", Name: "Paris", Location: models.GeoPoint{Lat: 48.8566, Lng: 2.3522}, Region: "eu", Capacity: 35},
		{ID: "FRA", Name: "Frankfurt", Location: models.GeoPoint{Lat: 50.1109, Lng: 8.6821}, Region: "eu", Capacity: 45, Regional: true},
		{ID: "TOK", Name: "Tokyo", Location: models.GeoPoint{Lat: 35.6762, Lng: 139.6503}, Region: "apac", Capacity: 50},
		{ID: "SIN", Name: "Singapore", Location: models.GeoPoint{Lat: 1.3521, Lng: 103.8198}, Region: "apac", Capacity: 45, Regional: true},
		{ID: "SYD", Name: "Sydney", Location: models.GeoPoint{Lat: -33.8688, Lng: 151.2093}, Region: "apac", Capacity: 30},
		{ID: "DXB", Name: "Dubai", Location: models.GeoPoint{Lat: 25.2048, Lng: 55.2708}, Region: "me", Capacity: 35, Regional: true},
		{ID: "SAO", Name: "Sao Paulo", Location: models.GeoPoint{Lat: -23.5505, Lng: -46.6333}, Region: "sa", Capacity: 30, Regional: true},
		{ID: "JNB", Name: "Johannesburg", Location: models.GeoPoint{Lat: -26.2041, Lng: 28.0473}, Region: "af", Capacity: 25, Regional: true},
	}
}

// LoadCatalog loads a city hub catalog from a YAML file.
// An empty path returns the built-in seed catalog.
//
// Expected file shape:
//
//	hubs:
//	  - id: NYC
//	    name: New York
//	    location: {lat: 40.7128, lng: -74.0060}
//	    region: na
//	    capacity: 50
//	    regional: true
func LoadCatalog(path string) ([]models.CityHub, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read hub catalog %s: %w", path, err)
	}

	var catalog []models.CityHub
	if err := v.UnmarshalKey("hubs", &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hub catalog: %w", err)
	}

	if len(catalog) == 0 {
		return nil, fmt.Errorf("hub catalog %s contains no hubs", path)
	}

	return catalog, nil
}
