package ingest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FeedEndpoint is one configured GTFS-RT feed URL. The subway feeds require
// no authentication.
type FeedEndpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

func LoadEndpoints(path string) ([]FeedEndpoint, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var endpoints []FeedEndpoint
	if err := yaml.Unmarshal(file, &endpoints); err != nil {
		return nil, err
	}

	return endpoints, nil
}
