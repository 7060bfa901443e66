package reference

import (
	"os"

	"gopkg.in/yaml.v3"
)

// TerminalInfo names the destination terminal and the human direction label
// for one (route, direction code) pair.
type TerminalInfo struct {
	Terminal  string `yaml:"term"`
	Direction string `yaml:"dir"`
}

// Terminals is the immutable route terminal table, keyed by route id then by
// direction code (N/S).
type Terminals struct {
	entries map[string]map[string]TerminalInfo
}

func LoadTerminals(path string) (*Terminals, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := map[string]map[string]TerminalInfo{}
	if err := yaml.Unmarshal(file, &entries); err != nil {
		return nil, err
	}

	return &Terminals{entries: entries}, nil
}

func NewTerminals(entries map[string]map[string]TerminalInfo) *Terminals {
	return &Terminals{entries: entries}
}

func (t *Terminals) Lookup(routeID string, directionCode string) (TerminalInfo, bool) {
	route, found := t.entries[routeID]
	if !found {
		return TerminalInfo{}, false
	}

	info, found := route[directionCode]

	return info, found
}
