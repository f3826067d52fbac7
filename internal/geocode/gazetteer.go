// Package geocode resolves free-text birth places to coordinates and IANA timezones.
package geocode

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/four-pillars/internal/model"
)

//go:embed cities.yaml
var citiesYAML []byte

type city struct {
	Timezone    string  `yaml:"timezone"`
	DisplayName string  `yaml:"display_name"`
	Lat         float64 `yaml:"lat"`
	Lon         float64 `yaml:"lon"`
}

// Gazetteer resolves well-known cities without network access.
type Gazetteer struct {
	cities map[string]city
}

// NewGazetteer loads the embedded city table.
func NewGazetteer() (*Gazetteer, error) {
	cities := make(map[string]city)
	if err := yaml.Unmarshal(citiesYAML, &cities); err != nil {
		return nil, fmt.Errorf("failed to parse built-in cities: %w", err)
	}
	return &Gazetteer{cities: cities}, nil
}

// NormalizePlace is the cache key for a place: lowercased and trimmed.
func NormalizePlace(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

// Lookup matches the first comma-separated segment of place against the table.
func (g *Gazetteer) Lookup(place string) (*model.Location, bool) {
	key := NormalizePlace(place)
	if i := strings.IndexByte(key, ','); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	c, ok := g.cities[key]
	if !ok {
		return nil, false
	}
	return &model.Location{
		Name:        strings.TrimSpace(place),
		DisplayName: c.DisplayName,
		Latitude:    c.Lat,
		Longitude:   c.Lon,
		Timezone:    c.Timezone,
		Source:      model.SourceBuiltin,
	}, true
}

// Cities lists the built-in city keys in order.
func (g *Gazetteer) Cities() []string {
	names := make([]string, 0, len(g.cities))
	for name := range g.cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
