// Package batch classifies many birth records concurrently.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Row is one parsed input record with its 1-based CSV line.
type Row struct {
	Record model.BirthRecord
	Line   int
}

// ReadRecords parses CSV birth records. The header must name date and time, and
// either place or latitude, longitude and timezone. name and dst are optional.
func ReadRecords(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "time"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	_, hasPlace := cols["place"]
	_, hasLat := cols["latitude"]
	_, hasLon := cols["longitude"]
	if !hasPlace && !(hasLat && hasLon) {
		return nil, fmt.Errorf("%w: place or latitude/longitude", ErrMissingColumn)
	}

	var rows []Row
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blank(fields) {
			continue
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		rec := model.BirthRecord{
			Name:  get("name"),
			Date:  get("date"),
			Time:  get("time"),
			Place: get("place"),
		}
		if rec.DST, err = ParseDST(get("dst")); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if lat, lon := get("latitude"), get("longitude"); lat != "" && lon != "" {
			loc, err := parseLocation(rec.Place, lat, lon, get("timezone"))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			rec.Location = loc
		}
		rows = append(rows, Row{Record: rec, Line: line})
	}
	return rows, nil
}

// ParseDST maps auto/on/off style values to a daylight-saving override.
// Empty and "auto" mean detect from the zone.
func ParseDST(value string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return nil, nil
	case "on", "yes", "true", "1":
		v := true
		return &v, nil
	case "off", "no", "false", "0":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: dst must be auto, on or off, got %q", common.ErrInvalidConfig, value)
	}
}

func parseLocation(name, lat, lon, zone string) (*model.Location, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q", common.ErrLocationNotFound, lat)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q", common.ErrLocationNotFound, lon)
	}
	if name == "" {
		name = lat + "," + lon
	}
	return &model.Location{
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		Timezone:  zone,
		Source:    model.SourceManual,
	}, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
