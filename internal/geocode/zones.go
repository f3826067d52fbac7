package geocode

import "github.com/bradfitz/latlong"

// LatLongZones finds IANA zones from the compiled-in latlong shape table.
type LatLongZones struct{}

// ZoneFor returns the zone covering the coordinates. Open ocean has none.
func (LatLongZones) ZoneFor(lat, lon float64) (string, bool) {
	zone := latlong.LookupZoneName(lat, lon)
	return zone, zone != ""
}
