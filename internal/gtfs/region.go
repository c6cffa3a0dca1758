package gtfs

// Region is the bounding box of all stops in a snapshot, given as its centre and
// its latitude and longitude spans in degrees.
type Region struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	LatSpan float64 `json:"latSpan"`
	LonSpan float64 `json:"lonSpan"`
}

// RegionBounds returns the bounding box of the snapshot's stops. An empty graph
// yields the zero Region.
func (snapshot *Snapshot) RegionBounds() Region {
	var minLat, maxLat, minLon, maxLon float64
	first := true
	for _, id := range snapshot.Graph.Stops() {
		c, _ := snapshot.Graph.Coordinate(id)
		if first {
			minLat, maxLat = c.Lat, c.Lat
			minLon, maxLon = c.Lng, c.Lng
			first = false
			continue
		}
		minLat = min(minLat, c.Lat)
		maxLat = max(maxLat, c.Lat)
		minLon = min(minLon, c.Lng)
		maxLon = max(maxLon, c.Lng)
	}

	return Region{
		Lat:     (minLat + maxLat) / 2,
		Lon:     (minLon + maxLon) / 2,
		LatSpan: maxLat - minLat,
		LonSpan: maxLon - minLon,
	}
}
