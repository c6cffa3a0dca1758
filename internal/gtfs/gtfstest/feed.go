// Package gtfstest builds small static GTFS feeds for tests.
package gtfstest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// SampleFeed is a two-route network on a Seattle street grid:
//
//	route 10:   A - B - C
//	route r2:           C - D
//
// Route r2 has no short name, so its line id is the route id. Stop times of
// trip t1 are listed out of stop_sequence order.
func SampleFeed() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"1,Wayfinder Transit,http://example.com,America/Los_Angeles\n",
		"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
			"r1,1,10,Main Street,3\n" +
			"r2,1,,Harbor Loop,3\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"A,Alpha,47.600000,-122.330000\n" +
			"B,Bravo,47.600000,-122.325000\n" +
			"C,Charlie,47.600000,-122.320000\n" +
			"D,Delta,47.605000,-122.320000\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"wk,1,1,1,1,1,1,1,20240101,20301231\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"r1,wk,t1\n" +
			"r2,wk,t2\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"t1,08:10:00,08:10:00,C,3\n" +
			"t1,08:00:00,08:00:00,A,1\n" +
			"t1,08:05:00,08:05:00,B,2\n" +
			"t2,08:20:00,08:20:00,C,1\n" +
			"t2,08:25:00,08:25:00,D,2\n",
	}
}

// Zip packs files into an in-memory zip archive.
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating %s in feed zip: %v", name, err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			t.Fatalf("writing %s to feed zip: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing feed zip: %v", err)
	}
	return buf.Bytes()
}

// WriteFeed writes files as a zip in a temporary directory and returns its path.
func WriteFeed(t testing.TB, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	if err := os.WriteFile(path, Zip(t, files), 0o600); err != nil {
		t.Fatalf("writing feed zip: %v", err)
	}
	return path
}
