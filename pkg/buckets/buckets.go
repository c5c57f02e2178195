// Package buckets enumerates the InfluxDB buckets used by the UAL project.
package buckets

import "fmt"

// Bucket is the name of an InfluxDB bucket.
type Bucket string

const (
	// UALMinuteMeasurement holds the raw minute-resolution readings
	// published by the UAL sensor boxes.
	UALMinuteMeasurement Bucket = "ual_minute_measurement"

	// UALHourMeasurement holds hourly downsampled UAL readings.
	UALHourMeasurement Bucket = "ual_hour_measurement"

	// LUBWHour holds the hourly values imported from the LUBW
	// reference stations.
	LUBWHour Bucket = "lubw_hour"
)

// String returns the bucket name as used in Flux queries.
func (b Bucket) String() string {
	return string(b)
}

var byName = map[string]Bucket{
	"ual_minute_measurement": UALMinuteMeasurement,
	"ual_hour_measurement":   UALHourMeasurement,
	"lubw_hour":              LUBWHour,
}

// Lookup resolves a bucket by its name, for use with CLI flags and
// configuration files.
func Lookup(name string) (Bucket, error) {
	b, ok := byName[name]
	if !ok {
		return "", fmt.Errorf("unknown bucket: %q", name)
	}
	return b, nil
}
