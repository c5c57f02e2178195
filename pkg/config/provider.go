// Package config loads the exporter configuration: the InfluxDB
// connection context and the export defaults.
package config

import (
	"fmt"

	"github.com/urbanairlab/ualexport/pkg/buckets"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	InfluxDB InfluxDBData `json:"influxdb"`
	Export   ExportData   `json:"export,omitempty"`
}

// InfluxDBData holds the connection context for the query executor
type InfluxDBData struct {
	URL   string `json:"url"`
	Token string `json:"token"`
	Org   string `json:"org"`
}

// ExportData holds the export defaults applied when the CLI flags leave
// them unset
type ExportData struct {
	UALBucket      string `json:"ual_bucket,omitempty"`
	LUBWBucket     string `json:"lubw_bucket,omitempty"`
	UALSensor      string `json:"ual_sensor,omitempty"`
	LUBWSensor     string `json:"lubw_sensor,omitempty"`
	AggregateEvery string `json:"aggregate_every,omitempty"`
	JoinMode       string `json:"join_mode,omitempty"`
	OutputDir      string `json:"output_dir,omitempty"`
}

// Validate checks required fields and fills defaulted ones.
func (c *ConfigData) Validate() error {
	if c.InfluxDB.URL == "" {
		return fmt.Errorf("influxdb.url is required")
	}
	if c.InfluxDB.Token == "" {
		return fmt.Errorf("influxdb.token is required")
	}
	if c.InfluxDB.Org == "" {
		return fmt.Errorf("influxdb.org is required")
	}
	if c.Export.UALBucket == "" {
		c.Export.UALBucket = buckets.UALMinuteMeasurement.String()
	} else if _, err := buckets.Lookup(c.Export.UALBucket); err != nil {
		return fmt.Errorf("export.ual_bucket: %w", err)
	}
	if c.Export.LUBWBucket == "" {
		c.Export.LUBWBucket = buckets.LUBWHour.String()
	} else if _, err := buckets.Lookup(c.Export.LUBWBucket); err != nil {
		return fmt.Errorf("export.lubw_bucket: %w", err)
	}
	if c.Export.AggregateEvery == "" {
		c.Export.AggregateEvery = "1h"
	}
	if c.Export.JoinMode == "" {
		c.Export.JoinMode = "inner"
	}
	switch c.Export.JoinMode {
	case "inner", "outer", "left", "right":
	default:
		return fmt.Errorf("export.join_mode: unknown mode %q", c.Export.JoinMode)
	}
	return nil
}
