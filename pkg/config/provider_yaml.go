package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		InfluxDB struct {
			URL   string `yaml:"url"`
			Token string `yaml:"token"`
			Org   string `yaml:"org"`
		} `yaml:"influxdb"`
		Export struct {
			UALBucket      string `yaml:"ual_bucket,omitempty"`
			LUBWBucket     string `yaml:"lubw_bucket,omitempty"`
			UALSensor      string `yaml:"ual_sensor,omitempty"`
			LUBWSensor     string `yaml:"lubw_sensor,omitempty"`
			AggregateEvery string `yaml:"aggregate_every,omitempty"`
			JoinMode       string `yaml:"join_mode,omitempty"`
			OutputDir      string `yaml:"output_dir,omitempty"`
		} `yaml:"export,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		InfluxDB: InfluxDBData{
			URL:   yamlConfig.InfluxDB.URL,
			Token: yamlConfig.InfluxDB.Token,
			Org:   yamlConfig.InfluxDB.Org,
		},
		Export: ExportData{
			UALBucket:      yamlConfig.Export.UALBucket,
			LUBWBucket:     yamlConfig.Export.LUBWBucket,
			UALSensor:      yamlConfig.Export.UALSensor,
			LUBWSensor:     yamlConfig.Export.LUBWSensor,
			AggregateEvery: yamlConfig.Export.AggregateEvery,
			JoinMode:       yamlConfig.Export.JoinMode,
			OutputDir:      yamlConfig.Export.OutputDir,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
