package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements Provider for YAML configuration files.
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{filename: filename}
}

// LoadConfig loads the complete configuration from the YAML file.
func (y *YAMLProvider) LoadConfig() (*Data, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into a temporary struct with YAML tags; dates arrive as
	// strings and are parsed below.
	var yamlConfig struct {
		ModelID         string `yaml:"model_id"`
		StartDate       string `yaml:"start_date"`
		EndDate         string `yaml:"end_date"`
		Frequency       string `yaml:"frequency"`
		HourlyIncrement int    `yaml:"hourly_increment"`
		Bbox            struct {
			XMin float64 `yaml:"xmin"`
			XMax float64 `yaml:"xmax"`
			YMin float64 `yaml:"ymin"`
			YMax float64 `yaml:"ymax"`
		} `yaml:"bbox"`
		Sensor          string `yaml:"sensor,omitempty"`
		ConstantsTable  string `yaml:"constants_table,omitempty"`
		RasterTemplates []struct {
			Name            string `yaml:"name"`
			BaseDirectory   string `yaml:"base_directory"`
			FilenamePattern string `yaml:"filename_pattern"`
			DateFormat      string `yaml:"date_format"`
		} `yaml:"raster_templates"`
		OutputDirectory string `yaml:"output_directory"`
		Workers         int    `yaml:"workers,omitempty"`
		LUT             struct {
			TablePath string `yaml:"table_path"`
			CachePath string `yaml:"cache_path,omitempty"`
		} `yaml:"lut,omitempty"`
	}

	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	startDate, err := time.Parse(DateLayout, yamlConfig.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date format: %w", err)
	}
	endDate, err := time.Parse(DateLayout, yamlConfig.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date format: %w", err)
	}
	frequency, err := ParseTimeStep(yamlConfig.Frequency)
	if err != nil {
		return nil, err
	}

	// Convert to the internal format.
	data := &Data{
		ModelID:         yamlConfig.ModelID,
		StartDate:       startDate,
		EndDate:         endDate,
		Frequency:       frequency,
		HourlyIncrement: yamlConfig.HourlyIncrement,
		Sensor:          yamlConfig.Sensor,
		ConstantsTable:  yamlConfig.ConstantsTable,
		OutputDirectory: yamlConfig.OutputDirectory,
		Workers:         yamlConfig.Workers,
		LUT: LUTData{
			TablePath: yamlConfig.LUT.TablePath,
			CachePath: yamlConfig.LUT.CachePath,
		},
	}
	data.Bbox.XMin = yamlConfig.Bbox.XMin
	data.Bbox.XMax = yamlConfig.Bbox.XMax
	data.Bbox.YMin = yamlConfig.Bbox.YMin
	data.Bbox.YMax = yamlConfig.Bbox.YMax

	data.RasterTemplates = make([]RasterTemplate, len(yamlConfig.RasterTemplates))
	for i, rt := range yamlConfig.RasterTemplates {
		data.RasterTemplates[i] = RasterTemplate{
			Name:            rt.Name,
			BaseDirectory:   rt.BaseDirectory,
			FilenamePattern: rt.FilenamePattern,
			DateFormat:      rt.DateFormat,
		}
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

// Close is a no-op for file-backed providers.
func (y *YAMLProvider) Close() error { return nil }
