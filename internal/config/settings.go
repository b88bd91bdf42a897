package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the program environment, distinct from the per-run file.
type Settings struct {
	// DataDir holds stored runs (metadata plus records).
	DataDir string `yaml:"data_dir"`

	Ephemeris EphemerisSettings `yaml:"ephemeris"`
	Horizons  HorizonsSettings  `yaml:"horizons"`

	// Workers bounds the integrator's per-phase fan-out; 0 = one per CPU.
	Workers int `yaml:"workers"`
}

type EphemerisSettings struct {
	// Source selects the massive-body ephemeris. Only "vsop87" is shipped.
	Source string `yaml:"source"`
	// VSOP87Dir holds the series data files; empty defers to the VSOP87
	// environment variable.
	VSOP87Dir string `yaml:"vsop87_dir"`
}

type HorizonsSettings struct {
	Endpoint       string `yaml:"endpoint"`
	Center         string `yaml:"center"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Concurrency    int    `yaml:"concurrency"`
}

func DefaultSettings() *Settings {
	return &Settings{
		DataDir: ".minorbit",
		Ephemeris: EphemerisSettings{
			Source: "vsop87",
		},
		Horizons: HorizonsSettings{
			Endpoint:       "https://ssd.jpl.nasa.gov/api/horizons.api",
			Center:         "500@10",
			TimeoutSeconds: 30,
			Concurrency:    4,
		},
	}
}

// LoadSettings reads the yaml settings at path over the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func SaveSettings(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
