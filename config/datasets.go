package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Dataset is one configured remote source.
type Dataset struct {
	Name        string `mapstructure:"name"`
	URL         string `mapstructure:"url"`
	Color       string `mapstructure:"color"`
	Format      string `mapstructure:"format"`
	Description string `mapstructure:"description"`
}

const rawBaseURL = "https://raw.githubusercontent.com/rose2023va/Karolina-Szczepaniak-Baltic-Sea/refs/heads/main/"

func DefaultDatasets() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"name":  "Morze Emocji 2025 track",
			"url":   rawBaseURL + "Morze%20Emocji%202025%20track%20(2).gpx",
			"color": "blue",
		},
		{
			"name":  "Morze Emocji 2025",
			"url":   rawBaseURL + "Morze%20Emocji%202025.csv",
			"color": "red",
		},
		{
			"name":  "USERDATA_GPX",
			"url":   rawBaseURL + "USERDATA_GPX.csv",
			"color": "pink",
		},
	}
}

// Datasets decodes and validates the configured dataset list.
func Datasets() ([]Dataset, error) {
	return DatasetsFrom(viper.GetViper())
}

func DatasetsFrom(v *viper.Viper) ([]Dataset, error) {
	var datasets []Dataset
	if err := v.UnmarshalKey(KeyDatasets, &datasets); err != nil {
		return nil, fmt.Errorf("unmarshal datasets: %w", err)
	}

	if err := ValidateDatasets(datasets); err != nil {
		return nil, err
	}

	return datasets, nil
}

// ValidateDatasets reports every problem of the list at once.
func ValidateDatasets(datasets []Dataset) error {
	var errs []string

	if len(datasets) == 0 {
		errs = append(errs, "at least one dataset is required")
	}

	seen := make(map[string]bool)
	for i, ds := range datasets {
		name := strings.TrimSpace(ds.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("datasets[%d].name is required", i))
		} else if seen[name] {
			errs = append(errs, fmt.Sprintf("datasets[%d].name '%s' is not unique", i, name))
		}
		seen[name] = true

		if u, err := url.Parse(ds.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("datasets[%d].url '%s' is not an absolute URL", i, ds.URL))
		}

		switch strings.ToLower(strings.TrimSpace(ds.Format)) {
		case "", "gpx", "csv":
		default:
			errs = append(errs, fmt.Sprintf("datasets[%d].format must be gpx or csv, got '%s'", i, ds.Format))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("dataset validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
