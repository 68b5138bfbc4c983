package config

import (
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var (
	KeyServerAddress   = "server.address"
	KeyMapCenter       = "map.center"
	KeyMapZoom         = "map.zoom"
	KeyMapTileURL      = "map.tile_url"
	KeyMapAttribution  = "map.attribution"
	KeyMapFitPadding   = "map.fit_padding"
	KeyMapSettleDelay  = "map.settle_delay"
	KeyMapFitOnLoad    = "map.fit_on_load"
	KeyStyleWeight     = "style.weight"
	KeyStyleOpacity    = "style.opacity"
	KeyFetchTimeout    = "fetch.timeout"
	KeyFetchUserAgent  = "fetch.user_agent"
	KeyLogLevel        = "log.level"
	KeyDisplayLocale   = "display.locale"
	KeyDatasets        = "datasets"
	KeyExportDirectory = "export.directory"
)

// SetDefaults registers the defaults of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddress, ":8000")
	v.SetDefault(KeyMapCenter, []float64{55.0, 18.0})
	v.SetDefault(KeyMapZoom, 6)
	v.SetDefault(KeyMapTileURL, "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}")
	v.SetDefault(KeyMapAttribution, "Tiles © Esri, USGS, NOAA")
	v.SetDefault(KeyMapFitPadding, 0.1)
	v.SetDefault(KeyMapSettleDelay, 3*time.Second)
	v.SetDefault(KeyMapFitOnLoad, true)
	v.SetDefault(KeyStyleWeight, 3.0)
	v.SetDefault(KeyStyleOpacity, 0.9)
	v.SetDefault(KeyFetchTimeout, 30*time.Second)
	v.SetDefault(KeyFetchUserAgent, "trackmap")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDisplayLocale, "en_US")
	v.SetDefault(KeyDatasets, DefaultDatasets())
	v.SetDefault(KeyExportDirectory, "trackmap-export")
}

func init() {
	SetDefaults(viper.GetViper())
}

func ServerAddress() string {
	return viper.GetString(KeyServerAddress)
}

// MapCenter returns the initial [lat, lon] of the map. Values from a config file
// arrive as []interface{}, defaults as []float64.
func MapCenter() [2]float64 {
	center := [2]float64{55.0, 18.0}

	var values []float64
	switch raw := viper.Get(KeyMapCenter).(type) {
	case []float64:
		values = raw
	case []interface{}:
		for _, x := range raw {
			f, err := cast.ToFloat64E(x)
			if err != nil {
				return center
			}
			values = append(values, f)
		}
	}

	if len(values) == 2 {
		center[0], center[1] = values[0], values[1]
	}

	return center
}

func MapZoom() int {
	return viper.GetInt(KeyMapZoom)
}

func MapTileURL() string {
	return viper.GetString(KeyMapTileURL)
}

func MapAttribution() string {
	return viper.GetString(KeyMapAttribution)
}

func MapFitPadding() float64 {
	return viper.GetFloat64(KeyMapFitPadding)
}

func MapSettleDelay() time.Duration {
	return viper.GetDuration(KeyMapSettleDelay)
}

func MapFitOnLoad() bool {
	return viper.GetBool(KeyMapFitOnLoad)
}

func StyleWeight() float64 {
	return viper.GetFloat64(KeyStyleWeight)
}

func StyleOpacity() float64 {
	return viper.GetFloat64(KeyStyleOpacity)
}

func FetchTimeout() time.Duration {
	return viper.GetDuration(KeyFetchTimeout)
}

func FetchUserAgent() string {
	return viper.GetString(KeyFetchUserAgent)
}

func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

func DisplayLocale() string {
	return viper.GetString(KeyDisplayLocale)
}

func ExportDirectory() string {
	return viper.GetString(KeyExportDirectory)
}

func GPXExtensions() []string {
	return []string{".gpx"}
}

func CSVExtensions() []string {
	return []string{".csv", ".txt"}
}
