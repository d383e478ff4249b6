package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the optional config file looked up in the config directory.
const FileName = "register_cars.cfg.json"

// PathsConfig holds project relative, slash separated locations.
type PathsConfig struct {
	Models    string `json:"models" mapstructure:"models"`
	CarScenes string `json:"carScenes" mapstructure:"carScenes"`
	MainScene string `json:"mainScene" mapstructure:"mainScene"`
}

// ExtConfig holds file extensions without the leading dot.
type ExtConfig struct {
	Model string `json:"model" mapstructure:"model"`
	Scene string `json:"scene" mapstructure:"scene"`
}

// ArraysConfig names the car manager arrays patched in the main scene.
type ArraysConfig struct {
	Scenes string `json:"scenes" mapstructure:"scenes"`
	Names  string `json:"names" mapstructure:"names"`
}

// LedgerConfig holds registration ledger settings.
type LedgerConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// Config is the typed view of the loaded settings.
type Config struct {
	LogLevel     string       `json:"logLevel" mapstructure:"logLevel"`
	LogsDir      string       `json:"logsDir" mapstructure:"logsDir"`
	Paths        PathsConfig  `json:"paths" mapstructure:"paths"`
	Ext          ExtConfig    `json:"ext" mapstructure:"ext"`
	ResourceType string       `json:"resourceType" mapstructure:"resourceType"`
	Arrays       ArraysConfig `json:"arrays" mapstructure:"arrays"`
	Ledger       LedgerConfig `json:"ledger" mapstructure:"ledger"`
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "warn")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("paths.models", "assets/models")
	viper.SetDefault("paths.carScenes", "scenes/cars")
	viper.SetDefault("paths.mainScene", "scenes/main.tscn")

	viper.SetDefault("ext.model", "glb")
	viper.SetDefault("ext.scene", "tscn")

	viper.SetDefault("resourceType", "PackedScene")

	viper.SetDefault("arrays.scenes", "car_scenes")
	viper.SetDefault("arrays.names", "car_names")

	viper.SetDefault("ledger.enabled", false)
	viper.SetDefault("ledger.path", ".register_cars/registry.db")
}

// Load sets default values and reads the JSON config file from configDir.
// A missing file is not an error; defaults apply.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Get returns the current settings as a Config.
func Get() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
