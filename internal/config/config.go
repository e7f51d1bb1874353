package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dotcommander/districtkpi/internal/cue"
	"github.com/dotcommander/districtkpi/internal/scoring"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/spf13/viper"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config represents the districtkpi configuration
type Config struct {
	Root        string           `mapstructure:"root" yaml:"root" json:"root"`
	Format      string           `mapstructure:"format" yaml:"format" json:"format"`
	Output      string           `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty"`
	Quiet       bool             `mapstructure:"quiet" yaml:"quiet" json:"quiet"`
	Verbose     bool             `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	Lang        string           `mapstructure:"lang" yaml:"lang" json:"lang"`
	Rounding    string           `mapstructure:"rounding" yaml:"rounding" json:"rounding"`
	Concurrency int              `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
	Server      ServerConfig     `mapstructure:"server" yaml:"server" json:"server"`
	Parameters  ParametersConfig `mapstructure:"parameters" yaml:"parameters" json:"parameters"`
}

// ServerConfig contains HTTP service configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

// ParametersConfig mirrors scoring.Parameters with string district keys so
// config files and environment variables can address single thresholds.
type ParametersConfig struct {
	Complaint ComplaintConfig `mapstructure:"complaint" yaml:"complaint" json:"complaint"`
	Delivery  DeliveryConfig  `mapstructure:"delivery" yaml:"delivery" json:"delivery"`
	Outage    OutageConfig    `mapstructure:"outage" yaml:"outage" json:"outage"`
}

// ComplaintConfig contains complaint program thresholds
type ComplaintConfig struct {
	ResolveRate scoring.Band            `mapstructure:"resolveRate" yaml:"resolveRate" json:"resolveRate"`
	Thresholds  map[string]scoring.Band `mapstructure:"thresholds" yaml:"thresholds" json:"thresholds"`
}

// DeliveryConfig contains delivery program thresholds
type DeliveryConfig struct {
	OnTime  scoring.Band `mapstructure:"onTime" yaml:"onTime" json:"onTime"`
	Success scoring.Band `mapstructure:"success" yaml:"success" json:"success"`
}

// OutageConfig contains outage program thresholds and interruption factors
type OutageConfig struct {
	OutageRate scoring.Band `mapstructure:"outageRate" yaml:"outageRate" json:"outageRate"`
	Factors    []float64    `mapstructure:"factors" yaml:"factors,flow" json:"factors"`
}

// Supported values.
var (
	Formats     = []string{"console", "json", "markdown", "html"}
	Languages   = []string{"zh", "en"}
	DefaultAddr = ":8080"
)

var configPaths = []string{".districtkpirc.json", ".districtkpirc.yaml", ".districtkpirc.yml"}

// LoadConfig loads configuration from defaults, the config file (configFile,
// or the first .districtkpirc.* found in the working directory), and
// DISTRICTKPI_ environment variables. Bound command-line flags take
// precedence over all of them.
func LoadConfig(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		for _, path := range configPaths {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
			break
		}
	}

	viper.SetEnvPrefix("DISTRICTKPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("root", ".")
	viper.SetDefault("format", "console")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("lang", "zh")
	viper.SetDefault("rounding", scoring.RoundEachStep.String())
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("server.addr", DefaultAddr)

	p := scoring.DefaultParameters()
	setBandDefault("parameters.complaint.resolveRate", p.Complaint.ResolveRate)
	for _, d := range types.AllSlots() {
		setBandDefault("parameters.complaint.thresholds."+d.Key(), p.Complaint.Thresholds[d])
	}
	setBandDefault("parameters.delivery.onTime", p.Delivery.OnTime)
	setBandDefault("parameters.delivery.success", p.Delivery.Success)
	setBandDefault("parameters.outage.outageRate", p.Outage.OutageRate)
	viper.SetDefault("parameters.outage.factors", p.Outage.Factors[:])
}

func setBandDefault(key string, b scoring.Band) {
	viper.SetDefault(key+".baseline", b.Baseline)
	viper.SetDefault(key+".challenge", b.Challenge)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if !slices.Contains(Formats, config.Format) {
		return fmt.Errorf("invalid format: %s. Must be one of %s", config.Format, strings.Join(Formats, ", "))
	}

	if !slices.Contains(Languages, config.Lang) {
		return fmt.Errorf("invalid lang: %s. Must be one of %s", config.Lang, strings.Join(Languages, ", "))
	}

	if _, err := scoring.ParseRounding(config.Rounding); err != nil {
		return err
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if _, err := config.ScoringParameters(); err != nil {
		return err
	}

	return nil
}

// RoundingPolicy returns the configured rounding policy.
func (c *Config) RoundingPolicy() scoring.Rounding {
	r, _ := scoring.ParseRounding(c.Rounding)
	return r
}

// ScoringParameters converts and range-checks the configured parameters.
func (c *Config) ScoringParameters() (scoring.Parameters, error) {
	p, err := c.Parameters.ToParameters()
	if err != nil {
		return scoring.Parameters{}, err
	}
	if err := cue.Shared().ValidateValue(cue.SchemaParameters, p); err != nil {
		return scoring.Parameters{}, fmt.Errorf("invalid parameters: %w", err)
	}
	return p, nil
}

// ToParameters converts to scoring.Parameters. Districts and bands not named
// keep their defaults.
func (pc ParametersConfig) ToParameters() (scoring.Parameters, error) {
	p := scoring.DefaultParameters()

	p.Complaint.ResolveRate = pc.Complaint.ResolveRate
	for key, band := range pc.Complaint.Thresholds {
		d, err := types.ParseDistrict(key)
		if err != nil {
			return scoring.Parameters{}, fmt.Errorf("complaint thresholds: %w", err)
		}
		p.Complaint.Thresholds[d] = band
	}

	p.Delivery.OnTime = pc.Delivery.OnTime
	p.Delivery.Success = pc.Delivery.Success

	p.Outage.OutageRate = pc.Outage.OutageRate
	if len(pc.Outage.Factors) != len(p.Outage.Factors) {
		return scoring.Parameters{}, fmt.Errorf("outage factors: need exactly %d values, got %d", len(p.Outage.Factors), len(pc.Outage.Factors))
	}
	copy(p.Outage.Factors[:], pc.Outage.Factors)

	return p, nil
}

// FromParameters is the inverse of ToParameters.
func FromParameters(p scoring.Parameters) ParametersConfig {
	thresholds := make(map[string]scoring.Band, types.SlotCount)
	for _, d := range types.AllSlots() {
		thresholds[d.Key()] = p.Complaint.Thresholds[d]
	}
	return ParametersConfig{
		Complaint: ComplaintConfig{
			ResolveRate: p.Complaint.ResolveRate,
			Thresholds:  thresholds,
		},
		Delivery: DeliveryConfig{
			OnTime:  p.Delivery.OnTime,
			Success: p.Delivery.Success,
		},
		Outage: OutageConfig{
			OutageRate: p.Outage.OutageRate,
			Factors:    append([]float64(nil), p.Outage.Factors[:]...),
		},
	}
}

// SaveConfig saves the configuration to path. A .json extension writes
// JSON; anything else writes YAML.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(config, "", "  ")
	} else {
		data, err = yamlv3.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Default returns the built-in configuration without consulting viper.
func Default() *Config {
	return &Config{
		Root:        ".",
		Format:      "console",
		Lang:        "zh",
		Rounding:    scoring.RoundEachStep.String(),
		Concurrency: 4,
		Server:      ServerConfig{Addr: DefaultAddr},
		Parameters:  FromParameters(scoring.DefaultParameters()),
	}
}
