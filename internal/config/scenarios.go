package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/AngelCh415/acos-forecaster/internal/models"
)

// ScenarioFile is a batch of forecasts evaluated together by the CLI.
type ScenarioFile struct {
	Output    OutputConfig      `mapstructure:"output"`
	Sweep     models.SweepRange `mapstructure:"sweep"`
	Scenarios []Scenario        `mapstructure:"scenarios"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"` // pretty, csv
}

// Scenario values stay text so they go through the same parse path as user input.
type Scenario struct {
	Name      string `mapstructure:"name"`
	Spend     string `mapstructure:"spend"`
	Sales     string `mapstructure:"sales"`
	Clicks    string `mapstructure:"clicks"`
	Orders    string `mapstructure:"orders"`
	NewCPC    string `mapstructure:"new_cpc"`
	NewCVRPct string `mapstructure:"new_cvr_pct"`
}

func (s Scenario) Inputs() models.RawInputs {
	return models.RawInputs{
		Spend:     s.Spend,
		Sales:     s.Sales,
		Clicks:    s.Clicks,
		Orders:    s.Orders,
		NewCPC:    s.NewCPC,
		NewCVRPct: s.NewCVRPct,
	}
}

// LoadScenarios reads a YAML (or JSON/TOML, by extension) scenario file.
// A missing sweep section falls back to def.
func LoadScenarios(path string, def models.SweepRange) (*ScenarioFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("sweep.start", def.StartPct)
	v.SetDefault("sweep.end", def.EndPct)
	v.SetDefault("sweep.step", def.StepPct)
	v.SetDefault("output.format", "pretty")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading scenario file: %w", err)
	}

	var sf ScenarioFile
	if err := v.Unmarshal(&sf); err != nil {
		return nil, fmt.Errorf("unable to decode scenario file: %w", err)
	}
	if len(sf.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s has no scenarios", path)
	}
	for i := range sf.Scenarios {
		if strings.TrimSpace(sf.Scenarios[i].Name) == "" {
			sf.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}
	sf.Output.Format = strings.ToLower(sf.Output.Format)
	return &sf, nil
}
