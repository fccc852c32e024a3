package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"marketrewind/internal/domain"
)

// MaxCharts is the largest workspace the layout supports.
const MaxCharts = 4

// Layout describes the workspace: how many charts and their defaults.
type Layout struct {
	Charts []ChartPreset `yaml:"charts"`
}

// ChartPreset holds one chart's initial configuration. Ticker may be
// empty, in which case the first catalog symbol is used.
type ChartPreset struct {
	Ticker    string `yaml:"ticker"`
	Timeframe string `yaml:"timeframe"`
	Session   string `yaml:"session"`
	Mode      string `yaml:"mode"`
}

// LoadLayout reads and validates a YAML layout preset.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file %s: %w", path, err)
	}
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parsing layout file %s: %w", path, err)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("layout file %s: %w", path, err)
	}
	return &layout, nil
}

// Validate checks chart count and per-chart enums, filling defaults for
// omitted fields.
func (l *Layout) Validate() error {
	if len(l.Charts) == 0 || len(l.Charts) > MaxCharts {
		return fmt.Errorf("layout must have between 1 and %d charts, got %d", MaxCharts, len(l.Charts))
	}
	for i := range l.Charts {
		c := &l.Charts[i]
		if c.Timeframe == "" {
			c.Timeframe = string(domain.TF1Min)
		}
		if _, err := domain.ParseTimeframe(c.Timeframe); err != nil {
			return fmt.Errorf("chart %d: %w", i, err)
		}
		if c.Session == "" {
			c.Session = string(domain.SessionRegular)
		}
		if _, err := domain.ParseSessionFilter(c.Session); err != nil {
			return fmt.Errorf("chart %d: %w", i, err)
		}
		if c.Mode == "" {
			c.Mode = string(domain.ModeViewer)
		}
		if _, err := domain.ParseViewMode(c.Mode); err != nil {
			return fmt.Errorf("chart %d: %w", i, err)
		}
	}
	return nil
}

// DefaultLayout returns the built-in preset for an n-chart workspace.
func DefaultLayout(n int) *Layout {
	var charts []ChartPreset
	switch n {
	case 1:
		charts = []ChartPreset{{Timeframe: "1m"}}
	case 2:
		charts = []ChartPreset{{Timeframe: "1m"}, {Timeframe: "1d"}}
	case 3:
		charts = []ChartPreset{{Timeframe: "1m"}, {Timeframe: "30m"}, {Timeframe: "1d"}}
	default:
		charts = []ChartPreset{
			{Timeframe: "1m"},
			{Timeframe: "30m"},
			{Timeframe: "1d"},
			{Timeframe: "30m", Ticker: "SPY"},
		}
	}
	layout := &Layout{Charts: charts}
	// Validate fills the remaining defaults; the built-ins cannot fail.
	_ = layout.Validate()
	return layout
}
