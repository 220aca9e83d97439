package flags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/uzairabid1/customer-simulator/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the simulator's configuration file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"Configuration file for the simulator; defaults apply when omitted")
}

// LoadConfig reads the YAML config, starting from defaults so a partial file
// only overrides what it names.
func (f *ConfigFlags) LoadConfig() (*v1.SimulatorConfig, error) {
	cfg := v1.Default()
	if f.Path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrap(err, "could not load config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *v1.SimulatorConfig) error {
	if cfg.Days <= 0 {
		return errors.New("days must be positive")
	}
	if cfg.CustomersPerDay <= 0 {
		return errors.New("customersPerDay must be positive")
	}
	if cfg.AttentionLimit <= 0 {
		return errors.New("attentionLimit must be positive")
	}
	if cfg.ReviewLeaveProbability < 0 || cfg.ReviewLeaveProbability > 1 {
		return errors.New("reviewLeaveProbability must be within [0,1]")
	}
	for _, v := range []v1.VendorConfig{cfg.VendorA, cfg.VendorB} {
		if v.TrueQuality < 0 || v.TrueQuality > 1 {
			return errors.Errorf("trueQuality for %s must be within [0,1]", v.Name)
		}
		if len(v.Menu) == 0 {
			return errors.Errorf("menu for %s must not be empty", v.Name)
		}
	}
	return nil
}
