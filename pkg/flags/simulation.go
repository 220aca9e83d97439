package flags

import (
	"time"

	"github.com/spf13/pflag"
)

// SimulationFlags holds run-level knobs shared by every experiment mode.
type SimulationFlags struct {
	Seed      int64
	OutputDir string
}

func NewSimulationFlags() *SimulationFlags {
	return &SimulationFlags{}
}

func (f *SimulationFlags) BindFlags(fs *pflag.FlagSet) {
	fs.Int64Var(&f.Seed, "seed", 0, "Random seed for the run; 0 derives one from the current time")
	fs.StringVar(&f.OutputDir, "output-dir", "results", "Directory the run results JSON is written to")
}

// EffectiveSeed resolves the seed, deriving one from the clock when unset so
// every run's seed is known and reported.
func (f *SimulationFlags) EffectiveSeed() int64 {
	if f.Seed != 0 {
		return f.Seed
	}
	return time.Now().UnixNano()
}
