package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/uzairabid1/customer-simulator/pkg/engine"
	"github.com/uzairabid1/customer-simulator/pkg/flags"
)

type RunFlags struct {
	ConfigFlags     *flags.ConfigFlags
	AIFlags         *flags.AIFlags
	SimulationFlags *flags.SimulationFlags
}

func NewRunFlags() *RunFlags {
	return &RunFlags{
		ConfigFlags:     flags.NewConfigFlags(),
		AIFlags:         flags.NewAIFlags(),
		SimulationFlags: flags.NewSimulationFlags(),
	}
}

func (f *RunFlags) BindFlags(fs *pflag.FlagSet) {
	f.ConfigFlags.BindFlags(fs)
	f.AIFlags.BindFlags(fs)
	f.SimulationFlags.BindFlags(fs)
}

func NewRunCommand() *cobra.Command {
	f := NewRunFlags()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the persona experiment with a persistent customer roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.ConfigFlags.LoadConfig()
			if err != nil {
				return errors.WithMessage(err, "couldn't load configuration")
			}

			seed := f.SimulationFlags.EffectiveSeed()
			log.WithField("seed", seed).Info("starting persona experiment")

			eng := engine.New(*cfg, f.AIFlags.GetOracle(), seed)
			results, err := eng.RunPersona(cmd.Context())
			if err != nil {
				return errors.WithMessage(err, "persona experiment failed")
			}

			engine.Summarize(results)

			if _, err := engine.Export(results, f.SimulationFlags.OutputDir); err != nil {
				return errors.WithMessage(err, "couldn't export results")
			}

			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
