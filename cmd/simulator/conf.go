package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uzairabid1/customer-simulator/pkg/engine"
)

// NewCoNFCommand runs the customer-of-new-faces experiment: every arrival is
// a fresh customer holding a Beta-Bernoulli belief over each restaurant,
// so revenue differences isolate the effect of the exposure policies.
func NewCoNFCommand() *cobra.Command {
	f := NewRunFlags()

	cmd := &cobra.Command{
		Use:   "conf",
		Short: "Run the customer-of-new-faces experiment with fresh customers each day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.ConfigFlags.LoadConfig()
			if err != nil {
				return errors.WithMessage(err, "couldn't load configuration")
			}

			seed := f.SimulationFlags.EffectiveSeed()
			log.WithField("seed", seed).Info("starting customer-of-new-faces experiment")

			eng := engine.New(*cfg, f.AIFlags.GetOracle(), seed)
			results, err := eng.RunCoNF(cmd.Context())
			if err != nil {
				return errors.WithMessage(err, "customer-of-new-faces experiment failed")
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
