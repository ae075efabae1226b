package main

import (
	"fmt"
	"log"
	"os"

	"HorizonSim/internal/di"
	"HorizonSim/internal/domain/models"
	"HorizonSim/internal/services/horizon"
	"HorizonSim/internal/services/montecarlo"
	"HorizonSim/pkg/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "horizonsim",
	Short: "Decision-driven horizon simulation service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scenario simulation HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("config load: %w", err)
		}

		log.Printf("env=%s port=%d", cfg.Environment, cfg.Server.Port)

		app, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization: %w", err)
		}

		return app.Run()
	},
}

var (
	simCategory  string
	simMagnitude float64
	simVolPct    float64
	simPaths     int
	simDrift     float64
	simSeed      int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a one-shot outcome fan for a horizon selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		category := models.HorizonCategory(simCategory)
		if simMagnitude == 0 && category.Valid() {
			simMagnitude = category.DefaultMagnitude()
		}
		sel := models.HorizonSelection{Category: category, Magnitude: simMagnitude}
		if err := sel.Validate(); err != nil {
			return err
		}

		opts := []montecarlo.Option{
			montecarlo.WithDailyDrift(simDrift),
			montecarlo.WithPaths(simPaths),
		}
		if simSeed != 0 {
			opts = append(opts, montecarlo.WithSeedSource(func() int64 { return simSeed }))
		}
		sim := montecarlo.NewSimulator(opts...)

		points, err := horizon.FanPoints(sel)
		if err != nil {
			return err
		}

		for _, p := range points {
			out, err := sim.Simulate(p.Days, simVolPct)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s best %+7.2f%%  median %+7.2f%%  worst %+7.2f%%  (%d paths, %d days)\n",
				p.Label, out.BestCase, out.Median, out.WorstCase, out.NPaths, out.Days)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")

	simulateCmd.Flags().StringVar(&simCategory, "category", string(models.SwingTrade), "horizon category")
	simulateCmd.Flags().Float64Var(&simMagnitude, "magnitude", 0, "horizon magnitude in category units")
	simulateCmd.Flags().Float64Var(&simVolPct, "vol", 30, "annualized volatility percent")
	simulateCmd.Flags().IntVar(&simPaths, "paths", montecarlo.DefaultPaths, "simulated paths per horizon")
	simulateCmd.Flags().Float64Var(&simDrift, "drift", montecarlo.DefaultDailyDrift, "daily drift")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "fixed RNG seed (0 = random)")

	rootCmd.AddCommand(serveCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
