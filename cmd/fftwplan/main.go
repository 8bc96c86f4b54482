// Command fftwplan is a demonstration CLI over the fftw3 planner core: it
// registers the transform demo solver family, plans transforms, and
// exercises wisdom export/import/forget and a persistent watch mode.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spf13/cobra"

	"github.com/qhuang00/fftw3"
	"github.com/qhuang00/fftw3/internal/transform"
)

func main() {
	var (
		configPath string
		wisdomPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "fftwplan",
		Short:         "Exercise the fftw3 planner core from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fftwplan.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&wisdomPath, "wisdom", "", "override the wisdom file path from config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cobra.OnInitialize(func() {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
	})

	rootCmd.AddCommand(
		newPlanCmd(&configPath, &wisdomPath, logger),
		newStatsCmd(&configPath, logger),
		newExportCmd(&configPath, &wisdomPath, logger),
		newImportCmd(&configPath, &wisdomPath, logger),
		newForgetCmd(&configPath, &wisdomPath, logger),
		newWatchCmd(&configPath, &wisdomPath, logger),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fftwplan:", err)
		os.Exit(1)
	}
}

func resolveWisdomPath(configPath, override string) (string, error) {
	cfg, err := loadFileConfig(configPath)
	if err != nil {
		return "", err
	}
	if override != "" {
		return override, nil
	}
	return cfg.WisdomPath, nil
}

func newPlanCmd(configPath, wisdomOverride *string, log *slog.Logger) *cobra.Command {
	var (
		n          int
		stride     int
		sign       int
		impatience uint32
		threads    int
		bless      bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a single length-N transform and print the chosen plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(*configPath)
			if err != nil {
				return err
			}
			if threads == 0 {
				threads = cfg.DefaultThreads
			}

			pl := newDemoPlanner(impatience, threads, log)
			defer pl.Destroy()

			problem := transform.Problem{N: n, Stride: stride, Sign: sign}
			plan, ok := pl.MkPlan(problem)
			if !ok {
				return fmt.Errorf("no solver applies to N=%d", n)
			}
			pl.EvaluatePlan(plan, problem)

			tplan := plan.(*transform.Plan)
			fmt.Printf("plan: %s cost=%.0f adds=%d muls=%d\n",
				tplan.Describe, tplan.Cost(), tplan.Ops().Adds, tplan.Ops().Muls)

			if bless {
				pl.SetFlags(fftw3.Bless(pl.Flags()))
				// Re-insert under the blessed flags so export sees it.
				pl.MkPlan(problem)
			}

			wisdomPath, err := resolveWisdomPath(*configPath, *wisdomOverride)
			if err != nil {
				return err
			}
			if bless && wisdomPath != "" {
				f, err := os.Create(wisdomPath)
				if err != nil {
					return err
				}
				defer f.Close()
				return pl.ExportWisdom(f)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 16, "transform length")
	cmd.Flags().IntVar(&stride, "stride", 1, "buffer stride")
	cmd.Flags().IntVar(&sign, "sign", -1, "transform sign (+1 or -1)")
	cmd.Flags().Uint32Var(&impatience, "impatience", 0, "IMPATIENCE ordinal (0 = most patient)")
	cmd.Flags().IntVar(&threads, "threads", 0, "thread count (0 = use config default)")
	cmd.Flags().BoolVar(&bless, "bless", false, "bless the resulting cache entry and export wisdom")
	return cmd
}

func newStatsCmd(configPath *string, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Plan a battery of lengths and print planner counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(*configPath)
			if err != nil {
				return err
			}
			pl := newDemoPlanner(cfg.DefaultImpatience, cfg.DefaultThreads, log)
			defer pl.Destroy()

			for _, n := range []int{1, 2, 3, 4, 8, 16, 17, 32, 64, 100} {
				problem := transform.Problem{N: n, Stride: 1, Sign: -1}
				if plan, ok := pl.MkPlan(problem); ok {
					pl.EvaluatePlan(plan, problem)
				}
				pl.MkPlan(problem) // repeat to exercise the cache hit path
			}

			p := message.NewPrinter(language.English)
			stats := pl.Stats()
			p.Printf("nprob=%d nplan=%d access=%d hit=%d nrehash=%d count=%d size=%d\n",
				stats.NProb, stats.NPlan, stats.Access, stats.Hit, stats.NRehash, stats.Count, stats.Size)
			return nil
		},
	}
}

func newExportCmd(configPath, wisdomOverride *string, log *slog.Logger) *cobra.Command {
	var lengths []int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Plan and bless a set of lengths, then export wisdom",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(*configPath)
			if err != nil {
				return err
			}
			pl := newDemoPlanner(cfg.DefaultImpatience, cfg.DefaultThreads, log)
			defer pl.Destroy()

			pl.SetFlags(fftw3.Bless(pl.Flags()))
			for _, n := range lengths {
				problem := transform.Problem{N: n, Stride: 1, Sign: -1}
				pl.MkPlan(problem)
			}

			wisdomPath, err := resolveWisdomPath(*configPath, *wisdomOverride)
			if err != nil {
				return err
			}
			f, err := os.Create(wisdomPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := pl.ExportWisdom(f); err != nil {
				return err
			}
			fmt.Println("wrote", wisdomPath)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&lengths, "lengths", []int{2, 4, 8, 16, 32}, "lengths to plan and bless")
	return cmd
}

func newImportCmd(configPath, wisdomOverride *string, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import wisdom into a freshly registered planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(*configPath)
			if err != nil {
				return err
			}
			pl := newDemoPlanner(cfg.DefaultImpatience, cfg.DefaultThreads, log)
			defer pl.Destroy()

			wisdomPath, err := resolveWisdomPath(*configPath, *wisdomOverride)
			if err != nil {
				return err
			}
			f, err := os.Open(wisdomPath)
			if err != nil {
				return err
			}
			defer f.Close()

			ok, err := pl.ImportWisdom(f)
			if err != nil {
				return err
			}
			fmt.Println("import ok:", ok, "entries:", pl.Stats().Count)
			return nil
		},
	}
}

func newForgetCmd(configPath, wisdomOverride *string, log *slog.Logger) *cobra.Command {
	var accursed bool
	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Forget cache entries (everything, or just unblessed ones)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(*configPath)
			if err != nil {
				return err
			}
			pl := newDemoPlanner(cfg.DefaultImpatience, cfg.DefaultThreads, log)
			defer pl.Destroy()

			mode := fftw3.ForgetEverything
			if accursed {
				mode = fftw3.ForgetAccursed
			}
			pl.Forget(mode)
			fmt.Println("remaining entries:", pl.Stats().Count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&accursed, "accursed", false, "forget only unblessed entries")
	return cmd
}

func newWatchCmd(configPath, wisdomOverride *string, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the wisdom file and reload it on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFileConfig(*configPath)
			if err != nil {
				return err
			}
			pl := newDemoPlanner(cfg.DefaultImpatience, cfg.DefaultThreads, log)
			defer pl.Destroy()

			wisdomPath, err := resolveWisdomPath(*configPath, *wisdomOverride)
			if err != nil {
				return err
			}
			return watchWisdom(pl, wisdomPath, log)
		},
	}
}
