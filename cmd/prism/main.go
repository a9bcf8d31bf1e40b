// Copyright (c) PT Base. All rights reserved.
// Licensed under the MIT License.

// Command prism runs the synthetic workload algorithms through the batch
// executor from the command line. It exists to exercise the library; the
// algorithms themselves carry no business logic.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	prism "github.com/ptbase/prism-go"
)

type options struct {
	algorithm   string
	timeout     time.Duration
	cancelGrace time.Duration
	workers     int
	verbose     bool
	showMetrics bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "prism",
		Short:         "Run synthetic algorithm batches under a shared deadline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.algorithm, "algorithm", "a", "quadratic",
		"algorithm to run (quadratic or sixdegree)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", prism.DefaultTimeout,
		"shared deadline for each batch")
	root.PersistentFlags().DurationVar(&opts.cancelGrace, "cancel-grace", prism.DefaultCancelGrace,
		"window allowed for cooperative cancellation after the deadline")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0,
		"workers per batch (0 means one per task)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"enable debug logging")
	root.PersistentFlags().BoolVar(&opts.showMetrics, "metrics", false,
		"print executor metrics on exit")
	root.AddCommand(newRunCommand(opts))
	root.AddCommand(newQuotaCommand(opts))
	return root
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run ARG...",
		Short: "Execute one batch over explicit arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			args, err := parseArguments(cmdArgs)
			if err != nil {
				return err
			}
			alg, err := selectAlgorithm(opts.algorithm)
			if err != nil {
				return err
			}
			ex, reg, err := buildExecutor(opts)
			if err != nil {
				return err
			}

			results, err := prism.Execute(cmd.Context(), ex, alg, args)
			if err != nil {
				return err
			}
			for i, res := range results {
				if res.OK() {
					fmt.Printf("%d\t%v\n", args[i], res.Value)
				} else {
					fmt.Printf("%d\t-\t(%v)\n", args[i], res.Err)
				}
			}
			return maybePrintMetrics(opts, reg)
		},
	}
}

func newQuotaCommand(opts *options) *cobra.Command {
	var minResults int
	var maxRounds int
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Run generated batches until enough usable results accumulate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			alg, err := selectAlgorithm(opts.algorithm)
			if err != nil {
				return err
			}
			ex, reg, err := buildExecutor(opts)
			if err != nil {
				return err
			}
			ex.SetMaxRounds(maxRounds)

			pairs, err := prism.ExecuteUntil(cmd.Context(), ex, alg, minResults)
			for _, p := range pairs {
				fmt.Printf("%d\t%v\n", p.Argument, p.Value)
			}
			if err != nil {
				return err
			}
			return maybePrintMetrics(opts, reg)
		},
	}
	cmd.Flags().IntVar(&minResults, "min", 5, "minimum number of usable results")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 0, "round cap before giving up (0 means unbounded)")
	return cmd
}

func parseArguments(raw []string) ([]int64, error) {
	args := make([]int64, 0, len(raw))
	for _, field := range raw {
		// Accept both space- and comma-separated argument lists.
		for _, s := range strings.Split(field, ",") {
			if s == "" {
				continue
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse argument %q: %w", s, err)
			}
			args = append(args, n)
		}
	}
	return args, nil
}

func selectAlgorithm(name string) (prism.Algorithm[int64, bool], error) {
	switch name {
	case "quadratic":
		return prism.NewQuadraticAlgorithm(), nil
	case "sixdegree":
		return prism.NewSixDegreeAlgorithm(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}

func buildExecutor(opts *options) (*prism.Executor, *prometheus.Registry, error) {
	ex := prism.NewExecutor()
	ex.SetTimeout(opts.timeout)
	ex.SetCancelGrace(opts.cancelGrace)
	if opts.workers > 0 {
		workers := opts.workers
		ex.SetProvision(func(int) int { return workers })
	}

	logger := zap.NewNop()
	if opts.verbose {
		cfg := zap.NewDevelopmentConfig()
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("build logger: %w", err)
		}
	}
	ex.SetLogger(logger)

	var reg *prometheus.Registry
	if opts.showMetrics {
		reg = prometheus.NewRegistry()
		ex.SetMetrics(prism.NewMetrics(reg))
	}
	return ex, reg, nil
}

func maybePrintMetrics(opts *options, reg *prometheus.Registry) error {
	if !opts.showMetrics || reg == nil {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		fmt.Fprintln(os.Stderr, mf.String())
	}
	return nil
}
