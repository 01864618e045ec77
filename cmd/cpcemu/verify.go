package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oisee/cpc-z80/pkg/crosscheck"
	"github.com/oisee/cpc-z80/pkg/inst"
)

// namespaceFilter selects the catalog entries named by --namespace.
func namespaceFilter(names []string) ([]*inst.Instruction, error) {
	want := map[string]bool{}
	for _, n := range names {
		if n == "all" {
			return inst.All(), nil
		}
		want[n] = true
	}
	var list []*inst.Instruction
	found := map[string]bool{}
	for _, in := range inst.All() {
		ns := in.Namespace.String()
		if want[ns] {
			list = append(list, in)
			found[ns] = true
		}
	}
	for n := range want {
		if !found[n] {
			return nil, fmt.Errorf("unknown namespace %q", n)
		}
	}
	return list, nil
}

func newVerifyCmd() *cobra.Command {
	var namespaces []string
	var output string
	var numWorkers int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare every catalog instruction against a reference Z80 core",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := namespaceFilter(namespaces)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			wp := crosscheck.NewWorkerPool(numWorkers, logger)
			logger.WithFields(logrus.Fields{"instructions": len(list), "workers": wp.NumWorkers}).Info("verifying")
			began := time.Now()
			err = wp.Run(ctx, list)
			cases, mismatched := wp.Stats()
			s := wp.Results.Summary()
			logger.WithFields(logrus.Fields{
				"checked":    s.Checked,
				"skipped":    s.Skipped,
				"cases":      cases,
				"mismatched": mismatched,
				"elapsed":    time.Since(began).Round(time.Millisecond),
			}).Info("verify done")
			if err != nil {
				return err
			}

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := wp.Results.WriteJSON(f); err != nil {
					return err
				}
				logger.WithField("output", output).Info("report written")
			} else {
				for _, m := range s.Mismatches {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-16s [%s] vector %d: %v\n",
						m.Encoding, m.Mnemonic, m.Operands, m.Vector, m.Diffs)
				}
			}
			if mismatched > 0 {
				return fmt.Errorf("%d mismatched cases", mismatched)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&namespaces, "namespace", []string{"all"},
		"Namespaces to check: all, basic, bit, extended, index-ix, index-iy")
	cmd.Flags().StringVar(&output, "output", "", "Write the report as JSON to this file")
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	return cmd
}
