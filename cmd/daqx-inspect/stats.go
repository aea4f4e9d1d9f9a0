package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/heyvito/daqx"
)

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Print per-scaler sample statistics",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("usage: daqx-inspect stats <file>")
			}
			f, err := daqx.Open(cmd.Args().First(), daqx.Config{})
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PATH\tSCALE\tTYPE\tSAMPLES\tMIN\tMAX\tMEAN\tSTDDEV")
			for _, key := range f.Scalers() {
				s, err := f.ScalerData(key.Path, key.ScaleID)
				if err != nil {
					return err
				}
				xs := seriesFloats(s)
				if len(xs) == 0 {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t0\t-\t-\t-\t-\n", key.Path, key.ScaleID, s.Type().Kind)
					continue
				}
				_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%g\t%g\t%g\t%g\n",
					key.Path, key.ScaleID, s.Type().Kind, len(xs),
					floats.Min(xs), floats.Max(xs), stat.Mean(xs, nil), stat.StdDev(xs, nil))
			}
			return w.Flush()
		},
	}
}

func seriesFloats(s daqx.Series) []float64 {
	switch data := s.Values().(type) {
	case []int8:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	case []uint16:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	case []int16:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	case []uint32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	case []int32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out
	}
	return nil
}
