package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/heyvito/daqx"
)

func objectsCmd() *cli.Command {
	return &cli.Command{
		Name:      "objects",
		Usage:     "List every object and scaler declared by a container file",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("usage: daqx-inspect objects <file>")
			}
			f, err := daqx.Open(cmd.Args().First(), daqx.Config{})
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PATH\tINDEX\tSCALERS\tPROPERTIES")
			for _, obj := range f.Objects() {
				scalers := 0
				if obj.RawIndex.Kind == daqx.IndexScaler {
					scalers = len(obj.RawIndex.Scaler.Scalers)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
					obj.Path, obj.RawIndex.Kind, scalers, len(obj.Properties))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, key := range f.Scalers() {
				s, err := f.ScalerData(key.Path, key.ScaleID)
				if err != nil {
					return err
				}
				fmt.Printf("%s scaler %d: %d samples of %s\n",
					key.Path, key.ScaleID, s.Len(), s.Type().Kind)
			}
			return nil
		},
	}
}
