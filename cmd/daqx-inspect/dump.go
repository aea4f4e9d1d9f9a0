package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/heyvito/daqx"
)

type scalerJSON struct {
	ScaleID            uint32 `json:"scale_id"`
	RawTypeID          uint32 `json:"raw_type_id"`
	Kind               string `json:"kind"`
	Buffer             uint32 `json:"buffer"`
	ByteOffset         uint32 `json:"byte_offset"`
	SampleFormatBitmap string `json:"sample_format_bitmap"`
}

type objectJSON struct {
	Path           string         `json:"path"`
	Index          string         `json:"index"`
	NumberOfValues uint64         `json:"number_of_values,omitempty"`
	BufferWidths   []uint32       `json:"buffer_widths,omitempty"`
	Scalers        []scalerJSON   `json:"scalers,omitempty"`
	Properties     map[string]any `json:"properties,omitempty"`
}

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Dump a container file's metadata as JSON",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return fmt.Errorf("usage: daqx-inspect dump <file>")
			}
			f, err := daqx.Open(cmd.Args().First(), daqx.Config{})
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			var out []objectJSON
			for _, obj := range f.Objects() {
				o := objectJSON{Path: obj.Path, Index: obj.RawIndex.Kind.String()}
				if len(obj.Properties) > 0 {
					o.Properties = make(map[string]any, len(obj.Properties))
					for _, p := range obj.Properties {
						o.Properties[p.Name] = p.Value
					}
				}
				if idx := obj.RawIndex.Scaler; idx != nil {
					o.NumberOfValues = idx.NumberOfValues
					o.BufferWidths = idx.RawBufferWidths
					for _, sc := range idx.Scalers {
						o.Scalers = append(o.Scalers, scalerJSON{
							ScaleID:            sc.ScaleID,
							RawTypeID:          sc.RawType.ID,
							Kind:               sc.RawType.Kind.String(),
							Buffer:             sc.RawBufferIndex,
							ByteOffset:         sc.ByteOffset,
							SampleFormatBitmap: fmt.Sprintf("0x%08X", sc.SampleFormatBitmap),
						})
					}
				}
				out = append(out, o)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
