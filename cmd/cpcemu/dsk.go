package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oisee/cpc-z80/pkg/dsk"
)

func newDskCmd() *cobra.Command {
	var sectors bool

	cmd := &cobra.Command{
		Use:   "dsk [image]",
		Short: "List the tracks of a CPCEMU disk image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := dsk.Load(args[0])
			if err != nil {
				return err
			}
			return describe(cmd.OutOrStdout(), img, sectors)
		},
	}
	cmd.Flags().BoolVarP(&sectors, "sectors", "s", false, "Also list every sector")
	return cmd
}

func describe(w io.Writer, img *dsk.Image, sectors bool) error {
	fmt.Fprintf(w, "%s image by %q: %d tracks, %d sides\n", img.Kind, img.Creator, img.TrackCount, img.SideCount)
	for _, t := range img.Tracks {
		fmt.Fprintf(w, "track %2d side %d: %2d sectors of %d bytes\n",
			t.Number, t.Side, len(t.Sectors), dsk.SizeBytes(t.SectorSize))
		if !sectors {
			continue
		}
		for _, s := range t.Sectors {
			fmt.Fprintf(w, "  C=%02X H=%02X R=%02X N=%02X ST1=%02X ST2=%02X %d bytes\n",
				s.Track, s.Side, s.ID, s.Size, s.ST1, s.ST2, len(s.Data))
		}
	}
	_, err := fmt.Fprintf(w, "%d track blocks\n", len(img.Tracks))
	return err
}
