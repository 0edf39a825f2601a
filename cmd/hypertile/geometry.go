package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hypertile/hyper"
)

func newGeometryCmd() *cobra.Command {
	var sides, order int
	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Print the measurements of a regular {sides, order} tiling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := hyper.NewPolygonGeometry(sides, order)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "tiling\t{%d, %d}\n", g.Sides, g.Order)
			fmt.Fprintf(tw, "internal angle\t%.6f\t(%.2f°)\n", g.InternalAngle, degrees(g.InternalAngle))
			fmt.Fprintf(tw, "external angle\t%.6f\t(%.2f°)\n", g.ExternalAngle, degrees(g.ExternalAngle))
			fmt.Fprintf(tw, "slice angle\t%.6f\t(%.2f°)\n", g.SliceAngle, degrees(g.SliceAngle))
			fmt.Fprintf(tw, "angle defect\t%.6f\n", g.AngleDefect())
			fmt.Fprintf(tw, "edge length\t%.6f\n", g.EdgeLength)
			fmt.Fprintf(tw, "vertex radius\t%.6f\tdisk %.6f\n", g.VertexRadius, math.Tanh(g.VertexRadius/2))
			fmt.Fprintf(tw, "edge radius\t%.6f\tdisk %.6f\n", g.EdgeRadius, math.Tanh(g.EdgeRadius/2))
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&sides, "sides", 7, "polygon sides")
	cmd.Flags().IntVar(&order, "order", 3, "polygons meeting at each vertex")
	return cmd
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
