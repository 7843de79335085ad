// kinplot renders the reachable envelope of the polar-XZ machine together
// with a candidate move and the detour segments produced around the
// rotation center. Useful for eyeballing segmentation decisions.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"polarhost"
	"polarhost/config"
	"polarhost/kinematics"
	"polarhost/planner"
)

var (
	from   = flag.String("from", "-50,0", "Move start as x,y")
	to     = flag.String("to", "50,0", "Move end as x,y")
	output = flag.String("o", "kinplot.png", "Output PNG path")
)

func main() {
	flag.Parse()

	start, err := parsePoint(*from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad -from: %v\n", err)
		os.Exit(1)
	}
	end, err := parsePoint(*to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad -to: %v\n", err)
		os.Exit(1)
	}

	cfg := config.DefaultPolarXZConfig()
	pl := planner.NewPlanner(cfg)
	kin, err := kinematics.NewPolarXZ(pl, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	pl.SetKinematics(kin)

	move := polarhost.NewMove(
		polarhost.Position{X: start.X, Y: start.Y},
		polarhost.Position{X: end.X, Y: end.Y},
		cfg.MaxVelocity, cfg.MaxAccel)

	p := plot.New()
	p.Title.Text = "polar-XZ travel envelope"
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	bedRadius := cfg.Rails["x"].PositionMax
	envelope, err := plotter.NewLine(circlePoints(bedRadius, 180))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p.Add(envelope)

	segments := kin.SegmentMove(move)
	if segments == nil {
		segments = [][2]kinematics.Point{{start, end}}
		fmt.Println("move does not approach the rotation center; no detour")
	} else {
		fmt.Printf("move detours around the rotation center in %d segments\n", len(segments))
	}
	path := make(plotter.XYs, 0, len(segments)+1)
	path = append(path, plotter.XY{X: segments[0][0].X, Y: segments[0][0].Y})
	for _, seg := range segments {
		path = append(path, plotter.XY{X: seg[1].X, Y: seg[1].Y})
	}
	line, err := plotter.NewLine(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	line.Width = vg.Points(1.5)
	p.Add(line)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save plot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *output)
}

// circlePoints samples the bed envelope as a closed polyline.
func circlePoints(radius float64, n int) plotter.XYs {
	pts := make(plotter.XYs, n+1)
	for i := 0; i <= n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = plotter.XY{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	}
	return pts
}

func parsePoint(s string) (kinematics.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return kinematics.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return kinematics.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return kinematics.Point{}, err
	}
	return kinematics.Point{X: x, Y: y}, nil
}
