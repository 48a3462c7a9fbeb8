package main

import (
	"fmt"
	"log"
	"math"
	"os"

	plt "github.com/phil-mansfield/pyplot"
	flag "github.com/spf13/pflag"

	"github.com/phil-mansfield/gospline/io"
	"github.com/phil-mansfield/gospline/math/interpolate"
)

var (
	colors = map[interpolate.Method]string{
		interpolate.Dense:   "k",
		interpolate.Moments: "b",
	}
)

// curve is a spline sampled over its domain.
type curve struct {
	method interpolate.Method
	sp     *interpolate.Spline
	xs, ys []float64
}

func main() {
	var (
		configFile    string
		exampleConfig bool
		queries       []float64
	)

	flag.StringVar(
		&configFile, "Config", "",
		"Configuration file with a [Spline] section.",
	)
	flag.BoolVar(
		&exampleConfig, "ExampleConfig", false,
		"Prints an example configuration file to stdout.",
	)
	flag.Float64SliceVar(
		&queries, "Query", nil,
		"Comma-separated x values to evaluate every spline at.",
	)
	flag.Parse()

	if exampleConfig {
		fmt.Println(io.ExampleSplineFile)
		return
	} else if configFile == "" {
		log.Fatalf(
			"Usage: $ %s --Config spline.cfg [--Query x1,x2,...]", os.Args[0],
		)
	}

	con, err := io.ReadSplineConfig(configFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	ps, err := io.ReadPoints(con.Input, con.XColumn, con.YColumn)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf("Read %d points from '%s'.", len(ps), con.Input)

	curves := make([]curve, 0, len(interpolate.Methods))
	for _, m := range con.Methods() {
		c, err := sampleSpline(m, ps, con.Samples)
		if err != nil {
			log.Fatalf("Building %s spline: %s", m, err.Error())
		}
		curves = append(curves, c)
		log.Printf("Built %s spline with %d segments.", m, c.sp.Segments())
	}

	for i := 1; i < len(curves); i++ {
		log.Printf(
			"Max difference between %s and %s splines: %.3g",
			curves[0].method, curves[i].method, maxDiff(curves[0].ys, curves[i].ys),
		)
	}

	for _, q := range queries {
		for _, c := range curves {
			y, err := c.sp.Eval(q)
			if err != nil {
				log.Fatal(err.Error())
			}
			fmt.Printf("%-8s %12.6g %12.6g\n", c.method, q, y)
		}
	}

	if con.CoefficientFile != "" {
		if err := writeCoefficients(con.CoefficientFile, curves); err != nil {
			log.Fatal(err.Error())
		}
	}

	if con.PlotFile != "" {
		plotCurves(con, ps, curves)
		plt.Execute()
	}
}

func sampleSpline(
	m interpolate.Method, ps []interpolate.Point, samples int,
) (curve, error) {
	sp, err := m.Builder()(ps)
	if err != nil {
		return curve{}, err
	}

	lo, hi := sp.Domain()
	xs := linspace(lo, hi, samples)
	ys, err := sp.EvalAll(xs)
	if err != nil {
		return curve{}, err
	}
	return curve{m, sp, xs, ys}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	xs[n-1] = hi
	return xs
}

func maxDiff(ys1, ys2 []float64) float64 {
	max := 0.0
	for i := range ys1 {
		max = math.Max(max, math.Abs(ys1[i]-ys2[i]))
	}
	return max
}

func writeCoefficients(fname string, curves []curve) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	recs := make([]io.SplineRecord, len(curves))
	for i, c := range curves {
		recs[i] = io.NewSplineRecord(c.method, c.sp)
	}
	if err := io.WriteSplines(f, recs); err != nil {
		return err
	}
	return f.Close()
}

func plotCurves(
	con *io.SplineConfig, ps []interpolate.Point, curves []curve,
) {
	plt.Figure()

	if ref := con.ReferenceFunc(); ref != nil {
		xs := curves[0].xs
		ys := make([]float64, len(xs))
		for i := range xs {
			ys[i] = ref(xs[i])
		}
		plt.Plot(xs, ys, "r", plt.LW(2))
	}

	for _, c := range curves {
		plt.Plot(c.xs, c.ys, plt.C(colors[c.method]), plt.LW(2))
	}

	rawXs, rawYs := make([]float64, len(ps)), make([]float64, len(ps))
	for i := range ps {
		rawXs[i], rawYs[i] = ps[i].X, ps[i].Y
	}
	plt.Plot(rawXs, rawYs, "ok")

	plt.Title(fmt.Sprintf("%s (%s)", con.Input, con.Method))
	plt.XLabel(`$x$`, plt.FontSize(16))
	plt.YLabel(`$y$`, plt.FontSize(16))
	plt.SaveFig(con.PlotFile)
}
