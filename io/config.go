package io

import (
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

const (
	// MethodBoth builds the spline with every available method.
	MethodBoth = "both"

	DefaultSamples = 1000
	DefaultMethod  = string(interpolate.Moments)

	ExampleSplineFile = `[Spline]

#######################
# Required Parameters #
#######################

# Text file containing the points to interpolate. Columns are separated by
# whitespace. The points do not need to be sorted.
Input = path/to/points.txt

#######################
# Optional Parameters #
#######################

# Columns of Input which hold x and y values. Default is 0 and 1.
# XColumn = 0
# YColumn = 1

# Algorithm used to build the spline. 'dense' solves the full 4n x 4n
# coefficient system, 'moments' solves the tridiagonal system for second
# derivatives and 'both' builds and compares the two. Default is moments.
# Method = moments

# Number of evenly spaced points the spline is sampled at. Default is 1000.
# Samples = 1000

# Output files. PlotFile is written by pyplot, so its extension picks the
# image format. CoefficientFile is a YAML listing of every segment's
# coefficients.
# PlotFile = spline.png
# CoefficientFile = segments.yaml

# Analytic curve drawn next to the spline, useful when Input was generated
# from one. Accepted values are sin, cos, exp and none. Default is none.
# Reference = none`
)

var references = map[string]func(float64) float64{
	"sin": math.Sin,
	"cos": math.Cos,
	"exp": math.Exp,
}

// SplineConfig describes a single run of the spline demo.
type SplineConfig struct {
	// Required
	Input string

	// Optional
	XColumn, YColumn int
	Method           string
	Samples          int
	PlotFile         string
	CoefficientFile  string
	Reference        string
}

type splineConfigWrapper struct {
	Spline SplineConfig
}

// ReadSplineConfig reads and validates the [Spline] section of a gcfg file.
func ReadSplineConfig(fname string) (*SplineConfig, error) {
	w := splineConfigWrapper{}
	w.Spline.YColumn = 1
	w.Spline.Method = DefaultMethod
	w.Spline.Samples = DefaultSamples
	w.Spline.Reference = "none"

	if err := gcfg.ReadFileInto(&w, fname); err != nil {
		return nil, err
	}
	if err := w.Spline.CheckInit(); err != nil {
		return nil, err
	}
	return &w.Spline, nil
}

// CheckInit validates the config and normalizes its string fields. Every
// problem is reported, not just the first.
func (con *SplineConfig) CheckInit() error {
	var errs *multierror.Error

	if con.Input == "" {
		errs = multierror.Append(errs, fmt.Errorf(
			"Need to specify an Input file in [Spline].",
		))
	}
	if con.XColumn < 0 || con.YColumn < 0 {
		errs = multierror.Append(errs, fmt.Errorf(
			"XColumn and YColumn must be non-negative, but are %d and %d.",
			con.XColumn, con.YColumn,
		))
	} else if con.XColumn == con.YColumn {
		errs = multierror.Append(errs, fmt.Errorf(
			"XColumn and YColumn are both %d.", con.XColumn,
		))
	}
	if con.Samples < 2 {
		errs = multierror.Append(errs, fmt.Errorf(
			"Samples must be at least 2, but is %d.", con.Samples,
		))
	}

	con.Method = strings.ToLower(strings.TrimSpace(con.Method))
	if con.Method != MethodBoth {
		if _, err := interpolate.ParseMethod(con.Method); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	con.Reference = strings.ToLower(strings.TrimSpace(con.Reference))
	if con.Reference == "" {
		con.Reference = "none"
	}
	if _, ok := references[con.Reference]; !ok && con.Reference != "none" {
		errs = multierror.Append(errs, fmt.Errorf(
			"Reference '%s' not recognized. Accepted values are sin, cos, "+
				"exp and none.", con.Reference,
		))
	}

	return errs.ErrorOrNil()
}

// Methods returns the spline methods requested by the config.
func (con *SplineConfig) Methods() []interpolate.Method {
	if con.Method == MethodBoth {
		return interpolate.Methods
	}
	m, err := interpolate.ParseMethod(con.Method)
	if err != nil {
		panic(err.Error())
	}
	return []interpolate.Method{m}
}

// ReferenceFunc returns the analytic reference curve named by the config,
// or nil if there is none.
func (con *SplineConfig) ReferenceFunc() func(float64) float64 {
	return references[con.Reference]
}
