/*package io handles the file formats used by the spline tools: gcfg
configuration files, whitespace-separated point tables, and YAML listings
of spline segments.
*/
package io

import (
	"fmt"
	goio "io"

	"github.com/phil-mansfield/table"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

// ReadPoints reads the points stored in columns xCol and yCol of a text
// table.
func ReadPoints(fname string, xCol, yCol int) ([]interpolate.Point, error) {
	cols, err := table.ReadTable(fname, []int{xCol, yCol}, nil)
	if err != nil {
		return nil, err
	}

	ps, err := interpolate.Points(cols[0], cols[1])
	if err != nil {
		return nil, fmt.Errorf("Reading points from '%s': %w", fname, err)
	}
	return ps, nil
}

// SegmentRecord is the serialized form of one spline segment,
// s(x) = A*x^3 + B*x^2 + C*x + D for Lo <= x <= Hi.
type SegmentRecord struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	C  float64 `yaml:"c"`
	D  float64 `yaml:"d"`
}

// SplineRecord is the serialized form of a spline.
type SplineRecord struct {
	Method   string          `yaml:"method"`
	Knots    []float64       `yaml:"knots"`
	Segments []SegmentRecord `yaml:"segments"`
}

// NewSplineRecord flattens a spline into its serialized form.
func NewSplineRecord(method interpolate.Method, sp *interpolate.Spline) SplineRecord {
	rec := SplineRecord{
		Method:   string(method),
		Knots:    sp.Knots(),
		Segments: make([]SegmentRecord, sp.Segments()),
	}
	for i := range rec.Segments {
		seg := sp.Segment(i)
		rec.Segments[i] = SegmentRecord{
			Lo: seg.Lo, Hi: seg.Hi, A: seg.A, B: seg.B, C: seg.C, D: seg.D,
		}
	}
	return rec
}

// WriteSplines writes a YAML sequence describing each spline to w.
func WriteSplines(w goio.Writer, recs []SplineRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(recs); err != nil {
		return err
	}
	return enc.Close()
}

// ReadSplines reads a YAML sequence written by WriteSplines.
func ReadSplines(r goio.Reader) ([]SplineRecord, error) {
	recs := []SplineRecord{}
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}
