package tsv

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/ashiishme/center-randomize/allocator"
)

// CreateResult creates |name| under |dir| of |fs|, making the directory
// first if needed.
func CreateResult(fs afero.Fs, dir, name string) (afero.File, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	var f, err = fs.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", name)
	}
	return f, nil
}

func newWriter(w io.Writer) *csv.Writer {
	var cw = csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

// TraceWriter emits one row per (school, candidate center) pair examined
// during allocation, to the intermediate school-center distance file.
type TraceWriter struct {
	cw *csv.Writer
}

// NewTraceWriter begins a trace file on |w| by writing its header.
func NewTraceWriter(w io.Writer) (*TraceWriter, error) {
	var tw = &TraceWriter{cw: newWriter(w)}
	var err = tw.cw.Write([]string{
		"scode",
		"s_count",
		"school_name",
		"school_lat",
		"school_long",
		"cscode",
		"center_name",
		"center_address",
		"center_capacity",
		"distance_km",
	})
	return tw, errors.WithMessage(err, "writing trace header")
}

// Write appends the examined (school, candidate) pair.
func (tw *TraceWriter) Write(s allocator.School, c allocator.Candidate) error {
	var lat, long string
	if s.Location != nil {
		lat = formatFloat(s.Location.Lat)
		long = formatFloat(s.Location.Lon)
	}
	return tw.cw.Write([]string{
		s.Code,
		strconv.Itoa(s.Count),
		s.Name,
		lat,
		long,
		c.Code,
		c.Name,
		c.Address,
		strconv.Itoa(c.Capacity),
		formatFloat(c.DistanceKm),
	})
}

// Flush writes buffered rows and reports any accumulated write error.
func (tw *TraceWriter) Flush() error {
	tw.cw.Flush()
	return tw.cw.Error()
}

// AllocationWriter emits one row per (school, center) allocation of the
// final plan.
type AllocationWriter struct {
	cw *csv.Writer
}

// NewAllocationWriter begins an allocation file on |w| by writing its
// header.
func NewAllocationWriter(w io.Writer) (*AllocationWriter, error) {
	var aw = &AllocationWriter{cw: newWriter(w)}
	var err = aw.cw.Write([]string{
		"scode",
		"school",
		"cscode",
		"center",
		"center_address",
		"allocation",
		"distance_km",
	})
	return aw, errors.WithMessage(err, "writing allocation header")
}

// Write appends an allocation of |amount| students of |s| to |c|.
func (aw *AllocationWriter) Write(s allocator.School, c allocator.Candidate, amount int) error {
	return aw.cw.Write([]string{
		s.Code,
		s.Name,
		c.Code,
		c.Name,
		c.Address,
		strconv.Itoa(amount),
		formatFloat(c.DistanceKm),
	})
}

// Flush writes buffered rows and reports any accumulated write error.
func (aw *AllocationWriter) Flush() error {
	aw.cw.Flush()
	return aw.cw.Error()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
