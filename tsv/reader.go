// Package tsv reads the tab-separated inputs of an allocation run and
// writes its outputs. Inputs are header-mapped, so column order doesn't
// matter; outputs reproduce the canonical column layout consumed by
// downstream tooling.
package tsv

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ashiishme/center-randomize/allocator"
	"github.com/ashiishme/center-randomize/geo"
)

// header maps column names to their indices within a TSV header row.
type header map[string]int

func newReader(r io.Reader) *csv.Reader {
	var cr = csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	return cr
}

func readHeader(cr *csv.Reader, name string, required ...string) (header, error) {
	var row, err = cr.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: reading header", name)
	}
	var h = make(header, len(row))
	for i, col := range row {
		h[col] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, errors.Errorf("%s: missing required column %q", name, col)
		}
	}
	return h, nil
}

func (h header) field(row []string, col string) string {
	var i, ok = h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ReadSchools decodes schools from |r|. |name| labels the input in error
// messages. A school may omit its coordinates, in which case its
// Location is nil; a school row with a malformed count or coordinate is
// an error.
func ReadSchools(r io.Reader, name string) ([]allocator.School, error) {
	var cr = newReader(r)
	var h, err = readHeader(cr, name, "scode", "count", "name-address")
	if err != nil {
		return nil, err
	}

	var schools []allocator.School
	for line := 2; ; line++ {
		var row, err = cr.Read()
		if err == io.EOF {
			return schools, nil
		} else if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		}

		count, err := strconv.Atoi(h.field(row, "count"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: parsing count", name, line)
		}
		location, err := parseLocation(h.field(row, "lat"), h.field(row, "long"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		}

		schools = append(schools, allocator.School{
			Code:     h.field(row, "scode"),
			Name:     h.field(row, "name-address"),
			Count:    count,
			Location: location,
		})
	}
}

// ReadCenters decodes centers from |r|. Unlike schools, a center must
// carry parseable coordinates: a center without a location can never be
// matched and is treated as malformed input.
func ReadCenters(r io.Reader, name string) ([]allocator.Center, error) {
	var cr = newReader(r)
	var h, err = readHeader(cr, name, "cscode", "name", "capacity", "lat", "long")
	if err != nil {
		return nil, err
	}

	var centers []allocator.Center
	for line := 2; ; line++ {
		var row, err = cr.Read()
		if err == io.EOF {
			return centers, nil
		} else if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		}

		capacity, err := strconv.Atoi(h.field(row, "capacity"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: parsing capacity", name, line)
		}
		location, err := parseLocation(h.field(row, "lat"), h.field(row, "long"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		} else if location == nil {
			return nil, errors.Errorf("%s:%d: center %s has no coordinates",
				name, line, h.field(row, "cscode"))
		}

		centers = append(centers, allocator.Center{
			Code:     h.field(row, "cscode"),
			Name:     h.field(row, "name"),
			Address:  h.field(row, "address"),
			Capacity: capacity,
			Location: *location,
		})
	}
}

// ReadPrefs decodes preference entries from |r|. Aggregation of
// duplicate (school, center) rows is the allocator's concern (see
// allocator.BuildPreferenceTable).
func ReadPrefs(r io.Reader, name string) ([]allocator.PreferenceEntry, error) {
	var cr = newReader(r)
	var h, err = readHeader(cr, name, "scode", "cscode", "pref")
	if err != nil {
		return nil, err
	}

	var entries []allocator.PreferenceEntry
	for line := 2; ; line++ {
		var row, err = cr.Read()
		if err == io.EOF {
			return entries, nil
		} else if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		}

		score, err := strconv.Atoi(h.field(row, "pref"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: parsing pref", name, line)
		}
		entries = append(entries, allocator.PreferenceEntry{
			SchoolCode: h.field(row, "scode"),
			CenterCode: h.field(row, "cscode"),
			Score:      score,
		})
	}
}

// parseLocation parses a (lat, long) field pair. Both fields empty means
// the location is unknown, not an error.
func parseLocation(lat, long string) (*geo.Point, error) {
	if lat == "" || long == "" {
		return nil, nil
	}
	var latF, err = strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lat")
	}
	longF, err := strconv.ParseFloat(long, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parsing long")
	}
	return &geo.Point{Lat: latF, Lon: longF}, nil
}
