package profile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/logger"
)

// Options tunes how profile files are parsed.
type Options struct {
	// SkipHeader drops the first record of every file.
	SkipHeader bool
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// Loader reads profile matrices from a Source.
type Loader struct {
	src   Source
	namer Namer
	opts  Options
	log   logger.Logger
}

// NewLoader returns a Loader. A nil namer selects StandardNamer and a nil
// logger disables logging.
func NewLoader(src Source, namer Namer, opts Options, log logger.Logger) *Loader {
	if namer == nil {
		namer = StandardNamer{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Loader{src: src, namer: namer, opts: opts, log: log}
}

// Load reads the matrix for one day type of the family.
func (l *Loader) Load(ctx context.Context, key model.ProfileFamilyKey, day model.DayType) (model.LoadMatrix, error) {
	name, err := l.namer.FileName(key, day)
	if err != nil {
		return model.LoadMatrix{}, err
	}
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return model.LoadMatrix{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	m, err := Parse(rc, l.opts)
	if err != nil {
		return model.LoadMatrix{}, fmt.Errorf("parse %s: %w", name, err)
	}
	l.log.Debugw("profile loaded", map[string]any{
		"file":     name,
		"day_type": day.String(),
		"profiles": m.Profiles(),
		"slots":    m.Slots(),
	})
	return m, nil
}

// LoadFamily reads all three day types. The matrices must share a slot count.
func (l *Loader) LoadFamily(ctx context.Context, key model.ProfileFamilyKey) (model.ByDay[model.LoadMatrix], error) {
	var fam model.ByDay[model.LoadMatrix]
	for _, d := range model.DayTypes {
		m, err := l.Load(ctx, key, d)
		if err != nil {
			return model.ByDay[model.LoadMatrix]{}, err
		}
		fam.Set(d, m)
	}
	slots := fam.Weekday.Slots()
	for _, d := range model.DayTypes[1:] {
		if n := fam.Get(d).Slots(); n != slots {
			return model.ByDay[model.LoadMatrix]{}, fmt.Errorf("%w: %s has %d slots, weekday has %d", model.ErrFormat, d, n, slots)
		}
	}
	return fam, nil
}

// ValidDelimiter reports whether r may separate fields: encoding/csv rejects
// quotes, line breaks and invalid runes.
func ValidDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Parse reads a delimited table with one record per slot and one field per
// profile and returns it transposed to [profile][slot].
func Parse(r io.Reader, opts Options) (model.LoadMatrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		if !ValidDelimiter(opts.Comma) {
			return model.LoadMatrix{}, fmt.Errorf("%w: delimiter %q cannot separate csv fields", model.ErrConfiguration, opts.Comma)
		}
		cr.Comma = opts.Comma
	}
	records, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return model.LoadMatrix{}, fmt.Errorf("%w: %v", model.ErrFormat, perr)
		}
		return model.LoadMatrix{}, fmt.Errorf("read profile: %w", err)
	}
	if opts.SkipHeader && len(records) > 0 {
		records = records[1:]
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return model.LoadMatrix{}, fmt.Errorf("%w: no data", model.ErrFormat)
	}

	slots, profiles := len(records), len(records[0])
	data := make([]float64, 0, slots*profiles)
	for i, rec := range records {
		if len(rec) != profiles {
			return model.LoadMatrix{}, fmt.Errorf("%w: row %d has %d fields, expected %d", model.ErrFormat, i+1, len(rec), profiles)
		}
		for j, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return model.LoadMatrix{}, fmt.Errorf("%w: row %d column %d: %q is not numeric", model.ErrFormat, i+1, j+1, cell)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return model.LoadMatrix{}, fmt.Errorf("%w: row %d column %d: %v is not a non-negative power", model.ErrFormat, i+1, j+1, v)
			}
			data = append(data, v)
		}
	}
	bySlot := mat.NewDense(slots, profiles, data)
	return model.NewLoadMatrix(mat.DenseCopyOf(bySlot.T())), nil
}
