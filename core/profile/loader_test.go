package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evload/core/model"
)

var bauMinDelay = model.ProfileFamilyKey{Behavior: model.BehaviorBAU, Flexibility: model.FlexMinDelay}

func TestStandardNamer(t *testing.T) {
	key := model.ProfileFamilyKey{Behavior: model.BehaviorFreeMetroCharging, Flexibility: model.FlexMaxDelay}
	name, err := StandardNamer{}.FileName(key, model.Saturday)
	require.NoError(t, err)
	assert.Equal(t, "chg3_dow2_flex2.csv", name)

	_, err = StandardNamer{}.FileName(model.ProfileFamilyKey{}, model.Weekday)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = StandardNamer{}.FileName(key, model.DayType(0))
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestVariantNamer(t *testing.T) {
	v := VariantNamer{Name: "pena-station-next", Files: model.ByDay[string]{Weekday: "psn_wd.csv", Saturday: "psn_sat.csv"}}
	name, err := v.FileName(bauMinDelay, model.Weekday)
	require.NoError(t, err)
	assert.Equal(t, "psn_wd.csv", name)
	_, err = v.FileName(bauMinDelay, model.Sunday)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestParseTransposes(t *testing.T) {
	// 4 slots x 2 profiles in file orientation.
	in := "10,30\n20,20\n30,10\n40,0\n"
	m, err := Parse(strings.NewReader(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Profiles())
	assert.Equal(t, 4, m.Slots())
	assert.Equal(t, []float64{10, 20, 30, 40}, m.RawRowView(0))
	assert.Equal(t, []float64{30, 20, 10, 0}, m.RawRowView(1))
}

func TestParseHeaderAndDelimiter(t *testing.T) {
	in := "veh1;veh2\n1.5; 2\n0;0.25\n"
	m, err := Parse(strings.NewReader(in), Options{SkipHeader: true, Comma: ';'})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0}, m.RawRowView(0))
	assert.Equal(t, []float64{2, 0.25}, m.RawRowView(1))
}

func TestParseFormatErrors(t *testing.T) {
	cases := map[string]string{
		"ragged":      "1,2\n3\n",
		"non-numeric": "1,2\n3,kw\n",
		"negative":    "1,-2\n",
		"nan":         "1,NaN\n",
		"empty":       "",
		"bad quote":   "1,\"2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in), Options{})
			assert.ErrorIs(t, err, model.ErrFormat)
		})
	}
}

func TestParseRejectsDelimiter(t *testing.T) {
	for _, comma := range []rune{'"', '\r', '\n', utf8.RuneError, -1} {
		_, err := Parse(strings.NewReader("1,2\n"), Options{Comma: comma})
		assert.ErrorIs(t, err, model.ErrConfiguration, "delimiter %q", comma)
		assert.Equal(t, "configuration", model.ErrorKind(err))
	}
}

func TestLoaderQuoteDelimiterIsConfiguration(t *testing.T) {
	dir := t.TempDir()
	writeFamily(t, dir, bauMinDelay, model.ByDay[string]{Weekday: "1,2\n", Saturday: "1,2\n", Sunday: "1,2\n"})
	l := NewLoader(DirSource{Dir: dir}, nil, Options{Comma: '"'}, nil)
	_, err := l.LoadFamily(context.Background(), bauMinDelay)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.Contains(t, err.Error(), "chg1_dow1_flex1.csv")
}

func TestValidDelimiter(t *testing.T) {
	for _, r := range []rune{',', ';', '\t', '|'} {
		assert.True(t, ValidDelimiter(r), "%q", r)
	}
	assert.False(t, ValidDelimiter('"'))
	assert.False(t, ValidDelimiter(0))
}

func writeFamily(t *testing.T, dir string, key model.ProfileFamilyKey, content model.ByDay[string]) {
	t.Helper()
	for _, d := range model.DayTypes {
		name, err := StandardNamer{}.FileName(key, d)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content.Get(d)), 0o644))
	}
}

func TestLoaderLoadFamily(t *testing.T) {
	dir := t.TempDir()
	writeFamily(t, dir, bauMinDelay, model.ByDay[string]{
		Weekday:  "1,2\n3,4\n",
		Saturday: "5,6\n7,8\n",
		Sunday:   "0,0\n1,1\n",
	})
	l := NewLoader(DirSource{Dir: dir}, nil, Options{}, nil)
	fam, err := l.LoadFamily(context.Background(), bauMinDelay)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7}, fam.Saturday.RawRowView(0))
	assert.Equal(t, 2, fam.Sunday.Slots())
}

func TestLoaderSlotMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFamily(t, dir, bauMinDelay, model.ByDay[string]{
		Weekday:  "1,2\n3,4\n",
		Saturday: "5,6\n7,8\n9,9\n",
		Sunday:   "0,0\n1,1\n",
	})
	l := NewLoader(DirSource{Dir: dir}, nil, Options{}, nil)
	_, err := l.LoadFamily(context.Background(), bauMinDelay)
	assert.ErrorIs(t, err, model.ErrFormat)
}

func TestLoaderMissingResource(t *testing.T) {
	l := NewLoader(DirSource{Dir: t.TempDir()}, nil, Options{}, nil)
	_, err := l.Load(context.Background(), bauMinDelay, model.Weekday)
	assert.True(t, errors.Is(err, model.ErrResourceNotFound))
	assert.Contains(t, err.Error(), "chg1_dow1_flex1.csv")
}

func TestDirSourceRejectsPaths(t *testing.T) {
	_, err := DirSource{Dir: t.TempDir()}.Open(context.Background(), "../secret.csv")
	assert.ErrorIs(t, err, model.ErrResourceNotFound)
}

func TestFSSourceWithVariant(t *testing.T) {
	fsys := fstest.MapFS{
		"psn_wd.csv":  {Data: []byte("2\n4\n")},
		"psn_sat.csv": {Data: []byte("1\n1\n")},
		"psn_sun.csv": {Data: []byte("0\n3\n")},
	}
	namer := VariantNamer{Name: "pena-station-next", Files: model.ByDay[string]{
		Weekday: "psn_wd.csv", Saturday: "psn_sat.csv", Sunday: "psn_sun.csv",
	}}
	l := NewLoader(FSSource{FS: fsys}, namer, Options{}, nil)
	fam, err := l.LoadFamily(context.Background(), model.ProfileFamilyKey{})
	require.NoError(t, err)
	assert.Equal(t, 1, fam.Weekday.Profiles())
	assert.Equal(t, []float64{0, 3}, fam.Sunday.RawRowView(0))

	_, err = FSSource{FS: fsys}.Open(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, model.ErrResourceNotFound)
}

func TestSourceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirSource{Dir: t.TempDir()}.Open(ctx, "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}
