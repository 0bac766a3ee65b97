package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	geom "github.com/twpayne/go-geom"
)

func TestNewPoint(t *testing.T) {
	t.Run(
		"construct and read back", func(t *testing.T) {
			for _, coord := range [][]float64{
				{95.42103999972832, 5.647860000331377},
				{95.42104, 5.64786, 12.5},
				{95.42104, 5.64786, 12.5, 100.25},
			} {
				p, err := NewPoint(coord)
				require.NoError(t, err)
				assert.Equal(t, Point, p.Kind())
				assert.Equal(t, len(coord), p.Dim())
				assert.Equal(t, coord, p.FlatCoords())
			}
		},
	)

	t.Run(
		"invalid dimension", func(t *testing.T) {
			_, err := NewPoint([]float64{1})
			assert.ErrorIs(t, err, ErrInvalidCoordinateDimension)

			_, err = NewPoint([]float64{1, 2, 3, 4, 5})
			assert.ErrorIs(t, err, ErrInvalidCoordinateDimension)

			_, err = NewPoint(nil)
			assert.ErrorIs(t, err, ErrInvalidCoordinateDimension)
		},
	)
}

func TestNewMultiPoint(t *testing.T) {
	rows := [][]float64{{0, 1}, {0, 4}, {4, 6}, {6, 1}}

	mp, err := NewMultiPoint(rows)
	require.NoError(t, err)
	assert.Equal(t, MultiPoint, mp.Kind())
	assert.Equal(t, []float64{0, 1, 0, 4, 4, 6, 6, 1}, mp.FlatCoords())

	t.Run(
		"empty is permitted", func(t *testing.T) {
			mp, err := NewMultiPoint(nil)
			require.NoError(t, err)
			assert.Equal(t, MultiPoint, mp.Kind())
			assert.Empty(t, mp.FlatCoords())
		},
	)

	t.Run(
		"inconsistent dimensionality", func(t *testing.T) {
			_, err := NewMultiPoint([][]float64{{0, 1}, {0, 4, 2}})
			assert.ErrorIs(t, err, ErrInconsistentDimensionality)
		},
	)

	t.Run(
		"invalid row width", func(t *testing.T) {
			_, err := NewMultiPoint([][]float64{{0, 1}, {4}})
			assert.ErrorIs(t, err, ErrInvalidCoordinateDimension)
		},
	)
}

func TestNewLineString(t *testing.T) {
	ls, err := NewLineString([][]float64{{0, 0}, {1, 1}, {2, 3}})
	require.NoError(t, err)
	assert.Equal(t, LineString, ls.Kind())
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 3}, ls.FlatCoords())

	_, err = NewLineString([][]float64{{0, 0}})
	assert.ErrorIs(t, err, ErrShortLineString)

	_, err = NewLineString(nil)
	assert.ErrorIs(t, err, ErrShortLineString)
}

func TestNewMultiLineString(t *testing.T) {
	mls, err := NewMultiLineString([][][]float64{
		{{0, 0}, {1, 1}},
		{{5, 5}, {6, 6}, {7, 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, MultiLineString, mls.Kind())

	t.Run(
		"empty is permitted", func(t *testing.T) {
			mls, err := NewMultiLineString(nil)
			require.NoError(t, err)
			assert.Equal(t, MultiLineString, mls.Kind())
		},
	)

	t.Run(
		"dimensionality consistent across lines", func(t *testing.T) {
			_, err := NewMultiLineString([][][]float64{
				{{0, 0}, {1, 1}},
				{{5, 5, 1}, {6, 6, 2}},
			})
			assert.ErrorIs(t, err, ErrInconsistentDimensionality)
		},
	)
}

func TestNewPolygon(t *testing.T) {
	ring := [][]float64{{0, 1}, {0, 4}, {4, 6}, {6, 1}, {0, 1}}

	t.Run(
		"closed ring", func(t *testing.T) {
			p, err := NewPolygon([][][]float64{ring})
			require.NoError(t, err)
			assert.Equal(t, Polygon, p.Kind())
			assert.Equal(t, []float64{0, 1, 0, 4, 4, 6, 6, 1, 0, 1}, p.FlatCoords())
		},
	)

	t.Run(
		"unclosed ring", func(t *testing.T) {
			_, err := NewPolygon([][][]float64{ring[:len(ring)-1]})
			assert.ErrorIs(t, err, ErrUnclosedRing)
		},
	)

	t.Run(
		"short ring", func(t *testing.T) {
			_, err := NewPolygon([][][]float64{{{0, 0}, {1, 1}, {0, 0}}})
			assert.ErrorIs(t, err, ErrShortRing)
		},
	)

	t.Run(
		"unclosed hole", func(t *testing.T) {
			_, err := NewPolygon([][][]float64{
				ring,
				{{1, 2}, {1, 3}, {2, 3}, {2, 2}},
			})
			assert.ErrorIs(t, err, ErrUnclosedRing)
		},
	)
}

func TestWithSRID(t *testing.T) {
	p, err := NewPoint([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, p.SRID())

	tagged := p.WithSRID(4326)
	assert.Equal(t, 4326, tagged.SRID())
	assert.Equal(t, 0, p.SRID(), "receiver must be unchanged")
	assert.Equal(t, p.FlatCoords(), tagged.FlatCoords())
}

func TestEqual(t *testing.T) {
	a, _ := NewPoint([]float64{1, 2})
	b, _ := NewPoint([]float64{1, 2})
	c, _ := NewPoint([]float64{1, 3})

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(a, b.WithSRID(4326)))

	ls, _ := NewLineString([][]float64{{1, 2}, {3, 4}})
	assert.False(t, Equal(a, ls))

	gc1 := BuildCollection(a, ls)
	gc2 := BuildCollection(b, ls)
	gc3 := BuildCollection(ls, b)
	assert.True(t, Equal(gc1, gc2))
	assert.False(t, Equal(gc1, gc3))
}

func TestFromGeom(t *testing.T) {
	pt := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{3, 4}).SetSRID(4326)
	g := FromGeom(pt)
	assert.Equal(t, Point, g.Kind())
	assert.Equal(t, 4326, g.SRID())
	assert.Equal(t, []float64{3, 4}, g.FlatCoords())
}
