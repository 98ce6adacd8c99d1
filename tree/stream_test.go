package tree

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTo(t *testing.T) {
	tr := windyTree(t)
	var buf bytes.Buffer
	n, err := tr.WriteTo(&buf)
	require.NoError(t, err)
	want := "Feature Humidity\nThreshold 55\nClear\nFeature Wind\nThreshold 12.5\nRain\nWindy\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), n)

	buf.Reset()
	n, err = New().WriteTo(&buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())
}

func TestWriteToUnwritableLabels(t *testing.T) {
	for _, label := range []string{"Feature Humidity", "Partly\nCloudy"} {
		tr, err := Grow([]feature.Vector{hum(1, 1)}, []string{label})
		require.NoError(t, err)
		_, err = tr.WriteTo(&bytes.Buffer{})
		require.Error(t, err, label)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	}
}

func TestWriteToUnwritableFeatures(t *testing.T) {
	tr, err := Grow([]feature.Vector{
		feature.NewSample(nil, map[string]float64{"Wind Speed (km/h)": 10}),
		feature.NewSample(nil, map[string]float64{"Wind Speed (km/h)": 30}),
	}, []string{"Calm", "Windy"})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = tr.WriteTo(&buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.NotContains(t, buf.String(), "Feature Wind Speed")

	calm, err := NewLeaf("Calm")
	require.NoError(t, err)
	windy, err := NewLeaf("Windy")
	require.NoError(t, err)
	root, err := NewInternal(feature.NewSplit("", 20), calm, windy)
	require.NoError(t, err)
	_, err = FromRoot(root).WriteTo(&bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestRead(t *testing.T) {
	input := "Feature Humidity\nThreshold 55\nClear\nFeature Wind\nThreshold 12.5\nRain\nWindy\n"
	tr, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	root := tr.Root().(*Internal)
	assert.Equal(t, feature.NewSplit("Humidity", 55), root.Split())
	leaf := root.Left().(*Leaf)
	assert.Equal(t, "Clear", leaf.Label())
	v, _ := leaf.Source()
	assert.Nil(t, v)
	assert.Equal(t, feature.NewSplit("Wind", 12.5), root.Right().(*Internal).Split())

	var buf bytes.Buffer
	_, err = tr.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, input, buf.String())
}

func TestReadThresholdLineLabelIsIgnored(t *testing.T) {
	tr, err := ReadLines([]string{"Feature Humidity", "Split 55.5 trailing", "Light Rain", "Feature"})
	require.NoError(t, err)
	root := tr.Root().(*Internal)
	assert.Equal(t, 55.5, root.Split().Threshold)
	assert.Equal(t, "Light Rain", root.Left().(*Leaf).Label())
	assert.Equal(t, "Feature", root.Right().(*Leaf).Label())
}

func TestReadIgnoresTrailingLines(t *testing.T) {
	tr, err := ReadLines([]string{"Clear", "Rain", "Fog"})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Size())
	assert.Equal(t, "Clear", tr.Root().(*Leaf).Label())
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty", nil},
		{"split without threshold", []string{"Feature Humidity"}},
		{"split without children", []string{"Feature Humidity", "Threshold 55"}},
		{"split without right child", []string{"Feature Humidity", "Threshold 55", "Clear"}},
		{"threshold without value", []string{"Feature Humidity", "Threshold", "Clear", "Rain"}},
		{"threshold not a number", []string{"Feature Humidity", "Threshold high", "Clear", "Rain"}},
		{"empty label", []string{"Feature Humidity", "Threshold 55", "", "Rain"}},
		{
			"truncated nested split",
			[]string{"Feature Humidity", "Threshold 55", "Feature Wind", "Threshold 3", "Clear"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := ReadLines(tt.lines)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput), err.Error())
			assert.Nil(t, tr)

			_, err = Read(strings.NewReader(strings.Join(tt.lines, "\n")))
			assert.True(t, errors.Is(err, ErrMalformedInput))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadReaderError(t *testing.T) {
	_, err := Read(failingReader{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedInput))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	labels := []string{"Clear", "Partly Cloudy", "Mostly Cloudy", "Rain"}
	var vectors []feature.Vector
	var vlabels []string
	for i := 0; i < 300; i++ {
		vectors = append(vectors, sample(map[string]float64{
			"Humidity":    rnd.Float64(),
			"Temperature": rnd.NormFloat64() * 15,
			"Wind":        rnd.Float64() * 40,
		}))
		vlabels = append(vlabels, labels[rnd.Intn(len(labels))])
	}
	tr, err := Grow(vectors, vlabels)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = tr.WriteTo(&buf)
	require.NoError(t, err)
	serialized := buf.String()

	read, err := Read(strings.NewReader(serialized))
	require.NoError(t, err)
	assert.Equal(t, tr.String(), read.String())
	assert.Equal(t, tr.Size(), read.Size())

	for i, v := range vectors {
		if !tr.CanClassify(v) {
			continue
		}
		want, err := tr.Classify(v)
		require.NoError(t, err)
		got, err := read.Classify(v)
		require.NoError(t, err)
		assert.Equal(t, want, got, "example %d", i)
	}

	buf.Reset()
	_, err = read.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, serialized, buf.String())
}
