package tree

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weatherOrder = []string{"Humidity", "Temperature", "Wind"}

func sample(values map[string]float64) feature.Vector {
	return feature.NewSample(weatherOrder, values)
}

func hum(h, t float64) feature.Vector {
	return sample(map[string]float64{"Humidity": h, "Temperature": t})
}

func TestGrowTwoExamples(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(30, 70), hum(80, 70)}, []string{"Clear", "Rain"})
	require.NoError(t, err)

	root, ok := tr.Root().(*Internal)
	require.True(t, ok, "root should be an internal node")
	assert.Equal(t, feature.NewSplit("Humidity", 55.0), root.Split())
	left, ok := root.Left().(*Leaf)
	require.True(t, ok)
	assert.Equal(t, "Clear", left.Label())
	right, ok := root.Right().(*Leaf)
	require.True(t, ok)
	assert.Equal(t, "Rain", right.Label())

	label, err := tr.Classify(hum(20, 70))
	require.NoError(t, err)
	assert.Equal(t, "Clear", label)
	label, err = tr.Classify(hum(90, 70))
	require.NoError(t, err)
	assert.Equal(t, "Rain", label)
	assert.Equal(t, 3, tr.Size())
	assert.Equal(t, 2, tr.Depth())
}

func TestGrowNewExampleGoesLeft(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(80, 70), hum(30, 70)}, []string{"Rain", "Clear"})
	require.NoError(t, err)
	root := tr.Root().(*Internal)
	assert.Equal(t, "Clear", root.Left().(*Leaf).Label())
	assert.Equal(t, "Rain", root.Right().(*Leaf).Label())
}

func TestGrowInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		vectors []feature.Vector
		labels  []string
	}{
		{"empty", nil, nil},
		{"more vectors", []feature.Vector{hum(1, 1), hum(2, 2)}, []string{"a"}},
		{"more labels", []feature.Vector{hum(1, 1)}, []string{"a", "b"}},
		{"empty label", []feature.Vector{hum(1, 1), hum(2, 2)}, []string{"a", ""}},
		{"nil vector", []feature.Vector{hum(1, 1), nil}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Grow(tt.vectors, tt.labels)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			assert.Nil(t, tr)
		})
	}
}

func TestInsertIdempotent(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(30, 70), hum(80, 70)}, []string{"Clear", "Rain"})
	require.NoError(t, err)
	root := tr.Root().(*Internal)
	left, right := root.Left(), root.Right()
	before := tr.String()

	require.NoError(t, tr.Insert(hum(10, 20), "Clear"))
	require.NoError(t, tr.Insert(hum(99, 20), "Rain"))

	assert.Same(t, root, tr.Root())
	assert.Same(t, left, root.Left())
	assert.Same(t, right, root.Right())
	assert.Equal(t, before, tr.String())
}

func TestInsertConflictDeepens(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(30, 70), hum(80, 70)}, []string{"Clear", "Rain"})
	require.NoError(t, err)
	root := tr.Root().(*Internal)
	left := root.Left()

	require.NoError(t, tr.Insert(hum(90, 60), "Storm"))

	assert.Same(t, root, tr.Root())
	assert.Same(t, left, root.Left())
	sub, ok := root.Right().(*Internal)
	require.True(t, ok)
	assert.Equal(t, feature.NewSplit("Humidity", 85), sub.Split())
	assert.Equal(t, "Rain", sub.Left().(*Leaf).Label())
	assert.Equal(t, "Storm", sub.Right().(*Leaf).Label())
}

func TestInsertIdenticalVectorsWithDifferentLabels(t *testing.T) {
	v := hum(50, 50)
	tr, err := Grow([]feature.Vector{v, hum(50, 50)}, []string{"Clear", "Fog"})
	require.NoError(t, err)
	root := tr.Root().(*Internal)
	// no feature differs: the split falls back on the last feature
	assert.Equal(t, feature.NewSplit("Temperature", 50), root.Split())
	assert.Equal(t, "Clear", root.Left().(*Leaf).Label())
	assert.Equal(t, "Fog", root.Right().(*Leaf).Label())
	label, err := tr.Classify(v)
	require.NoError(t, err)
	assert.Equal(t, "Fog", label)
}

func TestInsertFailureLeavesTreeUntouched(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(30, 70), hum(80, 70)}, []string{"Clear", "Rain"})
	require.NoError(t, err)
	before := tr.String()

	err = tr.Insert(sample(map[string]float64{"Temperature": 3}), "Snow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, feature.ErrUnknownFeature))

	err = tr.Insert(hum(10, 10), "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	assert.Equal(t, before, tr.String())
}

func TestInsertNilVector(t *testing.T) {
	tr := New()
	err := tr.Insert(nil, "Clear")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, tr.Empty())

	require.NoError(t, tr.Insert(hum(30, 70), "Clear"))
	err = tr.Insert(nil, "Rain")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, 1, tr.Size())
}

func TestInsertIntoReadTree(t *testing.T) {
	tr, err := ReadLines([]string{"Feature Humidity", "Threshold 55", "Clear", "Rain"})
	require.NoError(t, err)

	require.NoError(t, tr.Insert(hum(10, 10), "Clear"))
	err = tr.Insert(hum(10, 10), "Snow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCannotGrow))
	assert.Equal(t, 3, tr.Size())
}

func TestGrowSelfConsistent(t *testing.T) {
	vectors := []feature.Vector{hum(30, 70), hum(80, 70), hum(90, 60), hum(10, 70), hum(40, 20)}
	labels := []string{"Clear", "Rain", "Storm", "Clear", "Clear"}
	tr, err := Grow(vectors, labels)
	require.NoError(t, err)
	for i, v := range vectors {
		label, err := tr.Classify(v)
		require.NoError(t, err)
		assert.Equal(t, labels[i], label, "example %d", i)
	}
	rate, unclassified, err := tr.Test(vectors, labels, LeftSpineCheck)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Zero(t, unclassified)
}

func TestInsertionOrderShapesTree(t *testing.T) {
	vectors := []feature.Vector{hum(30, 70), hum(80, 70), hum(40, 90)}
	labels := []string{"Clear", "Rain", "Sunny"}
	a, err := Grow(vectors, labels)
	require.NoError(t, err)
	b, err := Grow([]feature.Vector{vectors[2], vectors[1], vectors[0]}, []string{labels[2], labels[1], labels[0]})
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), b.String())
}

func TestInsertedExampleClassifiesAfterInsertion(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	labels := []string{"Clear", "Rain", "Fog", "Snow"}
	tr := New()
	for i := 0; i < 500; i++ {
		v := sample(map[string]float64{
			"Humidity":    float64(rnd.Intn(100)),
			"Temperature": float64(rnd.Intn(40)),
			"Wind":        rnd.Float64() * 30,
		})
		label := labels[rnd.Intn(len(labels))]
		require.NoError(t, tr.Insert(v, label))
		got, err := tr.Classify(v)
		require.NoError(t, err)
		assert.Equal(t, label, got, "example %d", i)
	}
	assert.ElementsMatch(t, labels, tr.Labels())
}

func TestTraverseAbort(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(30, 70), hum(80, 70)}, []string{"Clear", "Rain"})
	require.NoError(t, err)
	stop := errors.New("stop")
	var visited int
	err = tr.Traverse(func(int, Node) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, visited)
}

func TestString(t *testing.T) {
	tr, err := Grow([]feature.Vector{hum(30, 70), hum(80, 70)}, []string{"Clear", "Rain"})
	require.NoError(t, err)
	assert.Equal(t, "[ Humidity < 55 ]\n|\n|__{ Clear }\n|__{ Rain }\n", tr.String())
	assert.Equal(t, "(empty)\n", New().String())
}

func TestNewNodes(t *testing.T) {
	_, err := NewLeaf("")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	l, err := NewLeaf("Clear")
	require.NoError(t, err)
	v, _ := l.Source()
	assert.Nil(t, v)
	_, err = NewInternal(feature.NewSplit("Humidity", 3), l, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	in, err := NewInternal(feature.NewSplit("Humidity", 3), l, l)
	require.NoError(t, err)
	assert.Equal(t, 3, FromRoot(in).Size())
}
