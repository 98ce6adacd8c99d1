package csv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var md = &yaml.Metadata{Features: []string{"Humidity", "Temperature"}, Label: "Summary"}

func TestReadDataset(t *testing.T) {
	input := "Date,Temperature,Humidity,Summary\n" +
		"d1,70,30,Clear\n" +
		"d2,70,80,Rain\n" +
		"d3,?,90, Storm \n"
	ds, err := ReadDataset(strings.NewReader(input), md)
	require.NoError(t, err)
	vectors, labels, err := ds.Examples(context.Background())
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []string{"Clear", "Rain", "Storm"}, labels)

	h, err := vectors[1].Get("Humidity")
	require.NoError(t, err)
	assert.Equal(t, 80.0, h)
	assert.False(t, vectors[2].Features().Contains("Temperature"))
	assert.True(t, vectors[2].Features().Contains("Humidity"))
}

func TestReadDatasetErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		errSubstr string
	}{
		{"empty", "", "reading header"},
		{"missing feature column", "Humidity,Summary\n30,Clear\n", "no column for feature Temperature"},
		{"missing label column", "Humidity,Temperature\n30,70\n", "no column for label Summary"},
		{"not a number", "Humidity,Temperature,Summary\nhigh,70,Clear\n", "parsing line 2"},
		{"undefined label", "Humidity,Temperature,Summary\n30,70,?\n", "undefined label"},
		{"ragged rows", "Humidity,Temperature,Summary\n30,70\n", "reading body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tt.input), md)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestReadDatasetByExampleStops(t *testing.T) {
	input := "Humidity,Temperature,Summary\n30,70,Clear\n80,70,Rain\n90,70,Storm\n"
	var seen []string
	err := ReadDatasetByExample(strings.NewReader(input), md, func(i int, _ feature.Vector, label string) (bool, error) {
		seen = append(seen, label)
		return i < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Clear", "Rain"}, seen)
}

func TestReadWeatherDataset(t *testing.T) {
	input := "Formatted Date,Summary,Precip Type,Temperature (C),Apparent Temperature (C),Humidity,Wind Speed (km/h)\n" +
		"2006-04-01,Partly Cloudy,rain,9.47,7.38,0.89,14.11\n" +
		"2006-04-02,Mostly Cloudy,rain,9.35,7.22,0.86,14.26\n"
	ds, err := ReadWeatherDataset(strings.NewReader(input), true)
	require.NoError(t, err)
	vectors, labels, err := ds.Examples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Partly Cloudy", "Mostly Cloudy"}, labels)
	assert.Equal(t, weather.New(9.47, 0.89, 14.11), vectors[0])

	_, err = ReadWeatherDataset(strings.NewReader(input), false)
	assert.Error(t, err)
}

func TestWriteDataset(t *testing.T) {
	input := "Humidity,Temperature,Summary\n30,70,Clear\n80,?,Rain\n"
	ds, err := ReadDataset(strings.NewReader(input), md)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteDataset(context.Background(), &buf, ds, md))
	assert.Equal(t, input, buf.String())
}

func TestReadDatasetFromFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte("Humidity,Temperature,Summary\n30,70,Clear\n"), 0o644))
	ds, err := ReadDatasetFromFilePath(path, md)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Count())

	_, err = ReadDatasetFromFilePath(filepath.Join(t.TempDir(), "missing.csv"), md)
	assert.Error(t, err)
}
