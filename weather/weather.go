/*
Package weather provides a feature.Vector for weather observations, so
that trees can learn to predict the summary of an observation (Partly
Cloudy, Mostly Cloudy, Rain...) from its temperature, humidity and wind.
*/
package weather

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/feature"
)

const (
	// Temperature is the name of the temperature feature
	Temperature = "Temperature"
	// Humidity is the name of the humidity feature
	Humidity = "Humidity"
	// Wind is the name of the wind speed feature
	Wind = "Wind"
)

// Columns of a weather observation row
const (
	SummaryColumn     = 1
	TemperatureColumn = 3
	HumidityColumn    = 5
	WindColumn        = 6
)

// Features holds the feature names of a weather observation in the
// priority order used to partition them.
var Features = []string{Humidity, Temperature, Wind}

// Weather is a weather observation
type Weather struct {
	Temperature float64
	Humidity    float64
	Wind        float64
}

// New returns a weather observation with the given values
func New(temperature, humidity, wind float64) *Weather {
	return &Weather{Temperature: temperature, Humidity: humidity, Wind: wind}
}

/*
FromRow takes a row of a weather observation dataset and returns the
observation in it or an error if the row is too short or its temperature,
humidity or wind columns do not hold numbers.
*/
func FromRow(row []string) (*Weather, error) {
	if len(row) <= WindColumn {
		return nil, fmt.Errorf("weather row has %d columns, expected at least %d", len(row), WindColumn+1)
	}
	values := make([]float64, 3)
	for i, c := range []int{TemperatureColumn, HumidityColumn, WindColumn} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing column %d of weather row: %v", c, err)
		}
		values[i] = v
	}
	return New(values[0], values[1], values[2]), nil
}

/*
LabelFromRow takes a row of a weather observation dataset and returns its
summary or an error if the row has no summary.
*/
func LabelFromRow(row []string) (string, error) {
	if len(row) <= SummaryColumn || strings.TrimSpace(row[SummaryColumn]) == "" {
		return "", fmt.Errorf("weather row has no summary")
	}
	return strings.TrimSpace(row[SummaryColumn]), nil
}

// Get returns the value of the observation for the given feature
func (w *Weather) Get(name string) (float64, error) {
	switch name {
	case Temperature:
		return w.Temperature, nil
	case Humidity:
		return w.Humidity, nil
	case Wind:
		return w.Wind, nil
	}
	return 0, feature.UnknownFeatureError(name)
}

// Features returns the set of features of a weather observation
func (w *Weather) Features() feature.Set {
	return feature.NewSet(Features...)
}

/*
Partition takes another vector and returns a split on the first of
humidity, temperature and wind on which both differ, at the midpoint of
both values. If they do not differ the split is made on wind.
*/
func (w *Weather) Partition(other feature.Vector) (feature.Split, error) {
	return feature.PartitionInOrder(w, other, Features)
}

func (w *Weather) String() string {
	return fmt.Sprintf("[Temperature:%v Humidity:%v Wind:%v]", w.Temperature, w.Humidity, w.Wind)
}
