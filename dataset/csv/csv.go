/*
Package csv reads and writes datasets of labeled examples as CSV.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/pbanos/sapling/weather"
)

// UndefinedValue is the value that marks a feature as undefined for an
// example. Empty values are undefined too.
const UndefinedValue = "?"

/*
Writer is a dataset.Writer that writes examples as CSV rows. Its
Examples method always returns no examples.
*/
type Writer struct {
	count int
	md    *yaml.Metadata
	w     *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream and the metadata of the
dataset and returns a dataset.Memory with the examples parsed from the
reader or an error.

The header or first row of the CSV content must include a column for
each feature in the metadata and one for the label; other columns are
ignored. The rest of the rows should consist of numbers or the '?' string
(or nothing) for undefined feature values, which are left out of the
example's vector, and a non-empty label.
*/
func ReadDataset(reader io.Reader, md *yaml.Metadata) (*dataset.Memory, error) {
	var vectors []feature.Vector
	var labels []string
	err := ReadDatasetByExample(reader, md, func(_ int, v feature.Vector, label string) (bool, error) {
		vectors = append(vectors, v)
		labels = append(labels, label)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.NewMemory(vectors, labels)
}

/*
ReadDatasetByExample takes an io.Reader for a CSV stream, the metadata of
the dataset and a lambda function on an integer, a vector and a label that
returns a boolean value. It parses the examples from the reader and for
each it calls the lambda function with the example and its index as
parameters. If the lambda function returns true, it will continue
processing the next example, otherwise it will stop. An error is returned
if something goes wrong when reading the stream or parsing an example.
*/
func ReadDatasetByExample(reader io.Reader, md *yaml.Metadata, lambda func(int, feature.Vector, string) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	featureColumns, labelColumn, err := parseHeader(header, md)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		v, label, err := parseRow(row, md.Features, featureColumns, labelColumn)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, v, label)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadWeatherDataset takes an io.Reader for a CSV stream of weather
observations and returns a dataset.Memory with them labeled with their
summary. If header is true the first row is skipped.
*/
func ReadWeatherDataset(reader io.Reader, header bool) (*dataset.Memory, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	var vectors []feature.Vector
	var labels []string
	for l := 1; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading weather observations: %v", err)
		}
		if header && l == 1 {
			continue
		}
		w, err := weather.FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		label, err := weather.LabelFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		vectors = append(vectors, w)
		labels = append(labels, label)
	}
	return dataset.NewMemory(vectors, labels)
}

/*
ReadDatasetFromFilePath takes a filepath string and the metadata of the
dataset, opens the file to which the filepath points to and uses
ReadDataset to return the dataset in it or an error. If the filepath is ""
os.Stdin is read. It will return an error if the given filepath cannot be
opened for reading.
*/
func ReadDatasetFromFilePath(filepath string, md *yaml.Metadata) (*dataset.Memory, error) {
	f, err := open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := ReadDataset(f, md)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
ReadWeatherDatasetFromFilePath works like ReadDatasetFromFilePath for
ReadWeatherDataset.
*/
func ReadWeatherDatasetFromFilePath(filepath string, header bool) (*dataset.Memory, error) {
	f, err := open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := ReadWeatherDataset(f, header)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

func open(filepath string) (*os.File, error) {
	if filepath == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %v", err)
	}
	return f, nil
}

/*
NewWriter takes an io.Writer and the metadata of a dataset and returns
a Writer that will write examples on the io.Writer, after writing the
header with the features and label names.
*/
func NewWriter(writer io.Writer, md *yaml.Metadata) (*Writer, error) {
	w := csv.NewWriter(writer)
	record := append(append([]string{}, md.Features...), md.Label)
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &Writer{md: md, w: w}, nil
}

/*
WriteDataset takes a context, a writer, a dataset and its metadata and
dumps to the writer the dataset in CSV format, specifying only the
features in the metadata. It returns an error if something went wrong
when writing to the writer, or reading the examples.
*/
func WriteDataset(ctx context.Context, writer io.Writer, ds dataset.Dataset, md *yaml.Metadata) error {
	cw, err := NewWriter(writer, md)
	if err != nil {
		return err
	}
	if _, err = dataset.Copy(ctx, cw, ds); err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(header []string, md *yaml.Metadata) ([]int, int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	featureColumns := make([]int, len(md.Features))
	for i, f := range md.Features {
		c, ok := columns[f]
		if !ok {
			return nil, 0, fmt.Errorf("parsing header: no column for feature %s", f)
		}
		featureColumns[i] = c
	}
	labelColumn, ok := columns[md.Label]
	if !ok {
		return nil, 0, fmt.Errorf("parsing header: no column for label %s", md.Label)
	}
	return featureColumns, labelColumn, nil
}

func parseRow(row []string, features []string, featureColumns []int, labelColumn int) (feature.Vector, string, error) {
	values := make(map[string]float64)
	for i, c := range featureColumns {
		v := strings.TrimSpace(row[c])
		if v == UndefinedValue || v == "" {
			continue
		}
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "", fmt.Errorf("converting %s to float64 for feature %s: %v", v, features[i], err)
		}
		values[features[i]] = value
	}
	label := strings.TrimSpace(row[labelColumn])
	if label == "" || label == UndefinedValue {
		return nil, "", fmt.Errorf("undefined label")
	}
	return feature.NewSample(features, values), label, nil
}

// Count returns the number of examples written
func (cw *Writer) Count() int {
	return cw.count
}

// Examples returns no examples: a Writer cannot be read from
func (cw *Writer) Examples(context.Context) ([]feature.Vector, []string, error) {
	return nil, nil, nil
}

// Write writes the given examples as CSV rows
func (cw *Writer) Write(ctx context.Context, vectors []feature.Vector, labels []string) (int, error) {
	if len(vectors) != len(labels) {
		return 0, fmt.Errorf("writing examples: %d vectors and %d labels", len(vectors), len(labels))
	}
	for n := range vectors {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := cw.WriteExample(vectors[n], labels[n]); err != nil {
			return n, err
		}
	}
	return len(vectors), nil
}

// WriteExample writes a single example as a CSV row
func (cw *Writer) WriteExample(v feature.Vector, label string) error {
	record := make([]string, len(cw.md.Features)+1)
	fs := v.Features()
	for j, f := range cw.md.Features {
		if !fs.Contains(f) {
			record[j] = UndefinedValue
			continue
		}
		value, err := v.Get(f)
		if err != nil {
			return err
		}
		record[j] = strconv.FormatFloat(value, 'g', -1, 64)
	}
	record[len(record)-1] = label
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for example %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

// Flush ensures any buffered rows are written
func (cw *Writer) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
