package pgadapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter(t *testing.T) {
	a, err := New("postgres://localhost/sapling?sslmode=disable")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "$1", a.Placeholder(1))
	assert.Equal(t, "$12", a.Placeholder(12))
	assert.Equal(t, "DOUBLE PRECISION", a.RealType())

	name, err := a.ColumnName("Humidity")
	require.NoError(t, err)
	assert.Equal(t, "Humidity", name)
	_, err = a.ColumnName(`Hum"idity`)
	assert.Error(t, err)
	_, err = a.ColumnName(strings.Repeat("h", MaxIdentifierLength+1))
	assert.Error(t, err)
	_, err = a.ColumnName("")
	assert.Error(t, err)
}
