package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHourlyRate(t *testing.T) {
	r, err := NewHourlyRate(" ana@example.com ", "Ana", 500)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", r.PersonID())
	assert.Equal(t, "Ana", r.PersonName())
	assert.Equal(t, 500.0, r.RatePerHour())
	assert.True(t, r.IsBillable())
}

func TestNewHourlyRate_DefaultsNameToHandle(t *testing.T) {
	r, err := NewHourlyRate("bob@example.com", "", 10)
	require.NoError(t, err)
	assert.Equal(t, "bob", r.PersonName())
}

func TestNewHourlyRate_Invalid(t *testing.T) {
	_, err := NewHourlyRate("", "Nobody", 10)
	assert.Error(t, err)

	_, err = NewHourlyRate("ana@example.com", "Ana", -1)
	assert.Error(t, err)
}

func TestHourlyRate_ZeroIsNotBillable(t *testing.T) {
	r := MustNewHourlyRate("ana@example.com", "Ana", 0)
	assert.False(t, r.IsBillable())
}

func TestHourlyRate_Covers(t *testing.T) {
	r := MustNewHourlyRate("Ana@Example.com", "Ana", 100)
	assert.True(t, r.Covers("ana@example.com"))
	assert.False(t, r.Covers(""))
	assert.False(t, r.Covers("bob@example.com"))
	assert.Equal(t, "ana@example.com", r.Key())
}
