package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookArgs(t *testing.T) {
	hotelId, customer, count, err := ParseBookArgs("42 alice 3")
	require.NoError(t, err)
	assert.Equal(t, 42, hotelId)
	assert.Equal(t, "alice", customer)
	assert.Equal(t, 3, count)

	_, _, _, err = ParseBookArgs("42 alice")
	assert.Error(t, err)

	_, _, _, err = ParseBookArgs("notANumber alice 3")
	assert.Error(t, err)

	_, _, _, err = ParseBookArgs("42 alice many")
	assert.Error(t, err)
}

func TestParseUnbookArgs(t *testing.T) {
	hotelId, customer, err := ParseUnbookArgs("  7   bob  ")
	require.NoError(t, err)
	assert.Equal(t, 7, hotelId)
	assert.Equal(t, "bob", customer)

	_, _, err = ParseUnbookArgs("7")
	assert.Error(t, err)

	_, _, err = ParseUnbookArgs("seven bob")
	assert.Error(t, err)
}

func TestParseAddHotelArgs(t *testing.T) {
	hotelId, name, freeRooms, err := ParseAddHotelArgs("1 Grand 300")
	require.NoError(t, err)
	assert.Equal(t, 1, hotelId)
	assert.Equal(t, "Grand", name)
	assert.Equal(t, 300, freeRooms)

	_, _, _, err = ParseAddHotelArgs("1 Grand")
	assert.Error(t, err)

	_, _, _, err = ParseAddHotelArgs("1 Grand lots")
	assert.Error(t, err)
}
