package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfigFile(t, `
store:
  region: eu-west-1
  endpoint: http://localhost:8000
  table_prefix: Test
  consistent_reads: true
  conditional_claims: true
  booking_function: booking-service
stress:
  customers: 10
  attempts_per_customer: 2
  max_rooms_per_booking: 4
  hotel_id: 99
  room_count: 50
  report_name: nightly
log_file: booking
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Store.Region)
	assert.Equal(t, "http://localhost:8000", cfg.Store.Endpoint)
	assert.Equal(t, "Test", cfg.Store.TablePrefix)
	assert.True(t, cfg.Store.ConsistentReads)
	assert.True(t, cfg.Store.ConditionalClaims)
	assert.Equal(t, "booking-service", cfg.Store.BookingFunction)
	assert.Equal(t, "booking", cfg.LogFile)

	params := cfg.StressParams()
	assert.Equal(t, 99, params.HotelId)
	assert.Equal(t, 50, params.RoomCount)
	assert.Equal(t, 10, params.Customers)
	assert.Equal(t, 2, params.AttemptsPerCustomer)
	assert.Equal(t, 4, params.MaxRoomsPerBooking)
	assert.Equal(t, "nightly", params.ReportName)
}

func TestLoadFillsStressDefaults(t *testing.T) {
	path := writeConfigFile(t, `
store:
  table_prefix: Test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	params := cfg.StressParams()
	assert.Equal(t, 48167278, params.HotelId)
	assert.Equal(t, 300, params.RoomCount)
	assert.Equal(t, 500, params.Customers)
	assert.Equal(t, 3, params.AttemptsPerCustomer)
	assert.Equal(t, 6, params.MaxRoomsPerBooking)
	assert.Empty(t, params.ReportName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYaml(t *testing.T) {
	path := writeConfigFile(t, "store: [not: a, mapping")
	_, err := Load(path)
	assert.Error(t, err)
}
