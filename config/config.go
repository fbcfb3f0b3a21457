package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"main/stress"
)

// Config is the application configuration loaded from a YAML file.
type Config struct {
	Store   StoreConfig  `yaml:"store"`
	Stress  StressConfig `yaml:"stress"`
	LogFile string       `yaml:"log_file"`
}

// StoreConfig wires the inventory store session. BookingFunction names the
// deployed booking-service Lambda; when set on an aws run, the stress harness
// books through it instead of the in-process service.
type StoreConfig struct {
	Region            string `yaml:"region"`
	Endpoint          string `yaml:"endpoint"`
	TablePrefix       string `yaml:"table_prefix"`
	ConsistentReads   bool   `yaml:"consistent_reads"`
	ConditionalClaims bool   `yaml:"conditional_claims"`
	BookingFunction   string `yaml:"booking_function"`
}

// StressConfig parameterizes the concurrency stress harness.
type StressConfig struct {
	Customers           int    `yaml:"customers"`
	AttemptsPerCustomer int    `yaml:"attempts_per_customer"`
	MaxRoomsPerBooking  int    `yaml:"max_rooms_per_booking"`
	HotelId             int    `yaml:"hotel_id"`
	RoomCount           int    `yaml:"room_count"`
	ReportName          string `yaml:"report_name"`
}

// Load reads the configuration from the given path and fills in defaults for
// omitted stress parameters.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	defaults := stress.DefaultParams()
	if cfg.Stress.Customers == 0 {
		cfg.Stress.Customers = defaults.Customers
	}
	if cfg.Stress.AttemptsPerCustomer == 0 {
		cfg.Stress.AttemptsPerCustomer = defaults.AttemptsPerCustomer
	}
	if cfg.Stress.MaxRoomsPerBooking == 0 {
		cfg.Stress.MaxRoomsPerBooking = defaults.MaxRoomsPerBooking
	}
	if cfg.Stress.HotelId == 0 {
		cfg.Stress.HotelId = defaults.HotelId
	}
	if cfg.Stress.RoomCount == 0 {
		cfg.Stress.RoomCount = defaults.RoomCount
	}

	return &cfg, nil
}

// StressParams converts the stress section into harness parameters.
func (c *Config) StressParams() stress.Params {
	return stress.Params{
		HotelId:             c.Stress.HotelId,
		RoomCount:           c.Stress.RoomCount,
		Customers:           c.Stress.Customers,
		AttemptsPerCustomer: c.Stress.AttemptsPerCustomer,
		MaxRoomsPerBooking:  c.Stress.MaxRoomsPerBooking,
		ReportName:          c.Stress.ReportName,
	}
}
