package config

import (
	"fmt"
	"strings"
)

// StoreDriver selects the inventory store implementation.
type StoreDriver uint8

const (
	StoreDriverMemory StoreDriver = iota
	StoreDriverPostgres
	StoreDriverDynamoDB
	StoreDriverRedis
)

var storeDriverNames = []string{"memory", "postgres", "dynamodb", "redis"}

type Store struct {
	Driver StoreDriver `env:"STORE_DRIVER" envDefault:"memory"`
}

// String returns the string representation of the store driver.
func (d StoreDriver) String() string {
	return storeDriverNames[d]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StoreDriver) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range storeDriverNames {
		if n == name {
			*d = StoreDriver(i)
			return nil
		}
	}
	return fmt.Errorf("unknown store driver: %s", text)
}

func (d StoreDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
