package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a synchronous string-keyed byte store. It plays the role a
// browser's localStorage or sessionStorage plays for a web app.
type Store interface {
	Ping() error
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Driver selects a durable Store implementation.
type Driver string

const (
	DriverBolt   Driver = "bolt"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// ParseDriver converts a config string to a Driver.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case "", DriverBolt:
		return DriverBolt, nil
	case DriverSQLite, DriverMemory:
		return d, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q (want bolt, sqlite or memory)", s)
	}
}

// FileName returns the default database file name for a driver.
func (d Driver) FileName(appName string) string {
	switch d {
	case DriverSQLite:
		return appName + ".db"
	default:
		return appName + ".bolt"
	}
}

// Open opens the durable store for driver. When path is empty the store is
// created in dir using the driver's default file name.
func Open(driver Driver, dir, path, appName string) (Store, error) {
	if path == "" && driver != DriverMemory {
		path = filepath.Join(dir, driver.FileName(appName))
	}

	switch driver {
	case DriverBolt, "":
		return NewBolt(path)
	case DriverSQLite:
		return NewSQLite(path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// GetString is Get for string values.
func GetString(s Store, key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}

	return string(v), nil
}

// Has reports whether key has a value.
func Has(s Store, key string) (bool, error) {
	_, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
