package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AccessTokenKey = "ATOKEN"
	DeviceIDKey    = "DEVICEID"
)

var (
	ErrMissingAccessToken = errors.New(AccessTokenKey + " variable not found in secrets file")
	ErrMissingDeviceID    = errors.New(DeviceIDKey + " variable not found in secrets file")
)

type Credentials struct {
	AccessToken string
	DeviceID    string
}

// LoadCredentials reads the dotenv-style secrets file. A variable already set
// in the process environment wins over the file, the same way a dotenv load
// without override behaves.
func LoadCredentials(path string) (Credentials, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read secrets %s: %w", path, err)
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(values[key])
	}

	creds := Credentials{
		AccessToken: lookup(AccessTokenKey),
		DeviceID:    lookup(DeviceIDKey),
	}

	if creds.AccessToken == "" {
		return Credentials{}, ErrMissingAccessToken
	}
	if creds.DeviceID == "" {
		return Credentials{}, ErrMissingDeviceID
	}

	return creds, nil
}
