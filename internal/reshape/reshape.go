// Package reshape flattens a getstationsdata payload into one record per
// device and per module.
package reshape

import (
	"errors"
	"fmt"

	"github.com/speedwagon-io/stationfeed/internal/model"
)

const (
	DefaultDeviceName = "Main Device"
	DefaultModuleName = "Unknown Module"
)

var (
	ErrNoDevices = errors.New("invalid data format or no devices found")
	ErrMissingID = errors.New("record without _id")
)

// excluded holds the dashboard fields dropped from every record: the
// timestamp plus the min/max and trend fields.
var excluded = map[string]struct{}{
	"time_utc":       {},
	"min_temp":       {},
	"max_temp":       {},
	"date_min_temp":  {},
	"date_max_temp":  {},
	"temp_trend":     {},
	"pressure_trend": {},
}

func Excluded(key string) bool {
	_, ok := excluded[key]
	return ok
}

// Reshape returns ErrNoDevices when the payload has no body.devices list.
// Modules become top-level siblings of their device, keyed by their own id.
func Reshape(resp *model.StationsResponse) (*model.SensorMap, error) {
	if resp == nil || resp.Body == nil || resp.Body.Devices == nil {
		return nil, ErrNoDevices
	}

	out := model.NewSensorMap()
	for i, dev := range resp.Body.Devices {
		if dev.ID == "" {
			return nil, fmt.Errorf("device %d: %w", i, ErrMissingID)
		}
		out.Put(record(dev.ID, dev.StationName, DefaultDeviceName, dev.DashboardData))

		for j, mod := range dev.Modules {
			if mod.ID == "" {
				return nil, fmt.Errorf("device %s module %d: %w", dev.ID, j, ErrMissingID)
			}
			out.Put(record(mod.ID, mod.ModuleName, DefaultModuleName, mod.DashboardData))
		}
	}

	return out, nil
}

func record(id string, name *string, defaultName string, dashboard *model.Readings) model.SensorRecord {
	rec := model.SensorRecord{
		ID:       id,
		Name:     defaultName,
		Readings: model.NewReadings(),
	}
	if name != nil {
		rec.Name = *name
	}
	if dashboard == nil {
		return rec
	}

	for key, v := range dashboard.All() {
		if Excluded(key) {
			continue
		}
		rec.Readings.Set(key, v)
	}
	return rec
}
