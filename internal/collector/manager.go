package collector

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/speedwagon-io/stationfeed/internal/config"
	"github.com/speedwagon-io/stationfeed/internal/lib/logger/sl"
	"github.com/speedwagon-io/stationfeed/internal/model"
	"github.com/speedwagon-io/stationfeed/internal/report"
	"github.com/speedwagon-io/stationfeed/internal/reshape"
)

// ErrNoData means the run produced nothing to report: the fetch failed or
// the payload had no devices.
var ErrNoData = errors.New("no sensor data available")

// Manager runs the fetch, reshape and report steps for a single invocation.
type Manager struct {
	log       *slog.Logger
	creds     config.Credentials
	collector Collector
	reporter  report.Reporter
}

func NewManager(
	log *slog.Logger,
	creds config.Credentials,
	collector Collector,
	reporter report.Reporter,
) *Manager {
	return &Manager{
		log:       log,
		creds:     creds,
		collector: collector,
		reporter:  reporter,
	}
}

// Collect fetches and reshapes once. A nil map means no data is available;
// the cause has already been logged. A payload with an empty device list
// counts as no data.
func (m *Manager) Collect(ctx context.Context) *model.SensorMap {
	log := m.log.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("collector", m.collector.Name()),
	)

	raw, err := m.collector.Collect(ctx, m.creds)
	if err != nil {
		log.Debug("collect returned no payload", sl.Err(err))
		return nil
	}

	sensors, err := reshape.Reshape(raw)
	if err != nil {
		log.Error("failed to reshape station data", sl.Err(err))
		return nil
	}
	if sensors.Len() == 0 {
		log.Warn("station data has no devices")
		return nil
	}

	log.Info("station data collected", slog.Int("sensors", sensors.Len()))
	return sensors
}

// Run collects once and hands the result to the reporter. It returns
// ErrNoData after reporting the failure when there was nothing to report.
func (m *Manager) Run(ctx context.Context) error {
	sensors := m.Collect(ctx)
	if sensors == nil || sensors.Len() == 0 {
		if err := m.reporter.Fail(ctx); err != nil {
			m.log.Error("failed to report failure", sl.Err(err))
		}
		return ErrNoData
	}

	return m.reporter.Report(ctx, sensors)
}

func (m *Manager) Stop() {
	if err := m.collector.Close(); err != nil {
		m.log.Error("failed to close collector", sl.Err(err))
	}
}
