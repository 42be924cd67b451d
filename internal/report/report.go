package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/speedwagon-io/stationfeed/internal/model"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	Header        = "Data received:"
	FailedMessage = "Failed to get sensor data."
)

type Reporter interface {
	Report(ctx context.Context, sensors *model.SensorMap) error
	// Fail reports that no data is available.
	Fail(ctx context.Context) error
}

// ParseFormat normalizes an output format name. An empty name means JSON.
func ParseFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// ContentType returns the media type served for a parsed format.
func ContentType(format string) string {
	if format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render serializes sensors in the given format with two-space indentation.
func Render(sensors *model.SensorMap, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if f == FormatJSON {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sensors); err != nil {
			return nil, fmt.Errorf("failed to marshal sensors: %w", err)
		}
		return buf.Bytes(), nil
	}

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(sensors); err != nil {
		return nil, fmt.Errorf("failed to marshal sensors: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal sensors: %w", err)
	}
	return []byte(sb.String()), nil
}

// WriterReporter prints the report to w, normally stdout.
type WriterReporter struct {
	w      io.Writer
	format string
	header bool
}

func NewWriterReporter(w io.Writer, format string, header bool) *WriterReporter {
	return &WriterReporter{w: w, format: format, header: header}
}

func (r *WriterReporter) Report(ctx context.Context, sensors *model.SensorMap) error {
	data, err := Render(sensors, r.format)
	if err != nil {
		return err
	}

	if r.header {
		if _, err := fmt.Fprintf(r.w, "%s\n\n", Header); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *WriterReporter) Fail(ctx context.Context) error {
	if _, err := fmt.Fprintln(r.w, FailedMessage); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// LogReporter logs the rendered report instead of printing it (dry-run).
type LogReporter struct {
	log    *slog.Logger
	format string
}

func NewLogReporter(log *slog.Logger, format string) *LogReporter {
	return &LogReporter{log: log, format: format}
}

func (r *LogReporter) Report(ctx context.Context, sensors *model.SensorMap) error {
	data, err := Render(sensors, r.format)
	if err != nil {
		return err
	}

	r.log.Info("REPORT",
		slog.Int("sensors", sensors.Len()),
		slog.String("payload", string(data)),
	)
	return nil
}

func (r *LogReporter) Fail(ctx context.Context) error {
	r.log.Warn(FailedMessage)
	return nil
}
