package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/speedwagon-io/stationfeed/internal/config"
	"github.com/speedwagon-io/stationfeed/internal/lib/logger/sl"
	"github.com/speedwagon-io/stationfeed/internal/model"
)

var (
	ErrTransport = errors.New("station API request failed")
	ErrStatus    = errors.New("station API returned an error status")
	ErrDecode    = errors.New("failed to decode station API response")
)

type NetatmoAdapter struct {
	log    *slog.Logger
	url    string
	client *resty.Client
}

// NewNetatmoAdapter builds a client for the getstationsdata endpoint. The
// client has no timeout and no retries; the request is bounded by the
// caller's context only.
func NewNetatmoAdapter(log *slog.Logger, url string) *NetatmoAdapter {
	return &NetatmoAdapter{
		log: log,
		url: url,
		client: resty.New().
			SetRetryCount(0).
			SetLogger(restyLogger{log: log}),
	}
}

func (a *NetatmoAdapter) Name() string {
	return "netatmo"
}

func (a *NetatmoAdapter) Close() error {
	a.client.GetClient().CloseIdleConnections()
	return nil
}

// Collect performs one GET. Every failure is logged here and returned as a
// nil response plus an error wrapping ErrTransport, ErrStatus or ErrDecode.
func (a *NetatmoAdapter) Collect(ctx context.Context, creds config.Credentials) (*model.StationsResponse, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(creds.AccessToken).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"device_id":     creds.DeviceID,
			"get_favorites": "false",
		}).
		Get(a.url)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrTransport, err)
		a.log.Error("failed to fetch station data", sl.Err(err))
		return nil, err
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("%w: %s%s", ErrStatus, resp.Status(), apiErrorSuffix(resp.Body()))
		a.log.Error("failed to fetch station data",
			slog.Int("status", resp.StatusCode()),
			sl.Err(err),
		)
		return nil, err
	}

	var data model.StationsResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		err = fmt.Errorf("%w: %w", ErrDecode, err)
		a.log.Error("failed to decode station data", sl.Err(err))
		return nil, err
	}

	a.log.Debug("station data fetched",
		slog.String("status", data.Status),
		slog.Int("bytes", len(resp.Body())),
	)

	return &data, nil
}

// apiErrorSuffix pulls error.message out of an error body when there is one.
func apiErrorSuffix(body []byte) string {
	var payload model.StationsResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == nil {
		return ""
	}
	return fmt.Sprintf(" (code %d: %s)", payload.Error.Code, payload.Error.Message)
}

// restyLogger routes resty's own diagnostics into slog.
type restyLogger struct {
	log *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...), slog.String("component", "resty"))
}
