package collector

import (
	"context"

	"github.com/speedwagon-io/stationfeed/internal/config"
	"github.com/speedwagon-io/stationfeed/internal/model"
)

// Collector fetches one raw stations payload. Implementations make a single
// attempt per call.
type Collector interface {
	Collect(ctx context.Context, creds config.Credentials) (*model.StationsResponse, error)
	Name() string
	Close() error
}
