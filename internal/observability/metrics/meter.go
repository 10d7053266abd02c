// Copyright 2026 The Keygate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps the service meter. Instrument helpers return errors rather
// than panic so callers can decide whether a missing metric is fatal.
type Meter struct {
	meter metric.Meter
}

// New returns the service meter from the global provider. The provider and
// its exporters are configured by the runtime environment; when disabled a
// no-op meter is returned.
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{meter: otel.Meter("noop")}, nil
	}
	return &Meter{meter: otel.Meter(serviceName)}, nil
}

// Counter creates a monotonic int64 counter.
func (m *Meter) Counter(name, description string) (metric.Int64Counter, error) {
	c, err := m.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return c, nil
}

// Histogram creates a float64 histogram with the given unit.
func (m *Meter) Histogram(name, description, unit string) (metric.Float64Histogram, error) {
	h, err := m.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return h, nil
}

// Gauge creates an int64 up/down counter, used for in-flight style values.
func (m *Meter) Gauge(name, description string) (metric.Int64UpDownCounter, error) {
	g, err := m.meter.Int64UpDownCounter(name, metric.WithDescription(description))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %s: %w", name, err)
	}
	return g, nil
}
