// Package setup selects and installs the process-wide metrics backend.
package setup

import (
	"fmt"
	"strings"

	"vendoretl/internal/metrics"
	"vendoretl/internal/metrics/datadog"
	"vendoretl/internal/metrics/prompush"
)

// Backend names accepted by Install.
const (
	None        = "none"
	Pushgateway = "pushgateway"
	Datadog     = "datadog"
)

// Options configures Install.
type Options struct {
	Backend        string // none, pushgateway, datadog
	Job            string // job label / Pushgateway group
	PushgatewayURL string
	DatadogAddr    string
}

// Install builds the configured backend and installs it with
// metrics.SetBackend. An empty or "none" backend leaves the no-op default.
func Install(opt Options) error {
	switch strings.ToLower(strings.TrimSpace(opt.Backend)) {
	case "", None:
		return nil
	case Pushgateway:
		b, err := prompush.NewBackend(opt.Job, opt.PushgatewayURL)
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	case Datadog:
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       opt.DatadogAddr,
			Namespace:  "vendoretl.",
			GlobalTags: []string{"job:" + opt.Job},
		})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	default:
		return fmt.Errorf("metrics: unknown backend %q", opt.Backend)
	}
}
