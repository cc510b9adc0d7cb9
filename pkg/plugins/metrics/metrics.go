// Package metrics provides the bundled Prometheus plugin. It counts calls
// by outcome and records their duration per dispatcher and handler.
package metrics

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arthur-debert/switchboard/pkg/errors"
	"github.com/arthur-debert/switchboard/pkg/plugin"
	"github.com/arthur-debert/switchboard/pkg/types"
)

const (
	// FactoryName is the name the plugin is registered under
	FactoryName = "metrics"
	// DefaultNamespace prefixes every metric name
	DefaultNamespace = "switchboard"
)

// Call outcomes used as the status label
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusPanic = "panic"
)

type settings struct {
	Namespace string    `setting:"namespace"`
	Enabled   bool      `setting:"enabled"`
	Buckets   []float64 `setting:"buckets"`
}

// Plugin is the metrics plugin
type Plugin struct {
	*plugin.Base

	registry *prometheus.Registry

	callsTotal   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// New creates a metrics plugin. Settings:
//
//	namespace   metric name prefix (default "switchboard")
//	registerer  prometheus.Registerer to register with (default a private registry)
//	buckets     histogram buckets in seconds
//	enabled     per-handler switch (default true)
func New(name string, s map[string]any) (*Plugin, error) {
	if name == "" {
		name = FactoryName
	}

	var reg prometheus.Registerer
	rest := make(map[string]any, len(s))
	for k, v := range s {
		if k != "registerer" {
			rest[k] = v
			continue
		}
		r, ok := v.(prometheus.Registerer)
		if !ok || r == nil {
			return nil, errors.Newf(errors.ErrConfigValid, "plugin %s: registerer must be a prometheus.Registerer, got %T", name, v)
		}
		reg = r
	}

	p := &Plugin{
		Base: plugin.NewBase(name, map[string]any{
			"namespace": DefaultNamespace,
			"enabled":   true,
		}),
	}
	if err := p.UpdateSettings(rest); err != nil {
		return nil, err
	}
	global, err := p.settingsFor("")
	if err != nil {
		return nil, err
	}
	if reg == nil {
		p.registry = prometheus.NewRegistry()
		reg = p.registry
	}
	if err := p.register(reg, global); err != nil {
		return nil, err
	}
	return p, nil
}

// Factory builds a metrics plugin
func Factory(name string, s map[string]any) (plugin.Plugin, error) {
	return New(name, s)
}

func (p *Plugin) settingsFor(handler string) (settings, error) {
	var s settings
	if err := plugin.Decode(p.Config(handler), &s); err != nil {
		return s, err
	}
	return s, nil
}

func (p *Plugin) register(reg prometheus.Registerer, s settings) error {
	buckets := s.Buckets
	if len(buckets) == 0 {
		buckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	}

	p.callsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: s.Namespace,
		Name:      "calls_total",
		Help:      "Handler calls by outcome",
	}, []string{"dispatcher", "handler", "status"})

	p.errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: s.Namespace,
		Name:      "errors_total",
		Help:      "Failed handler calls by error code",
	}, []string{"dispatcher", "handler", "code"})

	p.callDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: s.Namespace,
		Name:      "call_duration_seconds",
		Help:      "Time spent in handler calls",
		Buckets:   buckets,
	}, []string{"dispatcher", "handler"})

	var err error
	if p.callsTotal, err = registerOrReuse(reg, p.callsTotal); err != nil {
		return err
	}
	if p.errorsTotal, err = registerOrReuse(reg, p.errorsTotal); err != nil {
		return err
	}
	if p.callDuration, err = registerOrReuse(reg, p.callDuration); err != nil {
		return err
	}
	return nil
}

// registerOrReuse registers c, or returns the identical collector that a
// plugin on another dispatcher already registered
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if stderrors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, errors.ErrConfigValid, "failed to register metrics")
	}
	return c, nil
}

// Gatherer returns the plugin's private registry, or nil when metrics
// were registered with a caller-supplied registerer
func (p *Plugin) Gatherer() prometheus.Gatherer {
	if p.registry == nil {
		return nil
	}
	return p.registry
}

// Calls returns the call counter
func (p *Plugin) Calls() *prometheus.CounterVec { return p.callsTotal }

// Errors returns the error counter
func (p *Plugin) Errors() *prometheus.CounterVec { return p.errorsTotal }

// Durations returns the call duration histogram
func (p *Plugin) Durations() *prometheus.HistogramVec { return p.callDuration }

// WrapHandler observes every call to entry
func (p *Plugin) WrapHandler(host plugin.Host, entry *types.Entry, next types.Func) types.Func {
	s, err := p.settingsFor(entry.Name())
	if err != nil || !s.Enabled {
		return next
	}

	dispatcher, handler := host.Name(), entry.Name()

	return func(call types.Call) (result any, err error) {
		start := time.Now()
		completed := false
		defer func() {
			p.callDuration.WithLabelValues(dispatcher, handler).Observe(time.Since(start).Seconds())
			if !completed {
				p.callsTotal.WithLabelValues(dispatcher, handler, StatusPanic).Inc()
				p.errorsTotal.WithLabelValues(dispatcher, handler, "PANIC").Inc()
			}
		}()

		result, err = next(call)
		completed = true
		if err != nil {
			p.callsTotal.WithLabelValues(dispatcher, handler, StatusError).Inc()
			p.errorsTotal.WithLabelValues(dispatcher, handler, string(errors.GetErrorCode(err))).Inc()
			return result, err
		}
		p.callsTotal.WithLabelValues(dispatcher, handler, StatusOK).Inc()
		return result, nil
	}
}

func init() {
	plugin.MustRegister(plugin.Registration{
		Name:    FactoryName,
		Factory: Factory,
		Summary: "Count handler calls and record their duration in Prometheus",
		Doc: fmt.Sprintf(`# metrics

Exposes, per dispatcher and handler:

- `+"`%[1]s_calls_total{status}`"+`: ok, error or panic
- `+"`%[1]s_errors_total{code}`"+`: failures by error code
- `+"`%[1]s_call_duration_seconds`"+`: call latency histogram

## Settings

- **namespace**: metric prefix (default `+"`%[1]s`"+`)
- **registerer**: Prometheus registerer; a private registry is used otherwise
- **buckets**: histogram buckets in seconds
- **enabled**: observe the handler (default true)
`, DefaultNamespace),
	})
}
