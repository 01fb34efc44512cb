// Package metrics records request counters and timings through the global
// go-metrics collector and exposes them in Prometheus format.
package metrics

import (
	"net/http"
	"sync"
	"time"

	gometrics "github.com/armon/go-metrics"
	"github.com/armon/go-metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "exercise_tracker"

var (
	initOnce sync.Once
	initErr  error
)

// Initialize installs a Prometheus sink as the global go-metrics collector.
// Later calls return the first call's result.
func Initialize() error {
	initOnce.Do(func() {
		sink, err := prometheus.NewPrometheusSink()
		if err != nil {
			initErr = err
			return
		}
		conf := gometrics.DefaultConfig(serviceName)
		conf.EnableHostname = false
		conf.EnableRuntimeMetrics = false
		if _, err := gometrics.NewGlobal(conf, sink); err != nil {
			initErr = err
		}
	})
	return initErr
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncrCounter(name []string, val float32, labels ...gometrics.Label) {
	gometrics.IncrCounterWithLabels(name, val, labels)
}

func MeasureSince(name []string, start time.Time, labels ...gometrics.Label) {
	gometrics.MeasureSinceWithLabels(name, start, labels)
}

func Label(name, value string) gometrics.Label {
	return gometrics.Label{Name: name, Value: value}
}
