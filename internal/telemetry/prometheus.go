package telemetry

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "chronosctl"

// Registry holds only the metrics of chronosctl, without the go runtime
// collectors of the default registry
var Registry = prometheus.NewRegistry()

var (
	mu               sync.Mutex
	counterMetricMap = map[string]prometheus.Counter{}
	gaugeMetricMap   = map[string]prometheus.Gauge{}
)

// metricKey identifies a metric by name and sorted label pairs, so the same
// name with the same labels is registered once
func metricKey(metric string, labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(metric)
	for _, key := range keys {
		b.WriteString("/" + key + ":" + labels[key])
	}
	return b.String()
}

// NewCounter returns the counter registered for metric and labels,
// registering it with Registry on first use
func NewCounter(metric string, labels map[string]string) prometheus.Counter {
	mu.Lock()
	defer mu.Unlock()

	key := metricKey(metric, labels)
	if _, ok := counterMetricMap[key]; !ok {
		counterMetricMap[key] = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        metric,
			ConstLabels: labels,
		})
	}
	return counterMetricMap[key]
}

func NewGauge(metric string, labels map[string]string) prometheus.Gauge {
	mu.Lock()
	defer mu.Unlock()

	key := metricKey(metric, labels)
	if _, ok := gaugeMetricMap[key]; !ok {
		gaugeMetricMap[key] = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        metric,
			ConstLabels: labels,
		})
	}
	return gaugeMetricMap[key]
}

// Push replaces the metrics of job in the pushgateway at url with the
// content of Registry. A nil client uses the default http client.
func Push(url, job string, grouping map[string]string, client push.HTTPDoer) error {
	pusher := push.New(url, job).Gatherer(Registry)
	for name, value := range grouping {
		pusher = pusher.Grouping(name, value)
	}
	if client != nil {
		pusher = pusher.Client(client)
	}
	return pusher.Push()
}

// WriteTextfile writes Registry in the text format to path, for the node
// exporter textfile collector
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
