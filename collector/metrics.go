package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/swoga/ddwrt-exporter/model"
)

// Metrics publishes facts as gauges on a registry. Values are only ever
// overwritten; interfaces that disappear keep their last value.
type Metrics struct {
	memoryTotal      prometheus.Gauge
	memoryAvailable  prometheus.Gauge
	memoryUsed       prometheus.Gauge
	memoryCached     prometheus.Gauge
	uptime           prometheus.Gauge
	loadAvg1m        prometheus.Gauge
	loadAvg5m        prometheus.Gauge
	loadAvg15m       prometheus.Gauge
	cpuUsage         prometheus.Gauge
	networkRxBytes   *prometheus.GaugeVec
	networkTxBytes   *prometheus.GaugeVec
	tcpConnections   prometheus.Gauge
	connectedDevices prometheus.Gauge

	collectSuccess     prometheus.Gauge
	collectDuration    prometheus.Gauge
	collectLastSuccess prometheus.Gauge
	collectCycles      prometheus.Counter
	collectFailures    prometheus.Counter
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	router := prometheus.WrapRegistererWithPrefix("router_", registry)
	exporter := prometheus.WrapRegistererWithPrefix("ddwrt_exporter_", registry)

	m := &Metrics{
		memoryTotal:      newGauge(router, "memory_total", "Total Memory in kB"),
		memoryAvailable:  newGauge(router, "memory_available", "Available Memory in kB"),
		memoryUsed:       newGauge(router, "memory_used", "Used Memory in kB"),
		memoryCached:     newGauge(router, "memory_cached", "Cached Memory in kB"),
		uptime:           newGauge(router, "uptime", "Router Uptime in Seconds"),
		loadAvg1m:        newGauge(router, "load_avg_1m", "Router Load Average (1 minute)"),
		loadAvg5m:        newGauge(router, "load_avg_5m", "Router Load Average (5 minutes)"),
		loadAvg15m:       newGauge(router, "load_avg_15m", "Router Load Average (15 minutes)"),
		cpuUsage:         newGauge(router, "cpu_usage", "CPU Usage Percentage"),
		tcpConnections:   newGauge(router, "tcp_connections", "Number of TCP Connections"),
		connectedDevices: newGauge(router, "connected_devices", "Number of Connected Devices"),

		collectSuccess:     newGauge(exporter, "collect_success", "Whether the last collection cycle succeeded"),
		collectDuration:    newGauge(exporter, "collect_duration_seconds", "How long the last collection cycle took"),
		collectLastSuccess: newGauge(exporter, "collect_last_success_timestamp_seconds", "When the last successful collection cycle finished"),
	}

	m.networkRxBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "network_rx_bytes",
		Help: "Received Network Bytes",
	}, []string{"interface"})
	router.MustRegister(m.networkRxBytes)
	m.networkTxBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "network_tx_bytes",
		Help: "Transmitted Network Bytes",
	}, []string{"interface"})
	router.MustRegister(m.networkTxBytes)

	m.collectCycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collect_cycles_total",
		Help: "Number of collection cycles run",
	})
	exporter.MustRegister(m.collectCycles)
	m.collectFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collect_failures_total",
		Help: "Number of collection cycles that failed",
	})
	exporter.MustRegister(m.collectFailures)

	return m
}

func newGauge(registry prometheus.Registerer, name string, help string) prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	registry.MustRegister(gauge)
	return gauge
}

func (m *Metrics) Publish(facts model.Facts) {
	// Memory
	m.memoryTotal.Set(float64(facts.Memory.TotalKB))
	m.memoryAvailable.Set(float64(facts.Memory.AvailableKB))
	m.memoryUsed.Set(float64(facts.Memory.UsedKB()))
	m.memoryCached.Set(float64(facts.Memory.CachedKB))

	m.uptime.Set(facts.Uptime)

	// Load
	m.loadAvg1m.Set(facts.Load.Load1)
	m.loadAvg5m.Set(facts.Load.Load5)
	m.loadAvg15m.Set(facts.Load.Load15)

	m.cpuUsage.Set(facts.CPUUsage)

	// Network
	for name, counter := range facts.Interfaces {
		m.networkRxBytes.WithLabelValues(name).Set(float64(counter.RxBytes))
		m.networkTxBytes.WithLabelValues(name).Set(float64(counter.TxBytes))
	}
	m.tcpConnections.Set(float64(facts.TCPConnections))
	m.connectedDevices.Set(float64(facts.Neighbors.ConnectedDevices()))
}

func (m *Metrics) ObserveCycle(report Report) {
	m.collectCycles.Inc()
	m.collectDuration.Set(report.Duration.Seconds())

	if !report.Success() {
		m.collectSuccess.Set(0)
		m.collectFailures.Inc()
		return
	}
	m.collectSuccess.Set(1)
	finished := report.Started.Add(report.Duration)
	m.collectLastSuccess.Set(float64(finished.UnixNano()) / 1e9)
}
