package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vortexhttp/vortex/pkg/vortex/pool"
)

// PoolCollector is a pull-based prometheus.Collector reading live
// gauges off a connection pool and buffer pool at scrape time, rather
// than updating promauto gauges on every Get/Put/Acquire — mirroring
// shockwave's PrometheusCollector.Collect, which re-reads pool state
// on each call instead of maintaining its own counters.
type PoolCollector struct {
	conns *pool.ConnectionPool
	bufs  *pool.BufferPool

	activeDesc  *prometheus.Desc
	maxDesc     *prometheus.Desc
	inUseDesc   *prometheus.Desc
	peakDesc    *prometheus.Desc
	getsDesc    *prometheus.Desc
	putsDesc    *prometheus.Desc
}

// NewPoolCollector returns a collector over the given pools. Either may
// be nil to report only the other.
func NewPoolCollector(conns *pool.ConnectionPool, bufs *pool.BufferPool) *PoolCollector {
	return &PoolCollector{
		conns: conns,
		bufs:  bufs,
		activeDesc: prometheus.NewDesc(
			namespace+"_pool_connections_active", "Currently admitted connections.", nil, nil),
		maxDesc: prometheus.NewDesc(
			namespace+"_pool_connections_max", "Maximum admitted connections.", nil, nil),
		inUseDesc: prometheus.NewDesc(
			namespace+"_pool_buffers_in_use", "Buffers currently checked out of the buffer pool.", nil, nil),
		peakDesc: prometheus.NewDesc(
			namespace+"_pool_buffers_peak", "High-water mark of buffers checked out at once.", nil, nil),
		getsDesc: prometheus.NewDesc(
			namespace+"_pool_buffer_gets_total", "Total buffer pool Get calls.", nil, nil),
		putsDesc: prometheus.NewDesc(
			namespace+"_pool_buffer_puts_total", "Total buffer pool Put calls.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeDesc
	ch <- c.maxDesc
	ch <- c.inUseDesc
	ch <- c.peakDesc
	ch <- c.getsDesc
	ch <- c.putsDesc
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.conns != nil {
		ch <- prometheus.MustNewConstMetric(c.activeDesc, prometheus.GaugeValue, float64(c.conns.Active()))
		ch <- prometheus.MustNewConstMetric(c.maxDesc, prometheus.GaugeValue, float64(c.conns.Max()))
	}
	if c.bufs != nil {
		stats := c.bufs.Stats()
		ch <- prometheus.MustNewConstMetric(c.inUseDesc, prometheus.GaugeValue, float64(stats.InUse))
		ch <- prometheus.MustNewConstMetric(c.peakDesc, prometheus.GaugeValue, float64(stats.Peak))
		ch <- prometheus.MustNewConstMetric(c.getsDesc, prometheus.CounterValue, float64(stats.Gets))
		ch <- prometheus.MustNewConstMetric(c.putsDesc, prometheus.CounterValue, float64(stats.Puts))
	}
}
