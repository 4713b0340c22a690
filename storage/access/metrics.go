package access

import (
	"strconv"

	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
)

const metricsJob = "eggie_seqdb"

type MetricsHelper struct {
	registry *prometheus.Registry

	QueryCounter  *prometheus.CounterVec // 按访问方法、查询方式统计的查询数
	HitCounter    *prometheus.CounterVec // 索引命中数
	RecordCounter *prometheus.CounterVec // 实际解码返回的记录数
	ErrorCounter  *prometheus.CounterVec // 按错误码统计
}

func NewMetricsHelper() *MetricsHelper {
	m := &MetricsHelper{
		registry: prometheus.NewRegistry(),
		QueryCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eggie_seqdb_queries_total",
		}, []string{"method", "mode"}),
		HitCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eggie_seqdb_hits_total",
		}, []string{"method"}),
		RecordCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eggie_seqdb_records_total",
		}, []string{"method"}),
		ErrorCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eggie_seqdb_errors_total",
		}, []string{"code"}),
	}
	m.registry.MustRegister(
		m.QueryCounter,
		m.HitCounter,
		m.RecordCounter,
		m.ErrorCounter,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *MetricsHelper) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsHelper) countError(err error) {
	m.ErrorCounter.WithLabelValues(strconv.FormatInt(errs.GetCode(err), 10)).Inc()
}

// Push 把当前指标推送到 pushgateway
func (m *MetricsHelper) Push(url string) error {
	return push.New(url, metricsJob).Gatherer(m.registry).Add()
}
