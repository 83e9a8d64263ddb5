// Package metrics регистрирует счётчики Prometheus, отдаваемые
// обработчиком /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestsResolved считает решения администратора по заявкам в разрезе
// процесса и исхода.
var RequestsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aitaskify_requests_resolved_total",
	Help: "Admin decisions on workflow requests by workflow and outcome.",
}, []string{"workflow", "outcome"})
