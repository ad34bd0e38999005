package recordings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recfetch_api_requests_total",
		Help: "Requests sent to the recordings API, by endpoint and HTTP status (or \"error\").",
	}, []string{"endpoint", "code"})

	downloadBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recfetch_download_bytes_total",
		Help: "Recording bytes received through signed URLs, by media kind (file|raw).",
	}, []string{"kind"})
)
