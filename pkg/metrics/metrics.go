package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docugrade", Name: "auth_attempts_total", Help: "Number of register/login attempts by operation and result."},
		[]string{"op", "result"},
	)
	FilesUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docugrade", Name: "files_uploaded_total", Help: "Number of files accepted by the upload endpoint."},
	)
	FileDownloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docugrade", Name: "file_downloads_total", Help: "Number of download attempts by outcome."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docugrade", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docugrade", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(FilesUploaded)
	reg.MustRegister(FileDownloads)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
