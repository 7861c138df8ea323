package mainboilerplate

import (
	_ "expvar" // Import for /debug/vars
	"net/http"
	_ "net/http/pprof" // Import for /debug/pprof

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// DiagnosticsConfig configures pull-based application metrics, debugging
// and diagnostics.
type DiagnosticsConfig struct {
	Port string `long:"port" env:"PORT" description:"Port to serve debug endpoints (metrics, pprof). Disabled if not set"`
}

// InitDiagnostics enables serving of metrics and debugging services over
// the configured port, for monitoring of long batch runs. It's a no-op
// if no port is configured.
func InitDiagnostics(cfg DiagnosticsConfig) {
	if cfg.Port == "" {
		return
	}

	// Package "net/http/pprof" serves /debug/pprof/.
	// Package "expvar" serves /debug/vars

	// Serve Prometheus metrics at /debug/metrics.
	http.Handle("/debug/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
			log.WithField("err", err).Warn("failed to serve diagnostics")
		}
	}()
}

// Must panics if |err| is non-nil, supplying |msg| and |extra| as
// formatter and fields of the generated panic.
func Must(err error, msg string, extra ...interface{}) {
	if err == nil {
		return
	}
	var f = log.Fields{"err": err}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	log.WithFields(f).Panic(msg)
}
