package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/swoga/ddwrt-exporter/config"
)

var landingPage = template.Must(template.New("landing").Parse(`<html>
<head><title>DD-WRT Exporter</title></head>
<body>
<h1>DD-WRT Exporter</h1>
<p><a href="{{ . }}">Metrics</a></p>
</body>
</html>
`))

func newHandler(metricsPath string, registry *prometheus.Registry, reloadRequest chan<- chan error) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(metricsPath, promhttp.InstrumentMetricHandler(
		registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	))

	mux.HandleFunc("/-/reload", func(w http.ResponseWriter, r *http.Request) {
		reloadResult := make(chan error)
		select {
		case reloadRequest <- reloadResult:
		case <-r.Context().Done():
			return
		}
		err := <-reloadResult
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to reload config: %s", err), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = landingPage.Execute(w, metricsPath)
	})

	return mux
}

// reloadLoop reloads the config on SIGHUP or a request from /-/reload until
// ctx is done.
func reloadLoop(ctx context.Context, log zerolog.Logger, sc *config.SafeConfig, reloadRequest <-chan chan error) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case <-hup:
			log.Debug().Msg("config reload triggered by SIGHUP")
			err = sc.LoadConfig()
		case reloadResult := <-reloadRequest:
			log.Debug().Msg("config reload triggered by API")
			err = sc.LoadConfig()
			reloadResult <- err
		}
		if err != nil {
			log.Error().Err(err).Msg("error reloading config")
		} else {
			log.Info().Msg("reloaded config file")
		}
	}
}
