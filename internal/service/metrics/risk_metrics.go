package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    // Endpoint latency is recorded by the HTTP metrics middleware; this
    // package only tracks domain-level error counts.
    RiskErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "risklens",
            Subsystem: "risk",
            Name:      "errors_total",
            Help:      "Errors by risk endpoint",
        },
        []string{"endpoint"},
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(RiskErrors)
    })
}


