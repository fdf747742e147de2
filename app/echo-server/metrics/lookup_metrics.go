package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LookupDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flag_lookup_latency_seconds",
		Help:    "Latency of flag query endpoints",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	LookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flag_lookup_total",
		Help: "Flag query requests by route and status code",
	}, []string{"route", "code"})
)

func Init() {
	prometheus.MustRegister(LookupDuration, LookupTotal)
}

// Instrument records latency and status code per matched route.
func Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			route := c.Path()
			LookupDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			LookupTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
