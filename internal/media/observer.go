package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for store operations.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes uint64, err error)
	RecordDelete(duration time.Duration, err error)
	RecordRejected(reason string)
}

type PrometheusObserver struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	bytes    prometheus.Counter
	rejected *prometheus.CounterVec
}

// NewPrometheusObserver registers the media metrics on reg. Collectors that
// are already registered are reused.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "media_store"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of media store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed media store operations.",
		}, []string{"operation"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Cumulative size of successfully stored uploads.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_files_total",
			Help:      "Uploads skipped before reaching the store.",
		}, []string{"reason"}),
	}

	var err error
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	if o.errors, err = register(reg, o.errors); err != nil {
		return nil, err
	}
	if o.bytes, err = register(reg, o.bytes); err != nil {
		return nil, err
	}
	if o.rejected, err = register(reg, o.rejected); err != nil {
		return nil, err
	}
	return o, nil
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor so samples keep reaching the exported series.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("register media metric: %w", err)
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, sizeBytes uint64, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues("upload").Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues("upload").Inc()
		return
	}
	o.bytes.Add(float64(sizeBytes))
}

func (o *PrometheusObserver) RecordDelete(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues("delete").Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues("delete").Inc()
	}
}

func (o *PrometheusObserver) RecordRejected(reason string) {
	if o == nil {
		return
	}
	o.rejected.WithLabelValues(reason).Inc()
}

type nopObserver struct{}

func (nopObserver) RecordUpload(time.Duration, uint64, error) {}
func (nopObserver) RecordDelete(time.Duration, error)         {}
func (nopObserver) RecordRejected(string)                     {}

// NopObserver discards all telemetry.
func NopObserver() Observer { return nopObserver{} }

type observedStore struct {
	Store
	observer Observer
}

// Observe wraps s so that saves and deletes are reported to o.
func Observe(s Store, o Observer) Store {
	if o == nil {
		return s
	}
	return &observedStore{Store: s, observer: o}
}

func (s *observedStore) Save(ctx context.Context, data []byte, originalFilename, mimeType, folder string) (string, error) {
	start := time.Now()
	url, err := s.Store.Save(ctx, data, originalFilename, mimeType, folder)
	s.observer.RecordUpload(time.Since(start), uint64(len(data)), err)
	return url, err
}

func (s *observedStore) Delete(ctx context.Context, url string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, url)
	s.observer.RecordDelete(time.Since(start), err)
	return err
}
