package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QRIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bus_qr_issued_total",
		Help: "QR tickets generated or regenerated",
	})
	QRVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bus_qr_verifications_total",
		Help: "QR scans by outcome",
	}, []string{"result"})
	QRExpiredSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bus_qr_expired_swept_total",
		Help: "QR tickets expired by the periodic sweep",
	})
	ScheduleRollover = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bus_schedule_rollover_total",
		Help: "Schedules handled by the daily rollover by outcome",
	}, []string{"outcome"})
	RolloverDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bus_schedule_rollover_duration_seconds",
		Help:    "Time taken by one rollover sweep",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
	PaymentWebhooks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bus_payment_webhooks_total",
		Help: "Payment gateway callbacks by reported status",
	}, []string{"status"})
	PaymentLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bus_payment_links_total",
		Help: "Payment link requests by result",
	}, []string{"result"})
	// OrphanReferences is set to the counts of the latest integrity report.
	OrphanReferences = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bus_orphan_references",
		Help: "Records currently pointing at a missing bus",
	}, []string{"kind"})
	RolloverMissingBus = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bus_schedule_rollover_missing_bus_total",
		Help: "Schedules rolled over without a readable bus",
	})
)
