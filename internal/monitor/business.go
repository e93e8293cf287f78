package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Business counters. They are usable before Init; Init only exposes them on /metrics.
var (
	UsersRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap24_users_registered_total",
		Help: "The total number of registered users",
	})

	OTPIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swap24_otp_issued_total",
		Help: "One-time codes issued, by channel and purpose",
	}, []string{"channel", "purpose"})

	OTPVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swap24_otp_verifications_total",
		Help: "OTP verification attempts, by channel and outcome",
	}, []string{"channel", "outcome"})

	SigninsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swap24_signins_total",
		Help: "Completed signins (tokens issued)",
	})

	TransactionsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swap24_transactions_recorded_total",
		Help: "Ledger entries appended, by transaction type",
	}, []string{"type"})

	AdValueNairaTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swap24_ad_value_naira_total",
		Help: "Naira value of ads mirrored from chain, by asset",
	}, []string{"asset"})

	RealtimeEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swap24_realtime_events_total",
		Help: "Realtime events published, by sink and result",
	}, []string{"sink", "result"})

	RealtimeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "swap24_realtime_connections",
		Help: "Open websocket connections",
	})
)

func registerBusinessMetrics() {
	prometheus.MustRegister(
		UsersRegisteredTotal,
		OTPIssuedTotal,
		OTPVerificationsTotal,
		SigninsTotal,
		TransactionsRecordedTotal,
		AdValueNairaTotal,
		RealtimeEventsTotal,
		RealtimeConnections,
	)
}
