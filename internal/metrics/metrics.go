package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	submissions    *prometheus.CounterVec
	submitLatency  prometheus.Histogram
	slotLookups    *prometheus.CounterVec
	sessionsOpened prometheus.Counter
	emails         *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "submit_latency_seconds",
			Help:      "Latency of the submission transaction",
			Buckets:   prometheus.DefBuckets,
		}),
		slotLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "availability",
			Name:      "slot_lookups_total",
			Help:      "Time slot lookups by stylist scope",
		}, []string{"scope"}),
		sessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "sessions_opened_total",
			Help:      "Booking wizard sessions opened",
		}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "notify",
			Name:      "confirmation_emails_total",
			Help:      "Confirmation emails by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.submitLatency, m.slotLookups, m.sessionsOpened, m.emails)
	return m
}

// ObserveSubmission records one submission outcome ("confirmed", "slot_taken", "invalid", "failed").
func (m *BookingMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.submitLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveSlotLookup(anyStylist bool) {
	if m == nil {
		return
	}
	scope := "stylist"
	if anyStylist {
		scope = "any"
	}
	m.slotLookups.WithLabelValues(scope).Inc()
}

func (m *BookingMetrics) ObserveSessionOpened() {
	if m == nil {
		return
	}
	m.sessionsOpened.Inc()
}

func (m *BookingMetrics) ObserveEmail(status string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(status).Inc()
}
