package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the checkout funnel.
type CheckoutMetrics struct {
	stepSubmissions *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	paymentOutcomes *prometheus.CounterVec
	orderSubmits    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	stepSubmissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_submissions_total",
		Help: "Step submissions by step and outcome.",
	}, []string{"step", "outcome"})
	stepDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_step_duration_seconds",
		Help:    "Duration of step submission handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	paymentOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_outcomes_total",
		Help: "Normalized payment outcomes by method and status.",
	}, []string{"method", "status"})
	orderSubmits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_order_submissions_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(stepSubmissions, stepDuration, paymentOutcomes, orderSubmits)
	return &CheckoutMetrics{
		stepSubmissions: stepSubmissions,
		stepDuration:    stepDuration,
		paymentOutcomes: paymentOutcomes,
		orderSubmits:    orderSubmits,
	}
}

// IncStepSubmission increments the submission counter for a step.
func (c *CheckoutMetrics) IncStepSubmission(step, outcome string) {
	if c == nil || c.stepSubmissions == nil {
		return
	}
	c.stepSubmissions.WithLabelValues(normalizeLabel(step), normalizeLabel(outcome)).Inc()
}

// ObserveStepDuration records how long a step submission took.
func (c *CheckoutMetrics) ObserveStepDuration(step string, duration time.Duration) {
	if c == nil || c.stepDuration == nil {
		return
	}
	c.stepDuration.WithLabelValues(normalizeLabel(step)).Observe(duration.Seconds())
}

// IncPaymentOutcome increments the outcome counter for a payment method.
func (c *CheckoutMetrics) IncPaymentOutcome(method, status string) {
	if c == nil || c.paymentOutcomes == nil {
		return
	}
	c.paymentOutcomes.WithLabelValues(normalizeLabel(method), normalizeLabel(status)).Inc()
}

// IncOrderSubmission increments the order submission counter.
func (c *CheckoutMetrics) IncOrderSubmission(outcome string) {
	if c == nil || c.orderSubmits == nil {
		return
	}
	c.orderSubmits.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
