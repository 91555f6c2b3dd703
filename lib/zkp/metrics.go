package zkp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zkauth_challenges_issued_total",
		Help: "The total number of challenges issued",
	})

	// result is one of success, failure, missing or corrupt. Only operators
	// get to see the difference, callers get a bool.
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zkauth_verifications_total",
		Help: "The total number of proofs verified, by result",
	}, []string{"result"})

	storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zkauth_store_errors_total",
		Help: "The total number of challenge store failures, by operation",
	}, []string{"op"})

	timeToVerify = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zkauth_time_to_verify_seconds",
		Help:    "Time between issuing a challenge and successfully verifying its proof",
		Buckets: prometheus.ExponentialBucketsRange(0.01, 120, 12),
	})
)
