package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the verification pipeline.
type Metrics struct {
	ChallengesIssued     prometheus.Counter
	CompletionAttempts   *prometheus.CounterVec
	ChannelMatches       *prometheus.CounterVec
	RequirementFailures  *prometheus.CounterVec
	DocumentsSubmitted   *prometheus.CounterVec
	OverallScore         prometheus.Histogram
	CompleteDurationMs   prometheus.Histogram
	OwnershipDurationMs  prometheus.Histogram
	SignalFetchErrors    prometheus.Counter
	ActiveSessions       prometheus.Gauge
	MentorPromotions     prometheus.Counter
}

// New registers collectors with the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers verification collectors with the given registerer.
// Tests pass a fresh registry so suites do not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChallengesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "mentorgate_challenges_issued_total",
			Help: "Total number of ownership challenges issued",
		}),
		CompletionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorgate_completion_attempts_total",
			Help: "Total completion attempts by resulting status",
		}, []string{"status"}),
		ChannelMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorgate_channel_matches_total",
			Help: "Total challenge code matches by proof channel",
		}, []string{"channel"}),
		RequirementFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorgate_requirement_failures_total",
			Help: "Total minimum requirement failures by requirement",
		}, []string{"requirement"}),
		DocumentsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mentorgate_documents_submitted_total",
			Help: "Total documents submitted by type and verdict",
		}, []string{"type", "verdict"}),
		OverallScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mentorgate_overall_score",
			Help:    "Distribution of overall confidence scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		CompleteDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mentorgate_complete_duration_ms",
			Help:    "Duration of challenge completion in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		OwnershipDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mentorgate_ownership_duration_ms",
			Help:    "Duration of ownership channel checks in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		SignalFetchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "mentorgate_signal_fetch_errors_total",
			Help: "Total failures fetching profile signals",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mentorgate_active_challenge_sessions",
			Help: "Outstanding challenge sessions, sampled from the session store",
		}),
		MentorPromotions: factory.NewCounter(prometheus.CounterOpts{
			Name: "mentorgate_mentor_promotions_total",
			Help: "Total subjects promoted to mentor",
		}),
	}
}
