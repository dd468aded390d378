// Package metrics exposes Prometheus collectors for served sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Session Metrics
var (
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveSessions,
			Help: HelpTextActiveSessions,
		},
	)

	Spectators = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSpectators,
			Help: HelpTextSpectators,
		},
	)

	SavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSavesTotal,
			Help: HelpTextSavesTotal,
		},
	)

	SaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSaveErrors,
			Help: HelpTextSaveErrors,
		},
	)

	AdvanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameAdvanceDuration,
			Help:    HelpTextAdvanceDuration,
			Buckets: AdvanceBuckets,
		},
	)

	SpectatorDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSpectatorDropped,
			Help: HelpTextSpectatorDropped,
		},
	)

	OfflineSecondsCapped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOfflineSecondsTotal,
			Help: HelpTextOfflineSecondsTotal,
		},
	)
)

// Gameplay Metrics
var (
	ClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameClicksTotal,
			Help: HelpTextClicksTotal,
		},
		[]string{LabelCritical},
	)

	UpgradesBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpgradesBought,
			Help: HelpTextUpgradesBought,
		},
		[]string{LabelUpgrade},
	)

	PrestigeUpgradesBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePrestigeBought,
			Help: HelpTextPrestigeBought,
		},
		[]string{LabelUpgrade},
	)

	EpochAdvances = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEpochAdvances,
			Help: HelpTextEpochAdvances,
		},
		[]string{LabelEpoch},
	)

	EventsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsStarted,
			Help: HelpTextEventsStarted,
		},
		[]string{LabelEvent},
	)

	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAchievementsUnlocked,
			Help: HelpTextAchievementsUnlocked,
		},
		[]string{LabelAchievement},
	)

	Collapses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCollapses,
			Help: HelpTextCollapses,
		},
	)

	EssenceGained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEssenceGained,
			Help: HelpTextEssenceGained,
		},
	)
)
