package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "cosmic_http_requests_total"
	MetricNameHTTPRequestDuration  = "cosmic_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "cosmic_http_requests_in_flight"
)

// Session metric names
const (
	MetricNameActiveSessions      = "cosmic_active_sessions"
	MetricNameSpectators          = "cosmic_spectators"
	MetricNameSavesTotal          = "cosmic_saves_total"
	MetricNameSaveErrors          = "cosmic_save_errors_total"
	MetricNameAdvanceDuration     = "cosmic_advance_duration_seconds"
	MetricNameSpectatorDropped    = "cosmic_spectator_updates_dropped_total"
	MetricNameOfflineSecondsTotal = "cosmic_offline_seconds_capped_total"
)

// Gameplay metric names
const (
	MetricNameClicksTotal          = "cosmic_clicks_total"
	MetricNameUpgradesBought       = "cosmic_upgrades_bought_total"
	MetricNamePrestigeBought       = "cosmic_prestige_upgrades_bought_total"
	MetricNameEpochAdvances        = "cosmic_epoch_advances_total"
	MetricNameEventsStarted        = "cosmic_events_started_total"
	MetricNameAchievementsUnlocked = "cosmic_achievements_unlocked_total"
	MetricNameCollapses            = "cosmic_collapses_total"
	MetricNameEssenceGained        = "cosmic_essence_gained_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Session metric help text
const (
	HelpTextActiveSessions      = "Number of game sessions currently running"
	HelpTextSpectators          = "Number of connected spectators"
	HelpTextSavesTotal          = "Total number of successful saves"
	HelpTextSaveErrors          = "Total number of failed saves"
	HelpTextAdvanceDuration     = "Time spent driving timers for one session step"
	HelpTextSpectatorDropped    = "Total number of state updates dropped for slow spectators"
	HelpTextOfflineSecondsTotal = "Total idle seconds discarded by the offline cap"
)

// Gameplay metric help text
const (
	HelpTextClicksTotal          = "Total number of clicks"
	HelpTextUpgradesBought       = "Total number of production upgrades bought"
	HelpTextPrestigeBought       = "Total number of prestige upgrades bought"
	HelpTextEpochAdvances        = "Total number of epoch advances"
	HelpTextEventsStarted        = "Total number of random events started"
	HelpTextAchievementsUnlocked = "Total number of achievements unlocked"
	HelpTextCollapses            = "Total number of universe collapses"
	HelpTextEssenceGained        = "Total cosmic essence gained from collapses"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelCritical    = "critical"
	LabelUpgrade     = "upgrade"
	LabelEpoch       = "epoch"
	LabelEvent       = "event"
	LabelAchievement = "achievement"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets ranges from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// AdvanceBuckets ranges from 10µs to 100ms.
var AdvanceBuckets = []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1}
