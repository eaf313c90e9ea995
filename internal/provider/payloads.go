package provider

// Raw provider payloads. The upstream API is loosely typed and omits fields
// freely, so everything optional is a pointer: nil means the key was absent,
// which the mappers must distinguish from an explicit zero.

// ActivityPayload is one entry from the activity list endpoint.
type ActivityPayload struct {
	ActivityID            *int64        `json:"activityId"`
	LocationName          *string       `json:"locationName"`
	StartTimeLocal        *string       `json:"startTimeLocal"`
	ActivityType          *ActivityType `json:"activityType"`
	Distance              *float64      `json:"distance"`
	Duration              *float64      `json:"duration"`
	AverageSpeed          *float64      `json:"averageSpeed"`
	MaxSpeed              *float64      `json:"maxSpeed"`
	Calories              *float64      `json:"calories"`
	AverageHR             *float64      `json:"averageHR"`
	MaxHR                 *float64      `json:"maxHR"`
	Steps                 *int          `json:"steps"`
	AerobicTrainingEffect *float64      `json:"aerobicTrainingEffect"`
	ActivityTrainingLoad  *float64      `json:"activityTrainingLoad"`
	VO2MaxValue           *float64      `json:"vO2MaxValue"`
}

type ActivityType struct {
	TypeKey *string `json:"typeKey"`
}

// SummaryPayload is the daily user summary. It doubles as the sleep
// fallback source when sleep data is privacy protected, so it embeds the
// legacy sleep field variants alongside the health fields.
type SummaryPayload struct {
	PrivacyProtected        bool `json:"privacyProtected"`
	AverageStressLevel      *int `json:"averageStressLevel"`
	MaxStressLevel          *int `json:"maxStressLevel"`
	TotalSteps              *int `json:"totalSteps"`
	BodyBatteryChargedValue *int `json:"bodyBatteryChargedValue"`
	BodyBatteryDrainedValue *int `json:"bodyBatteryDrainedValue"`
	SleepFields
}

// HeartRatePayload carries the intraday heart rate series.
type HeartRatePayload struct {
	HeartRateValues []HeartRateSample `json:"heartRateValues"`
}

// HeartRateSample is one intraday sample; Value is nil for gaps in the
// series (watch off-wrist).
type HeartRateSample struct {
	Value *float64 `json:"value"`
}

// RestingHeartRate is one entry of the resting-heart-rate metric series.
// The daily resting value carries metric id 60.
type RestingHeartRate struct {
	MetricID int      `json:"metricId"`
	Value    *float64 `json:"value"`
}

// RestingHeartRateMetricID identifies the daily resting HR entry.
const RestingHeartRateMetricID = 60

// IntensityPayload carries the daily intensity durations in seconds.
type IntensityPayload struct {
	ModerateIntensityDuration *float64 `json:"moderateIntensityDuration"`
	VigorousIntensityDuration *float64 `json:"vigorousIntensityDuration"`
}

// StatsPayload is the daily stats endpoint; only active calories are used.
type StatsPayload struct {
	ActiveKilocalories *float64 `json:"activeKilocalories"`
}

// SleepFields are the sleep stage fields, carrying both the current
// (`deepSleepSeconds`) and the legacy (`deepSleep`) key variants the API has
// used over time. The mapper falls back from the first to the second.
type SleepFields struct {
	SleepStartTimestampGMT  *int64   `json:"sleepStartTimestampGMT"`
	SleepEndTimestampGMT    *int64   `json:"sleepEndTimestampGMT"`
	DeepSleepSeconds        *float64 `json:"deepSleepSeconds"`
	DeepSleep               *float64 `json:"deepSleep"`
	LightSleepSeconds       *float64 `json:"lightSleepSeconds"`
	LightSleep              *float64 `json:"lightSleep"`
	RemSleepSeconds         *float64 `json:"remSleepSeconds"`
	RemSleep                *float64 `json:"remSleep"`
	AwakeSleepSeconds       *float64 `json:"awakeSleepSeconds"`
	Awake                   *float64 `json:"awake"`
	AverageRespirationValue *float64 `json:"averageRespirationValue"`
	AvgSleepStress          *float64 `json:"avgSleepStress"`
}

// SleepPayload is the sleep endpoint response. Newer responses nest the
// session under dailySleepDTO; older ones carry the fields at the top level.
type SleepPayload struct {
	PrivacyProtected bool         `json:"privacyProtected"`
	DailySleepDTO    *SleepFields `json:"dailySleepDTO"`
	SleepFields
}

// SleepFallback converts a daily summary into the sleep payload shape used
// when the sleep endpoint is privacy protected. Whether the summary really
// carries a privacyProtected flag is an unverified upstream contract; the
// behavior is kept as observed.
func (s *SummaryPayload) SleepFallback() *SleepPayload {
	return &SleepPayload{
		PrivacyProtected: s.PrivacyProtected,
		SleepFields:      s.SleepFields,
	}
}
