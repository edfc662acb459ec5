package model

// The career timeline artifact. Keys follow the previous dashboard data
// format, hence camelCase.
//
//nolint:tagliatelle // client compatibility

// EventSummary is one qualifying event from a driver's perspective.
// Nil metrics mean "no data", never zero.
type EventSummary struct {
	Round           string   `json:"round"`
	Position        *int     `json:"position"`
	GapToPole       *float64 `json:"gapToPole"`
	TeammateGap     *float64 `json:"teammateGap"`
	HasTeammateData bool     `json:"hasTeammateData"`
	WetSession      bool     `json:"wetSession"`
}

// TeammateTally is the head-to-head qualifying outcome by position
// against same-team drivers. Events without a teammate row contribute
// to none of the counters.
type TeammateTally struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// TeamStint marks a contiguous range of events with one team within a
// season. More than one stint means a mid-season team change.
type TeamStint struct {
	Team       string `json:"team"`
	FirstRound string `json:"firstRound"`
	LastRound  string `json:"lastRound"`
}

// SeasonRecord aggregates a driver's qualifying results of one season.
type SeasonRecord struct {
	Year   int    `json:"year"`
	Driver string `json:"driver"`
	// Team is the team the driver entered the most events for.
	Team       string      `json:"team"`
	TeamStints []TeamStint `json:"teamStints"`
	// Events in original in-season order.
	Events []EventSummary `json:"events"`
	// BestPosition is the minimum position of the season;
	// BestPositionEvents lists every event where it was achieved,
	// earliest first.
	BestPositionEvents    []string      `json:"bestPositionEvents"`
	BestPosition          *int          `json:"bestPosition"`
	AvgQualifyingPosition *float64      `json:"avgQualifyingPosition"`
	AvgGapToPole          *float64      `json:"avgGapToPole"`
	AvgTeammateGap        *float64      `json:"avgTeammateGap"`
	TeammateTally         TeammateTally `json:"teammateTally"`
	// DataCompleteness is the share of entered events with teammate data.
	DataCompleteness float64 `json:"dataCompleteness"`
}

// CareerTimeline maps a driver to the chronologically ordered season
// records. Created once by the aggregator, treated as immutable by the
// dashboard.
type CareerTimeline map[string][]SeasonRecord
