package timeline

import (
	"errors"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
)

// TimelineProcessor turns raw qualifying rows into the career timeline.
// It is a pure batch aggregation: the input is never modified and
// repeated runs on the same input yield the same result.
type TimelineProcessor struct {
	l *log.Logger
}

type Option func(*TimelineProcessor)

func WithLogger(arg *log.Logger) Option {
	return func(p *TimelineProcessor) {
		p.l = arg
	}
}

func NewTimelineProcessor(opts ...Option) *TimelineProcessor {
	ret := &TimelineProcessor{
		l: log.Default().Named("processing.timeline"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

var ErrNoInput = errors.New("no qualifying rows to process")

type (
	eventKey struct {
		season int
		event  string
	}
	teamKey struct {
		season int
		event  string
		team   string
	}
	driverSeasonKey struct {
		driver string
		season int
	}
)

// index holds the lookup tables built in a single pass over the rows.
type index struct {
	// ordered unique event names per season, in first-seen order
	seasonEvents map[int][]string
	poleTimes    map[eventKey]model.LapTime
	// all rows of one team in one event, the teammate join source
	teamRows map[teamKey][]*model.RawQualifyingRow
	// the driver's row per event
	driverRows map[driverSeasonKey]map[string]*model.RawQualifyingRow
	// which seasons a driver entered
	driverSeasons map[string][]int
}

func (p *TimelineProcessor) Process(rows []model.RawQualifyingRow) (
	model.CareerTimeline, error,
) {
	if len(rows) == 0 {
		return nil, ErrNoInput
	}
	idx := p.buildIndex(rows)

	ret := make(model.CareerTimeline, len(idx.driverSeasons))
	for driver, seasons := range idx.driverSeasons {
		records := make([]model.SeasonRecord, 0, len(seasons))
		for _, season := range seasons {
			records = append(records, p.buildSeasonRecord(idx, driver, season))
		}
		ret[driver] = records
	}
	p.l.Info("timeline processed",
		log.Int("rows", len(rows)),
		log.Int("drivers", len(ret)))
	return ret, nil
}

func (p *TimelineProcessor) buildIndex(rows []model.RawQualifyingRow) *index {
	idx := &index{
		seasonEvents:  make(map[int][]string),
		poleTimes:     make(map[eventKey]model.LapTime),
		teamRows:      make(map[teamKey][]*model.RawQualifyingRow),
		driverRows:    make(map[driverSeasonKey]map[string]*model.RawQualifyingRow),
		driverSeasons: make(map[string][]int),
	}
	for i := range rows {
		row := &rows[i]
		dsk := driverSeasonKey{driver: row.DriverName, season: row.Season}
		if idx.driverRows[dsk] == nil {
			idx.driverRows[dsk] = make(map[string]*model.RawQualifyingRow)
		}
		if _, dupe := idx.driverRows[dsk][row.EventName]; dupe {
			// invariant: one row per driver and event; keep the first
			// and register nothing else for the duplicate
			p.l.Warn("duplicate row ignored",
				log.String("driver", row.DriverName),
				log.Int("season", row.Season),
				log.String("event", row.EventName))
			continue
		}
		idx.driverRows[dsk][row.EventName] = row
		if !lo.Contains(idx.driverSeasons[row.DriverName], row.Season) {
			idx.driverSeasons[row.DriverName] = append(
				idx.driverSeasons[row.DriverName], row.Season)
		}

		ek := eventKey{season: row.Season, event: row.EventName}
		if !lo.Contains(idx.seasonEvents[row.Season], row.EventName) {
			idx.seasonEvents[row.Season] = append(
				idx.seasonEvents[row.Season], row.EventName)
		}
		if row.Position == 1 {
			idx.poleTimes[ek] = row.BestLap()
		}
		tk := teamKey{season: row.Season, event: row.EventName, team: row.TeamName}
		idx.teamRows[tk] = append(idx.teamRows[tk], row)
	}
	for driver := range idx.driverSeasons {
		sort.Ints(idx.driverSeasons[driver])
	}
	return idx
}

//nolint:funlen,gocognit // single aggregation pass reads better unsplit
func (p *TimelineProcessor) buildSeasonRecord(
	idx *index, driver string, season int,
) model.SeasonRecord {
	ret := model.SeasonRecord{
		Year:               season,
		Driver:             driver,
		TeamStints:         make([]model.TeamStint, 0),
		Events:             make([]model.EventSummary, 0),
		BestPositionEvents: make([]string, 0),
	}
	rows := idx.driverRows[driverSeasonKey{driver: driver, season: season}]

	var positions, poleGaps, mateGaps []decimal.Decimal
	teammateDataCount := 0

	for _, event := range idx.seasonEvents[season] {
		row, ok := rows[event]
		if !ok {
			// the driver did not enter this event
			continue
		}
		summary := p.buildEventSummary(idx, row)
		ret.Events = append(ret.Events, summary)
		p.extendStints(&ret, row)
		p.tallyTeammates(idx, row, &ret.TeammateTally)

		if summary.Position != nil {
			positions = append(positions, decimal.NewFromInt(int64(*summary.Position)))
			if ret.BestPosition == nil || *summary.Position < *ret.BestPosition {
				ret.BestPosition = summary.Position
				ret.BestPositionEvents = []string{summary.Round}
			} else if *summary.Position == *ret.BestPosition {
				ret.BestPositionEvents = append(ret.BestPositionEvents, summary.Round)
			}
		}
		if summary.GapToPole != nil {
			poleGaps = append(poleGaps, decimal.NewFromFloat(*summary.GapToPole))
		}
		if summary.TeammateGap != nil {
			mateGaps = append(mateGaps, decimal.NewFromFloat(*summary.TeammateGap))
		}
		if summary.HasTeammateData {
			teammateDataCount++
		}
	}

	ret.AvgQualifyingPosition = mean(positions)
	ret.AvgGapToPole = mean(poleGaps)
	ret.AvgTeammateGap = mean(mateGaps)
	if len(ret.Events) > 0 {
		ret.DataCompleteness = decimal.NewFromInt(int64(teammateDataCount)).
			Div(decimal.NewFromInt(int64(len(ret.Events)))).
			Round(3).InexactFloat64()
	}
	ret.Team = p.primaryTeam(&ret)
	return ret
}

func (p *TimelineProcessor) buildEventSummary(
	idx *index, row *model.RawQualifyingRow,
) model.EventSummary {
	ret := model.EventSummary{
		Round:      row.EventName,
		WetSession: row.WetSession,
	}
	if row.Position > 0 {
		pos := row.Position
		ret.Position = &pos
	}
	ret.GapToPole = p.gapToPole(idx, row)

	if mate := p.bestTeammateRow(idx, row); mate != nil {
		myBest, theirBest := row.BestLap(), mate.BestLap()
		if myBest.Valid() && theirBest.Valid() {
			gap := myBest.Seconds().Sub(theirBest.Seconds()).
				Round(3).InexactFloat64()
			ret.TeammateGap = &gap
			ret.HasTeammateData = true
		}
	}
	return ret
}

// gapToPole is zero for the pole sitter and nil when either lap time is
// missing. It is never a defaulted zero.
func (p *TimelineProcessor) gapToPole(
	idx *index, row *model.RawQualifyingRow,
) *float64 {
	if row.Position == 1 {
		zero := 0.0
		return &zero
	}
	pole, ok := idx.poleTimes[eventKey{season: row.Season, event: row.EventName}]
	best := row.BestLap()
	if !ok || !pole.Valid() || !best.Valid() {
		return nil
	}
	gap := best.Seconds().Sub(pole.Seconds()).Round(3).InexactFloat64()
	return &gap
}

// bestTeammateRow returns the best-placed other driver of the same team
// in the same event, nil when the driver had no teammate there.
func (p *TimelineProcessor) bestTeammateRow(
	idx *index, row *model.RawQualifyingRow,
) *model.RawQualifyingRow {
	tk := teamKey{season: row.Season, event: row.EventName, team: row.TeamName}
	mates := lo.Filter(idx.teamRows[tk],
		func(item *model.RawQualifyingRow, _ int) bool {
			return item.DriverName != row.DriverName
		})
	if len(mates) == 0 {
		return nil
	}
	return lo.MinBy(mates, func(a, b *model.RawQualifyingRow) bool {
		if a.Position <= 0 {
			return false
		}
		return b.Position <= 0 || a.Position < b.Position
	})
}

// tallyTeammates counts the position head-to-head. With more than one
// teammate in an event (mid-season seat change) every pairing counts.
func (p *TimelineProcessor) tallyTeammates(
	idx *index, row *model.RawQualifyingRow, tally *model.TeammateTally,
) {
	tk := teamKey{season: row.Season, event: row.EventName, team: row.TeamName}
	for _, mate := range idx.teamRows[tk] {
		if mate.DriverName == row.DriverName {
			continue
		}
		switch {
		case row.Position <= 0 || mate.Position <= 0:
			// positions not comparable, no outcome
		case row.Position < mate.Position:
			tally.Wins++
		case row.Position > mate.Position:
			tally.Losses++
		default:
			tally.Ties++
		}
	}
}

func (p *TimelineProcessor) extendStints(
	rec *model.SeasonRecord, row *model.RawQualifyingRow,
) {
	n := len(rec.TeamStints)
	if n > 0 && rec.TeamStints[n-1].Team == row.TeamName {
		rec.TeamStints[n-1].LastRound = row.EventName
		return
	}
	rec.TeamStints = append(rec.TeamStints, model.TeamStint{
		Team:       row.TeamName,
		FirstRound: row.EventName,
		LastRound:  row.EventName,
	})
}

// primaryTeam is the team with the most entered events; the earlier
// stint wins a tie.
func (p *TimelineProcessor) primaryTeam(rec *model.SeasonRecord) string {
	if len(rec.TeamStints) == 0 {
		return ""
	}
	rounds := lo.Map(rec.Events,
		func(e model.EventSummary, _ int) string { return e.Round })
	counts := make(map[string]int)
	for _, stint := range rec.TeamStints {
		startIdx := lo.IndexOf(rounds, stint.FirstRound)
		endIdx := lo.IndexOf(rounds, stint.LastRound)
		if startIdx >= 0 && endIdx >= startIdx {
			counts[stint.Team] += endIdx - startIdx + 1
		}
	}
	best := rec.TeamStints[0].Team
	for _, stint := range rec.TeamStints[1:] {
		if counts[stint.Team] > counts[best] {
			best = stint.Team
		}
	}
	return best
}

func mean(values []decimal.Decimal) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	ret := sum.Div(decimal.NewFromInt(int64(len(values)))).
		Round(3).InexactFloat64()
	return &ret
}
