package basedata

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
)

// Row builds a raw qualifying row from wire format lap times.
// Invalid times panic, the samples are compile time constants in spirit.
func Row(
	season, round int, event, driver, team string, pos int, q1, q2, q3 string,
) model.RawQualifyingRow {
	return model.RawQualifyingRow{
		Season:     season,
		Round:      round,
		EventName:  event,
		DriverID:   driver,
		DriverName: driver,
		TeamName:   team,
		Position:   pos,
		Q1:         mustLap(q1),
		Q2:         mustLap(q2),
		Q3:         mustLap(q3),
	}
}

func mustLap(arg string) model.LapTime {
	ret, err := model.ParseLapTime(arg)
	if err != nil {
		panic(err)
	}
	return ret
}

// SampleRawRows is a small 2021 season slice: two events, one team
// with two drivers (Ferrari), one with a single entry (Alpine).
func SampleRawRows() []model.RawQualifyingRow {
	return []model.RawQualifyingRow{
		Row(2021, 1, "Bahrain Grand Prix", "Max Verstappen", "Red Bull",
			1, "1:30.499", "1:30.318", "1:28.997"),
		Row(2021, 1, "Bahrain Grand Prix", "Charles Leclerc", "Ferrari",
			4, "1:30.691", "1:30.010", "1:29.678"),
		Row(2021, 1, "Bahrain Grand Prix", "Carlos Sainz", "Ferrari",
			8, "1:30.903", "1:30.215", "1:30.215"),
		Row(2021, 1, "Bahrain Grand Prix", "Fernando Alonso", "Alpine",
			9, "1:30.863", "1:30.249", "1:30.249"),
		Row(2021, 5, "Monaco Grand Prix", "Charles Leclerc", "Ferrari",
			1, "1:11.113", "1:10.597", "1:10.346"),
		Row(2021, 5, "Monaco Grand Prix", "Max Verstappen", "Red Bull",
			2, "1:11.053", "1:10.650", "1:10.576"),
		Row(2021, 5, "Monaco Grand Prix", "Carlos Sainz", "Ferrari",
			4, "1:11.247", "1:10.806", "1:10.611"),
		Row(2021, 5, "Monaco Grand Prix", "Fernando Alonso", "Alpine",
			17, "1:12.205", "", ""),
	}
}

// SampleTimeline is a hand built single driver artifact matching the
// schema the aggregator writes.
func SampleTimeline() model.CareerTimeline {
	return model.CareerTimeline{
		"Charles Leclerc": {
			{
				Year:   2021,
				Driver: "Charles Leclerc",
				Team:   "Ferrari",
				TeamStints: []model.TeamStint{
					{
						Team:       "Ferrari",
						FirstRound: "Bahrain Grand Prix",
						LastRound:  "Monaco Grand Prix",
					},
				},
				Events: []model.EventSummary{
					{
						Round:           "Bahrain Grand Prix",
						Position:        lo.ToPtr(4),
						GapToPole:       lo.ToPtr(0.681),
						TeammateGap:     lo.ToPtr(-0.537),
						HasTeammateData: true,
					},
					{
						Round:           "Monaco Grand Prix",
						Position:        lo.ToPtr(1),
						GapToPole:       lo.ToPtr(0.0),
						TeammateGap:     lo.ToPtr(-0.265),
						HasTeammateData: true,
					},
				},
				BestPositionEvents:    []string{"Monaco Grand Prix"},
				BestPosition:          lo.ToPtr(1),
				AvgQualifyingPosition: lo.ToPtr(2.5),
				AvgGapToPole:          lo.ToPtr(0.341),
				AvgTeammateGap:        lo.ToPtr(-0.401),
				TeammateTally:         model.TeammateTally{Wins: 2},
				DataCompleteness:      1.0,
			},
		},
	}
}
