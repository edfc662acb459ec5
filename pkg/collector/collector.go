package collector

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
	"github.com/mpapenbr/f1-quali-timeline/pkg/provider"
	"github.com/mpapenbr/f1-quali-timeline/pkg/repository/rawdata"
)

// SessionSource is the part of the provider the collector needs.
type SessionSource interface {
	SeasonSchedule(ctx context.Context, year int) ([]provider.Event, error)
	QualifyingResults(ctx context.Context, year, round int) ([]provider.Entry, error)
}

type (
	Option func(*Collector)

	Collector struct {
		source  SessionSource
		dataDir string
		reload  bool
		l       *log.Logger
	}

	// Result summarizes one collection batch.
	Result struct {
		RunID     string
		Succeeded []int
		Failed    []int
	}
)

func WithSessionSource(arg SessionSource) Option {
	return func(c *Collector) { c.source = arg }
}

func WithDataDir(dir string) Option {
	return func(c *Collector) { c.dataDir = dir }
}

// WithReload forces refetching seasons whose raw file already exists.
func WithReload(arg bool) Option {
	return func(c *Collector) { c.reload = arg }
}

func WithLogger(arg *log.Logger) Option {
	return func(c *Collector) { c.l = arg }
}

func New(opts ...Option) *Collector {
	ret := &Collector{
		dataDir: "data",
		l:       log.Default().Named("collector"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// CollectSeasons fetches the qualifying data for each requested year.
// A failing year is logged and reported in the result, the batch
// continues with the remaining years.
func (c *Collector) CollectSeasons(ctx context.Context, years []int) Result {
	ret := Result{RunID: uuid.New().String()}
	c.l.Info("starting collection",
		log.String("runId", ret.RunID),
		log.Any("years", years))
	for _, year := range years {
		if err := c.collectSeason(ctx, year); err != nil {
			c.l.Error("season failed",
				log.String("runId", ret.RunID),
				log.Int("year", year),
				log.ErrorField(err))
			ret.Failed = append(ret.Failed, year)
			continue
		}
		ret.Succeeded = append(ret.Succeeded, year)
	}
	c.l.Info("collection done",
		log.String("runId", ret.RunID),
		log.Any("succeeded", ret.Succeeded),
		log.Any("failed", ret.Failed))
	return ret
}

func (c *Collector) collectSeason(ctx context.Context, year int) error {
	if !c.reload && rawdata.SeasonFileExists(c.dataDir, year) {
		c.l.Info("season already present, skipping", log.Int("year", year))
		return nil
	}
	schedule, err := c.source.SeasonSchedule(ctx, year)
	if err != nil {
		return fmt.Errorf("could not get schedule: %w", err)
	}
	rows := make([]model.RawQualifyingRow, 0)
	for i := range schedule {
		event := &schedule[i]
		entries, err := c.source.QualifyingResults(ctx, year, event.Round)
		if err != nil {
			// a single event must not fail the season
			c.l.Error("could not load qualifying results",
				log.Int("year", year),
				log.String("event", event.Name),
				log.ErrorField(err))
			continue
		}
		rows = append(rows, c.convertEntries(event, entries)...)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no qualifying data collected for %d", year)
	}
	return rawdata.WriteSeason(c.dataDir, year, rows)
}

// convertEntries maps provider session objects to raw rows. Lap times
// that don't parse degrade to unset values.
func (c *Collector) convertEntries(
	event *provider.Event, entries []provider.Entry,
) []model.RawQualifyingRow {
	ret := make([]model.RawQualifyingRow, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		row := model.RawQualifyingRow{
			Season:     event.Season,
			Round:      event.Round,
			EventName:  event.Name,
			DriverID:   entry.DriverID,
			DriverName: entry.DriverName,
			TeamName:   entry.Team,
			Position:   entry.Position,
		}
		var err error
		for j, raw := range []string{entry.Q1, entry.Q2, entry.Q3} {
			target := []*model.LapTime{&row.Q1, &row.Q2, &row.Q3}[j]
			if *target, err = model.ParseLapTime(raw); err != nil {
				c.l.Warn("unparseable lap time",
					log.String("event", event.Name),
					log.String("driver", entry.DriverName),
					log.String("value", raw))
			}
		}
		ret = append(ret, row)
	}
	return ret
}
