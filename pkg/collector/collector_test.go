//nolint:funlen // ok for tests
package collector

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
	"github.com/mpapenbr/f1-quali-timeline/pkg/provider"
	"github.com/mpapenbr/f1-quali-timeline/pkg/repository/rawdata"
	"github.com/mpapenbr/f1-quali-timeline/testsupport/basedata"
)

type fakeSource struct {
	scheduleCalls int
	resultCalls   int
	// rounds whose qualifying request should fail
	failRounds map[int]bool
	// years without any schedule data
	failYears map[int]bool
}

func (f *fakeSource) SeasonSchedule(_ context.Context, year int) (
	[]provider.Event, error,
) {
	f.scheduleCalls++
	if f.failYears[year] {
		return nil, fmt.Errorf("%w: %d", provider.ErrNoSeasonData, year)
	}
	return []provider.Event{
		{Season: year, Round: 1, Name: "Bahrain Grand Prix"},
		{Season: year, Round: 2, Name: "Monaco Grand Prix"},
	}, nil
}

func (f *fakeSource) QualifyingResults(_ context.Context, year, round int) (
	[]provider.Entry, error,
) {
	f.resultCalls++
	if f.failRounds[round] {
		return nil, fmt.Errorf("no qualifying classification for %d round %d",
			year, round)
	}
	return []provider.Entry{
		{
			Position: 1, DriverID: "max", DriverName: "Max Verstappen",
			Team: "Red Bull", Q1: "1:30.499", Q2: "1:30.318", Q3: "1:28.997",
		},
		{
			Position: 2, DriverID: "charles", DriverName: "Charles Leclerc",
			Team: "Ferrari", Q1: "1:30.691", Q2: "1:30.010", Q3: "1:29.678",
		},
	}, nil
}

func TestCollectSeasons(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{}
	c := New(WithSessionSource(source), WithDataDir(dir))

	result := c.CollectSeasons(context.Background(), []int{2021})
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []int{2021}, result.Succeeded)
	assert.Empty(t, result.Failed)

	rows, err := rawdata.ReadAll(dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	assert.Len(t, rows, 4)
	first := rows[0]
	assert.Equal(t, 2021, first.Season)
	assert.Equal(t, "Bahrain Grand Prix", first.EventName)
	assert.Equal(t, "Max Verstappen", first.DriverName)
	assert.Equal(t, "1:28.997", first.Q3.String())
}

func TestCollectSeasons_SkipsExistingSeason(t *testing.T) {
	dir := t.TempDir()
	if err := rawdata.WriteSeason(dir, 2021, basedata.SampleRawRows()); err != nil {
		t.Fatalf("WriteSeason: %v", err)
	}
	source := &fakeSource{}
	c := New(WithSessionSource(source), WithDataDir(dir))

	result := c.CollectSeasons(context.Background(), []int{2021})
	assert.Equal(t, []int{2021}, result.Succeeded)
	// present seasons are not refetched
	assert.Equal(t, 0, source.scheduleCalls)
	assert.Equal(t, 0, source.resultCalls)
}

func TestCollectSeasons_ReloadRefetches(t *testing.T) {
	dir := t.TempDir()
	if err := rawdata.WriteSeason(dir, 2021, basedata.SampleRawRows()); err != nil {
		t.Fatalf("WriteSeason: %v", err)
	}
	source := &fakeSource{}
	c := New(WithSessionSource(source), WithDataDir(dir), WithReload(true))

	result := c.CollectSeasons(context.Background(), []int{2021})
	assert.Equal(t, []int{2021}, result.Succeeded)
	assert.Equal(t, 1, source.scheduleCalls)
	assert.Equal(t, 2, source.resultCalls)

	rows, err := rawdata.ReadAll(dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	// the sample file got replaced by the refetched data
	assert.Len(t, rows, 4)
}

func TestCollectSeasons_EventFailureIsTolerated(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{failRounds: map[int]bool{2: true}}
	c := New(WithSessionSource(source), WithDataDir(dir))

	result := c.CollectSeasons(context.Background(), []int{2021})
	assert.Equal(t, []int{2021}, result.Succeeded)

	rows, err := rawdata.ReadAll(dir)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	events := make(map[string]bool)
	for i := range rows {
		events[rows[i].EventName] = true
	}
	assert.True(t, events["Bahrain Grand Prix"])
	assert.False(t, events["Monaco Grand Prix"])
}

func TestCollectSeasons_FailedSeasonDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{failYears: map[int]bool{2020: true}}
	c := New(WithSessionSource(source), WithDataDir(dir))

	result := c.CollectSeasons(context.Background(), []int{2020, 2021})
	assert.Equal(t, []int{2020}, result.Failed)
	assert.Equal(t, []int{2021}, result.Succeeded)
	assert.False(t, rawdata.SeasonFileExists(dir, 2020))
	assert.True(t, rawdata.SeasonFileExists(dir, 2021))
}

func TestConvertEntries_BadLapTimeDegrades(t *testing.T) {
	c := New()
	event := provider.Event{Season: 2021, Round: 1, Name: "Bahrain Grand Prix"}
	entries := []provider.Entry{
		{
			Position: 3, DriverID: "lando", DriverName: "Lando Norris",
			Team: "McLaren", Q1: "not-a-time", Q2: "1:30.099", Q3: "",
		},
	}
	rows := c.convertEntries(&event, entries)
	assert.Len(t, rows, 1)
	assert.Equal(t, model.LapTime{}, rows[0].Q1)
	assert.Equal(t, "1:30.099", rows[0].Q2.String())
	assert.False(t, rows[0].Q3.Valid())
}
