package timelinefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
)

// The career timeline is stored as a single JSON document keyed by
// driver. Keys are sorted and floats carry at most three decimals, so
// re-running the aggregator on unchanged input produces identical bytes.

var (
	ErrNotFound       = errors.New("career timeline file not found")
	ErrSchemaMismatch = errors.New("career timeline file has unexpected shape")
)

func writeOptions() *ojg.Options {
	ret := ojg.Options{
		Sort:    true,
		Indent:  2,
		UseTags: true,
	}
	return &ret
}

func Write(path string, timeline model.CareerTimeline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create output dir for %s: %w", path, err)
	}
	data, err := oj.Marshal(timeline, writeOptions())
	if err != nil {
		return fmt.Errorf("could not serialize career timeline: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func Load(path string) (model.CareerTimeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var ret model.CareerTimeline
	if err := oj.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, path, err)
	}
	if err := validate(ret); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, path, err)
	}
	return ret, nil
}

func validate(timeline model.CareerTimeline) error {
	if len(timeline) == 0 {
		return errors.New("no drivers")
	}
	for driver, records := range timeline {
		if len(records) == 0 {
			return fmt.Errorf("driver %s has no season records", driver)
		}
		prevYear := 0
		for i := range records {
			rec := &records[i]
			if rec.Driver != driver {
				return fmt.Errorf("record driver %q under key %q", rec.Driver, driver)
			}
			if rec.Year <= 0 {
				return fmt.Errorf("driver %s has a record without a year", driver)
			}
			if rec.Year <= prevYear {
				return fmt.Errorf("driver %s records are not chronological", driver)
			}
			prevYear = rec.Year
		}
	}
	return nil
}
