package rawdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
)

// One CSV per season below the raw data directory. Files are written
// once by the collector and only read afterwards.

var ErrNoRawData = errors.New("no raw data files found")

var header = []string{
	"Year", "Round", "EventName", "DriverID", "DriverName", "TeamName",
	"Position", "Q1", "Q2", "Q3", "WetSession",
}

func SeasonFilename(year int) string {
	return fmt.Sprintf("qualifying_data_%d_results.csv", year)
}

func SeasonFileExists(dir string, year int) bool {
	_, err := os.Stat(filepath.Join(dir, SeasonFilename(year)))
	return err == nil
}

// WriteSeason writes all rows of one season. An existing file is
// replaced as a whole; there are no partial updates.
func WriteSeason(dir string, year int, rows []model.RawQualifyingRow) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create raw data dir %s: %w", dir, err)
	}
	fileName := filepath.Join(dir, SeasonFilename(year))
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", fileName, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range rows {
		r := &rows[i]
		record := []string{
			strconv.Itoa(r.Season),
			strconv.Itoa(r.Round),
			r.EventName,
			r.DriverID,
			r.DriverName,
			r.TeamName,
			strconv.Itoa(r.Position),
			r.Q1.String(),
			r.Q2.String(),
			r.Q3.String(),
			strconv.FormatBool(r.WetSession),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadAll reads and concatenates every season file found in dir,
// ordered by year. Malformed fields within a row degrade to unset
// values; the row is kept.
func ReadAll(dir string) ([]model.RawQualifyingRow, error) {
	pattern := filepath.Join(dir, "qualifying_data_*_results.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRawData, dir)
	}
	sort.Strings(files)

	ret := make([]model.RawQualifyingRow, 0)
	for _, fileName := range files {
		rows, err := readSeasonFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", fileName, err)
		}
		ret = append(ret, rows...)
	}
	return ret, nil
}

func readSeasonFile(fileName string) ([]model.RawQualifyingRow, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	ret := make([]model.RawQualifyingRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(header) {
			log.Warn("skipping malformed record",
				log.String("file", fileName),
				log.Int("columns", len(record)))
			continue
		}
		ret = append(ret, convertRecord(fileName, record))
	}
	return ret, nil
}

//nolint:errcheck // malformed fields intentionally degrade to unset values
func convertRecord(fileName string, record []string) model.RawQualifyingRow {
	ret := model.RawQualifyingRow{
		EventName:  record[2],
		DriverID:   record[3],
		DriverName: record[4],
		TeamName:   record[5],
	}
	ret.Season, _ = strconv.Atoi(record[0])
	ret.Round, _ = strconv.Atoi(record[1])
	ret.Position, _ = strconv.Atoi(record[6])
	var err error
	for i, target := range []*model.LapTime{&ret.Q1, &ret.Q2, &ret.Q3} {
		if *target, err = model.ParseLapTime(record[7+i]); err != nil {
			log.Debug("unparseable lap time",
				log.String("file", fileName),
				log.String("value", record[7+i]))
		}
	}
	ret.WetSession, _ = strconv.ParseBool(record[10])
	return ret
}
