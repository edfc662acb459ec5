//nolint:funlen // ok for tests
package rawdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
	"github.com/mpapenbr/f1-quali-timeline/testsupport/basedata"
)

var lapTimeComparer = cmp.Comparer(func(a, b model.LapTime) bool {
	return a.String() == b.String()
})

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rows := basedata.SampleRawRows()
	err := WriteSeason(dir, 2021, rows)
	assert.NilError(t, err)
	assert.Assert(t, SeasonFileExists(dir, 2021))
	assert.Assert(t, !SeasonFileExists(dir, 2020))

	got, err := ReadAll(dir)
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, got, lapTimeComparer)
}

func TestReadAll_MultipleSeasonsOrderedByYear(t *testing.T) {
	dir := t.TempDir()
	later := basedata.Row(2022, 1, "Bahrain Grand Prix", "Charles Leclerc",
		"Ferrari", 1, "1:31.471", "1:30.932", "1:30.558")
	err := WriteSeason(dir, 2022, []model.RawQualifyingRow{later})
	assert.NilError(t, err)
	err = WriteSeason(dir, 2021, basedata.SampleRawRows())
	assert.NilError(t, err)

	got, err := ReadAll(dir)
	assert.NilError(t, err)
	assert.Equal(t, 2021, got[0].Season)
	assert.Equal(t, 2022, got[len(got)-1].Season)
}

func TestReadAll_NoFiles(t *testing.T) {
	_, err := ReadAll(t.TempDir())
	assert.ErrorIs(t, err, ErrNoRawData)
}

func TestReadAll_MalformedRows(t *testing.T) {
	dir := t.TempDir()
	content := `Year,Round,EventName,DriverID,DriverName,TeamName,Position,Q1,Q2,Q3,WetSession
2021,1,Bahrain Grand Prix,max,Max Verstappen,Red Bull,1,1:30.499,1:30.318,1:28.997,false
2021,x,Bahrain Grand Prix,charles,Charles Leclerc,Ferrari,4,nope,1:30.010,1:29.678,false
`
	fileName := filepath.Join(dir, SeasonFilename(2021))
	err := os.WriteFile(fileName, []byte(content), 0o644)
	assert.NilError(t, err)

	got, err := ReadAll(dir)
	assert.NilError(t, err)
	// malformed fields degrade, the row survives
	assert.Equal(t, 2, len(got))
	leclerc := got[1]
	assert.Equal(t, 0, leclerc.Round)
	assert.Assert(t, !leclerc.Q1.Valid())
	assert.Equal(t, "1:29.678", leclerc.Q3.String())
}

func TestWriteSeason_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	err := WriteSeason(dir, 2021, basedata.SampleRawRows())
	assert.NilError(t, err)
	single := []model.RawQualifyingRow{basedata.SampleRawRows()[0]}
	err = WriteSeason(dir, 2021, single)
	assert.NilError(t, err)

	got, err := ReadAll(dir)
	assert.NilError(t, err)
	assert.Equal(t, 1, len(got))
}
