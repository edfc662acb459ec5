package timelinefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
	"github.com/mpapenbr/f1-quali-timeline/testsupport/basedata"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career_timeline.json")
	want := basedata.SampleTimeline()
	if err := Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ByteIdempotent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	if err := Write(first, basedata.SampleTimeline()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// writing the loaded artifact again must reproduce the exact bytes
	loaded, err := Load(first)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Write(second, loaded); err != nil {
		t.Fatalf("Write: %v", err)
	}
	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	assert.Equal(t, string(a), string(b))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "career_timeline.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career_timeline.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoad_WrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career_timeline.json")
	// valid JSON, record filed under the wrong driver key
	broken := model.CareerTimeline{
		"Somebody Else": basedata.SampleTimeline()["Charles Leclerc"],
	}
	if err := Write(path, broken); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoad_EmptyTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career_timeline.json")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
