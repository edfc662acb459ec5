//nolint:funlen,lll // ok for tests
package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const scheduleJSON = `{
  "MRData": {
    "total": "3",
    "RaceTable": {
      "season": "2021",
      "Races": [
        {"season": "2021", "round": "1", "raceName": "Bahrain Grand Prix", "date": "2021-03-27"},
        {"season": "2021", "round": "2", "raceName": "Monaco Grand Prix", "date": "2021-05-22"},
        {"season": "2021", "round": "x", "raceName": "Broken Grand Prix", "date": "2021-06-05"},
        {"season": "2021", "round": "3", "raceName": "Future Grand Prix", "date": "2999-01-01"}
      ]
    }
  }
}`

const qualifyingJSON = `{
  "MRData": {
    "total": "1",
    "RaceTable": {
      "season": "2021",
      "Races": [
        {
          "season": "2021", "round": "2", "raceName": "Monaco Grand Prix", "date": "2021-05-22",
          "QualifyingResults": [
            {
              "number": "16", "position": "1",
              "Driver": {"driverId": "leclerc", "code": "LEC", "givenName": "Charles", "familyName": "Leclerc"},
              "Constructor": {"constructorId": "ferrari", "name": "Ferrari"},
              "Q1": "1:11.113", "Q2": "1:10.597", "Q3": "1:10.346"
            },
            {
              "number": "33", "position": "2",
              "Driver": {"driverId": "max_verstappen", "code": "VER", "givenName": "Max", "familyName": "Verstappen"},
              "Constructor": {"constructorId": "red_bull", "name": "Red Bull"},
              "Q1": "1:11.053", "Q2": "1:10.650", "Q3": "1:10.576"
            }
          ]
        }
      ]
    }
  }
}`

func newTestServer(t *testing.T, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			*requests++
			switch r.URL.Path {
			case "/2021.json":
				fmt.Fprint(w, scheduleJSON)
			case "/2021/2/qualifying.json":
				fmt.Fprint(w, qualifyingJSON)
			default:
				http.NotFound(w, r)
			}
		}))
}

func TestSeasonSchedule(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithRetry(1, 0))
	events, err := c.SeasonSchedule(context.Background(), 2021)
	if err != nil {
		t.Fatalf("SeasonSchedule: %v", err)
	}
	// the malformed and the future event are left out
	assert.Len(t, events, 2)
	assert.Equal(t, Event{
		Season: 2021,
		Round:  1,
		Name:   "Bahrain Grand Prix",
		Date:   time.Date(2021, 3, 27, 0, 0, 0, 0, time.UTC),
	}, events[0])
	assert.Equal(t, "Monaco Grand Prix", events[1].Name)
}

func TestSeasonSchedule_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"MRData": {"total": "0", "RaceTable": {"season": "2031", "Races": []}}}`)
		}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithRetry(1, 0))
	_, err := c.SeasonSchedule(context.Background(), 2031)
	assert.ErrorIs(t, err, ErrNoSeasonData)
}

func TestQualifyingResults(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithRetry(1, 0))
	entries, err := c.QualifyingResults(context.Background(), 2021, 2)
	if err != nil {
		t.Fatalf("QualifyingResults: %v", err)
	}
	assert.Equal(t, []Entry{
		{
			Position: 1, DriverID: "leclerc", DriverName: "Charles Leclerc",
			Team: "Ferrari", Q1: "1:11.113", Q2: "1:10.597", Q3: "1:10.346",
		},
		{
			Position: 2, DriverID: "max_verstappen", DriverName: "Max Verstappen",
			Team: "Red Bull", Q1: "1:11.053", Q2: "1:10.650", Q3: "1:10.576",
		},
	}, entries)
}

func TestClient_CachesResponses(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()

	c := NewClient(
		WithBaseURL(server.URL),
		WithRetry(1, 0),
		WithCacheDir(t.TempDir()),
	)
	for range 3 {
		if _, err := c.QualifyingResults(context.Background(), 2021, 2); err != nil {
			t.Fatalf("QualifyingResults: %v", err)
		}
	}
	assert.Equal(t, 1, requests)
}

func TestClient_UnusableCacheDirFailsRequests(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()

	// a regular file where the cache dir should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	err := os.WriteFile(blocker, []byte("x"), 0o644)
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	c := NewClient(
		WithBaseURL(server.URL),
		WithRetry(1, 0),
		WithCacheDir(blocker),
	)
	_, err = c.SeasonSchedule(context.Background(), 2021)
	assert.ErrorContains(t, err, "could not initialize provider cache")
	assert.Equal(t, 0, requests)
}

func TestClient_RetriesThenFails(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			requests++
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithRetry(2, time.Millisecond))
	_, err := c.QualifyingResults(context.Background(), 2021, 2)
	assert.Error(t, err)
	assert.Equal(t, 2, requests)
}
