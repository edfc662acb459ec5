package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/utils/cache"
	"github.com/mpapenbr/f1-quali-timeline/pkg/utils/cache/diskcache"
)

const DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"

var ErrNoSeasonData = errors.New("no data for season")

// Event is one race weekend of a season schedule.
type Event struct {
	Season int
	Round  int
	Name   string
	Date   time.Time
}

// Entry is one driver's row in a qualifying classification.
// Lap times stay in the provider's string format ("1:26.572"); parsing
// happens where the rows are assembled.
type Entry struct {
	Position   int
	DriverID   string
	DriverName string
	Team       string
	Q1         string
	Q2         string
	Q3         string
}

type (
	Option func(*Client)

	Client struct {
		baseURL    string
		httpClient *http.Client
		cache      cache.Cache[string, []byte]
		retries    int
		retryDelay time.Duration
		pace       time.Duration
		l          *log.Logger
		// set when an option could not be applied, surfaced on first use
		initErr error
	}
)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

func WithCache(arg cache.Cache[string, []byte]) Option {
	return func(c *Client) { c.cache = arg }
}

// WithCacheDir enables the on-disk response cache below dir. An
// unusable dir fails the first request instead of the construction.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		dc, err := diskcache.New(dir, diskcache.WithLogger(c.l))
		if err != nil {
			c.initErr = fmt.Errorf("could not initialize provider cache: %w", err)
			return
		}
		c.cache = dc
	}
}

func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = attempts
		c.retryDelay = delay
	}
}

// WithPacing sets the delay before each network request. Cache hits are
// not paced.
func WithPacing(d time.Duration) Option {
	return func(c *Client) { c.pace = d }
}

func WithLogger(arg *log.Logger) Option {
	return func(c *Client) { c.l = arg }
}

func NewClient(opts ...Option) *Client {
	ret := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retries:    3,
		retryDelay: 5 * time.Second,
		l:          log.Default().Named("provider"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// SeasonSchedule returns the events of a season in round order.
// Events scheduled in the future are left out.
func (c *Client) SeasonSchedule(ctx context.Context, year int) ([]Event, error) {
	url := fmt.Sprintf("%s/%d.json?limit=100", c.baseURL, year)
	var parsed ergastResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.MRData.RaceTable.Races) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoSeasonData, year)
	}
	now := time.Now()
	ret := make([]Event, 0, len(parsed.MRData.RaceTable.Races))
	for i := range parsed.MRData.RaceTable.Races {
		event, err := convertEvent(&parsed.MRData.RaceTable.Races[i])
		if err != nil {
			c.l.Warn("skipping malformed schedule entry",
				log.Int("year", year), log.ErrorField(err))
			continue
		}
		if !event.Date.IsZero() && event.Date.After(now) {
			continue
		}
		ret = append(ret, event)
	}
	return ret, nil
}

// QualifyingResults returns the qualifying classification of one event.
func (c *Client) QualifyingResults(ctx context.Context, year, round int) (
	[]Entry, error,
) {
	url := fmt.Sprintf("%s/%d/%d/qualifying.json?limit=100", c.baseURL, year, round)
	var parsed ergastResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, err
	}
	races := parsed.MRData.RaceTable.Races
	if len(races) == 0 || len(races[0].QualifyingResults) == 0 {
		return nil, fmt.Errorf("no qualifying classification for %d round %d",
			year, round)
	}
	ret := make([]Entry, 0, len(races[0].QualifyingResults))
	for i := range races[0].QualifyingResults {
		r := &races[0].QualifyingResults[i]
		pos, _ := strconv.Atoi(r.Position)
		ret = append(ret, Entry{
			Position:   pos,
			DriverID:   r.Driver.DriverID,
			DriverName: fmt.Sprintf("%s %s", r.Driver.GivenName, r.Driver.FamilyName),
			Team:       r.Constructor.Name,
			Q1:         r.Q1,
			Q2:         r.Q2,
			Q3:         r.Q3,
		})
	}
	return ret, nil
}

func convertEvent(arg *ergastEvent) (Event, error) {
	season, err := strconv.Atoi(arg.Season)
	if err != nil {
		return Event{}, fmt.Errorf("season %q: %w", arg.Season, err)
	}
	round, err := strconv.Atoi(arg.Round)
	if err != nil {
		return Event{}, fmt.Errorf("round %q: %w", arg.Round, err)
	}
	var date time.Time
	if arg.Date != "" {
		if date, err = time.Parse(time.DateOnly, arg.Date); err != nil {
			return Event{}, fmt.Errorf("date %q: %w", arg.Date, err)
		}
	}
	return Event{Season: season, Round: round, Name: arg.RaceName, Date: date}, nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	data, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("could not decode provider response from %s: %w", url, err)
	}
	return nil
}

// fetch consults the cache first and falls back to the network with
// bounded retries. Successful responses are cached.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, url); err == nil {
			return *data, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.l.Warn("cache lookup failed", log.String("url", url),
				log.ErrorField(err))
		}
	}
	var lastErr error
	for attempt := range c.retries {
		if attempt > 0 {
			c.l.Warn("retrying provider request",
				log.String("url", url),
				log.Int("attempt", attempt+1),
				log.ErrorField(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		if c.pace > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pace):
			}
		}
		data, err := c.doRequest(ctx, url)
		if err == nil {
			if c.cache != nil {
				if err := c.cache.Put(ctx, url, &data); err != nil {
					c.l.Warn("could not cache response",
						log.String("url", url), log.ErrorField(err))
				}
			}
			return data, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("provider request %s failed: %w", url, lastErr)
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
