package dashboard

import (
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
)

type driverPage struct {
	Driver  string
	Drivers []string
	Seasons []seasonSection
}

type seasonSection struct {
	Record    *model.SeasonRecord
	MultiTeam bool
	// metrics preformatted for display, empty when no data
	BestPosition string
	AvgPosition  string
	AvgGapToPole string
	AvgMateGap   string
	ChartElement template.HTML
	ChartScript  template.HTML
	// events of the season as JSON for the detail selector script
	EventsJSON template.JS
}

func (s *Server) buildDriverPage(
	driver string, records []model.SeasonRecord,
) (*driverPage, error) {
	ret := &driverPage{
		Driver:  driver,
		Drivers: s.drivers,
		Seasons: make([]seasonSection, 0, len(records)),
	}
	for i := range records {
		rec := &records[i]
		section, err := s.buildSeasonSection(driver, rec)
		if err != nil {
			return nil, err
		}
		ret.Seasons = append(ret.Seasons, section)
	}
	return ret, nil
}

func (s *Server) buildSeasonSection(
	driver string, rec *model.SeasonRecord,
) (seasonSection, error) {
	snippet := positionChart(driver, rec).RenderSnippet()
	eventsJSON, err := oj.Marshal(rec.Events, &ojg.Options{Sort: true, UseTags: true})
	if err != nil {
		return seasonSection{}, fmt.Errorf("could not serialize events: %w", err)
	}
	//nolint:gosec // chart markup is generated, event data is JSON encoded
	ret := seasonSection{
		Record:       rec,
		MultiTeam:    len(rec.TeamStints) > 1,
		ChartElement: template.HTML(snippet.Element),
		ChartScript:  template.HTML(snippet.Script),
		EventsJSON:   template.JS(eventsJSON),
	}
	if rec.BestPosition != nil {
		ret.BestPosition = fmt.Sprintf("P%d", *rec.BestPosition)
	}
	if rec.AvgQualifyingPosition != nil {
		ret.AvgPosition = fmt.Sprintf("P%.0f", *rec.AvgQualifyingPosition)
	}
	if rec.AvgGapToPole != nil {
		ret.AvgGapToPole = fmt.Sprintf("%+.3fs", *rec.AvgGapToPole)
	}
	if rec.AvgTeammateGap != nil {
		ret.AvgMateGap = fmt.Sprintf("%+.3fs", *rec.AvgTeammateGap)
	}
	return ret, nil
}

// positionChart plots the qualifying position per event of one season.
func positionChart(driver string, rec *model.SeasonRecord) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: fmt.Sprintf("pos_%d", rec.Year),
			Width:   "1100px",
			Height:  "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s — %d qualifying positions", driver, rec.Year),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Position", Min: 0, Max: 20}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	rounds := make([]string, 0, len(rec.Events))
	data := make([]opts.LineData, 0, len(rec.Events))
	for i := range rec.Events {
		event := &rec.Events[i]
		rounds = append(rounds, event.Round)
		if event.Position != nil {
			data = append(data, opts.LineData{Value: *event.Position})
		} else {
			data = append(data, opts.LineData{Value: nil})
		}
	}
	line.SetXAxis(rounds).
		AddSeries("Position", data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}

var pageTemplate = template.Must(template.New("driver").Parse(pageHTML))

//nolint:lll // markup
const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Driver}} — Qualifying Timeline</title>
<script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
<style>
body { font-family: Inter, sans-serif; background: #f8f9fa; margin: 0; padding: 20px; }
h1 { text-align: center; color: #212529; }
.season { background: #fff; border: 1px solid #dee2e6; border-radius: 12px; padding: 20px; margin: 30px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.metrics { display: flex; gap: 15px; flex-wrap: wrap; margin-bottom: 10px; }
.metric { background: #fff; border: 1px solid #dee2e6; border-radius: 8px; padding: 10px; font-size: 18px; }
.selector { font-size: 18px; padding: 8px; border: 1px solid #dee2e6; border-radius: 8px; background: #f8f9fa; }
.teamchange { color: #dc3545; font-size: 18px; }
.details { display: flex; gap: 15px; margin-top: 10px; }
</style>
</head>
<body>
<div style="text-align:center; margin:20px 0">
  <label for="driverSel">Select Driver</label>
  <select id="driverSel" class="selector" onchange="location='/driver/'+encodeURIComponent(this.value)">
  {{- range .Drivers}}
    <option value="{{.}}" {{if eq . $.Driver}}selected{{end}}>{{.}}</option>
  {{- end}}
  </select>
</div>
<h1>{{.Driver}}'s Performance Timeline</h1>
<script>const seasonEvents = {};</script>
{{- range .Seasons}}
<div class="season">
  <h2>{{.Record.Year}} {{if .MultiTeam}}<span class="teamchange">Mid-Season Team Change</span>{{end}}</h2>
  <div class="metrics">
    <div class="metric"><b>Team:</b> {{.Record.Team}}</div>
    {{- if .BestPosition}}
    <div class="metric"><b>Best Position:</b> {{.BestPosition}} at {{range $i, $e := .Record.BestPositionEvents}}{{if $i}}, {{end}}{{$e}}{{end}}</div>
    {{- end}}
    {{- if .AvgPosition}}
    <div class="metric"><b>Avg Position:</b> {{.AvgPosition}}</div>
    {{- end}}
    {{- if .AvgGapToPole}}
    <div class="metric"><b>Avg Gap to Pole:</b> {{.AvgGapToPole}}</div>
    {{- end}}
    {{- if .AvgMateGap}}
    <div class="metric"><b>Avg Gap to Teammate:</b> {{.AvgMateGap}}</div>
    {{- end}}
    <div class="metric"><b>vs Teammate:</b> {{.Record.TeammateTally.Wins}}W / {{.Record.TeammateTally.Losses}}L / {{.Record.TeammateTally.Ties}}T</div>
  </div>
  {{.ChartElement}}
  {{.ChartScript}}
  <div>
    <label>Select Event</label>
    <select class="selector" onchange="showDetail({{.Record.Year}}, this.value)">
    {{- range .Record.Events}}
      <option value="{{.Round}}">{{.Round}}</option>
    {{- end}}
    </select>
  </div>
  <div id="detail_{{.Record.Year}}" class="details"></div>
  <script>seasonEvents[{{.Record.Year}}] = {{.EventsJSON}};</script>
</div>
{{- end}}
<script>
function showDetail(year, round) {
  const ev = (seasonEvents[year] || []).find(e => e.round === round);
  const target = document.getElementById('detail_' + year);
  if (!ev) { target.innerHTML = ''; return; }
  const pos = ev.position != null ? 'P' + ev.position : 'Did Not Qualify';
  const gap = ev.gapToPole != null ? '+' + ev.gapToPole.toFixed(3) + 's' : 'No Data';
  const mate = ev.hasTeammateData ? (ev.teammateGap >= 0 ? '+' : '') + ev.teammateGap.toFixed(3) + 's' : 'No Teammate Data';
  target.innerHTML =
    '<div class="metric"><b>Position:</b> ' + pos + '</div>' +
    '<div class="metric"><b>Gap to Pole:</b> ' + gap + '</div>' +
    '<div class="metric"><b>Gap to Teammate:</b> ' + mate + '</div>' +
    (ev.wetSession ? '<div class="metric"><b>Wet Session</b></div>' : '');
}
</script>
</body>
</html>
`
