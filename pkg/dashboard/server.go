package dashboard

import (
	"net/http"
	"sort"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/model"
)

// Server renders the career timeline. The timeline is loaded once
// before the server starts and never mutated; every handler only reads.
type Server struct {
	timeline model.CareerTimeline
	drivers  []string
	l        *log.Logger
}

type Option func(*Server)

func WithTimeline(arg model.CareerTimeline) Option {
	return func(s *Server) {
		s.timeline = arg
		s.drivers = lo.Keys(arg)
		sort.Strings(s.drivers)
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *Server) { s.l = arg }
}

func NewServer(opts ...Option) *Server {
	ret := &Server{
		l: log.Default().Named("dashboard"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /driver/{name}", s.handleDriverPage)
	mux.HandleFunc("GET /api/drivers", s.handleDrivers)
	mux.HandleFunc("GET /api/timeline/{name}", s.handleDriverTimeline)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if len(s.drivers) == 0 {
		http.Error(w, "no drivers in timeline", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/driver/"+s.drivers[0], http.StatusFound)
}

func (s *Server) handleDrivers(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.drivers)
}

func (s *Server) handleDriverTimeline(w http.ResponseWriter, r *http.Request) {
	driver := r.PathValue("name")
	records, ok := s.timeline[driver]
	if !ok {
		http.Error(w, "unknown driver", http.StatusNotFound)
		return
	}
	s.writeJSON(w, records)
}

func (s *Server) handleDriverPage(w http.ResponseWriter, r *http.Request) {
	driver := r.PathValue("name")
	records, ok := s.timeline[driver]
	if !ok {
		http.Error(w, "unknown driver", http.StatusNotFound)
		return
	}
	page, err := s.buildDriverPage(driver, records)
	if err != nil {
		s.l.Error("could not build driver page",
			log.String("driver", driver), log.ErrorField(err))
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page); err != nil {
		s.l.Error("could not render driver page",
			log.String("driver", driver), log.ErrorField(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	payload, err := oj.Marshal(data, &ojg.Options{Sort: true, UseTags: true})
	if err != nil {
		http.Error(w, "could not serialize response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck // client gone is not actionable
	w.Write(payload)
}
