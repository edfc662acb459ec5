package model

// RawQualifyingRow is one driver's classification in one qualifying
// session. Rows are written once by the collector and read-only
// afterwards.
type RawQualifyingRow struct {
	Season     int
	Round      int
	EventName  string
	DriverID   string
	DriverName string
	TeamName   string
	// Position is the classified qualifying position, 1 = pole.
	// 0 means the driver was not classified.
	Position   int
	Q1         LapTime
	Q2         LapTime
	Q3         LapTime
	WetSession bool
}

// BestLap is the fastest time the driver set in the session: the last
// segment reached wins (Q3 over Q2 over Q1).
func (r *RawQualifyingRow) BestLap() LapTime {
	switch {
	case r.Q3.Valid():
		return r.Q3
	case r.Q2.Valid():
		return r.Q2
	default:
		return r.Q1
	}
}
