package provider

// wire format of the Ergast compatible API (jolpica-f1)

type ergastResponse struct {
	MRData struct {
		Total     string     `json:"total"`
		RaceTable ergastRace `json:"RaceTable"`
	} `json:"MRData"`
}

type ergastRace struct {
	Season string        `json:"season"`
	Races  []ergastEvent `json:"Races"`
}

type ergastEvent struct {
	Season            string         `json:"season"`
	Round             string         `json:"round"`
	RaceName          string         `json:"raceName"`
	Date              string         `json:"date"`
	QualifyingResults []ergastResult `json:"QualifyingResults"`
}

type ergastResult struct {
	Number   string `json:"number"`
	Position string `json:"position"`
	Driver   struct {
		DriverID   string `json:"driverId"`
		Code       string `json:"code"`
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"Driver"`
	Constructor struct {
		ConstructorID string `json:"constructorId"`
		Name          string `json:"name"`
	} `json:"Constructor"`
	Q1 string `json:"Q1"`
	Q2 string `json:"Q2"`
	Q3 string `json:"Q3"`
}
