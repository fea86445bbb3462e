package contracts

// Ticker is one overseas comparison instrument
type Ticker struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

// String renders the ticker the way the dashboard lists it: "NVDA (英伟达)"
func (t Ticker) String() string {
	if t.Label == "" {
		return t.Symbol
	}
	return t.Symbol + " (" + t.Label + ")"
}

// Selection is an explicit, possibly empty, sector choice handed from the
// ranking stage to the mapping stage.
type Selection struct {
	Sector string
	Valid  bool
}

// Select returns a valid selection for a non-empty name
func Select(name string) Selection {
	return Selection{Sector: name, Valid: name != ""}
}

// NoSelection is the empty selection
func NoSelection() Selection {
	return Selection{}
}

// GlobalMapping is the mapper output for one selected sector
type GlobalMapping struct {
	Sector   string   `json:"sector"`
	Targets  []Ticker `json:"targets"`
	Fallback bool     `json:"fallback"`
	Note     string   `json:"note,omitempty"`
}

// MainlineView combines the sector board with the selection it drives
type MainlineView struct {
	Board    SectorBoard    `json:"board"`
	Selected *string        `json:"selected"`
	Mapping  *GlobalMapping `json:"mapping"`
	Message  string         `json:"message,omitempty"`
}
