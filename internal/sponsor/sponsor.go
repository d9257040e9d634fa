// Package sponsor holds the sponsor register data model as served by the
// tracker API, plus the client-side derivations used to render it.
package sponsor

// Organisation is a licensed sponsor organisation.
// Field names double as JSON keys because the backend encodes its structs
// without tags.
type Organisation struct {
	ID        int
	Name      string
	TownCity  string
	County    string
	CreatedAt *string // nil = existed before the tracker's first run
}

// Licence is a single sponsor licence held by an organisation.
type Licence struct {
	ID             int
	OrganisationID int
	LicenceType    string  // "Worker" or "Temporary Worker"
	Rating         string  // "A rating" or "B rating"
	Route          string  // "Skilled Worker", etc.
	ValidFrom      *string // nil = rating predates the tracker's first run
}

// Page is one window of the register as returned by GET /api/data.
// Licences covers every organisation in Organisations and is not itself
// range limited.
type Page struct {
	InitialRunTime     string         `json:"initial_run_time"`
	TotalOrganisations int            `json:"total_organisations"`
	From               int            `json:"from"`
	To                 int            `json:"to"`
	Organisations      []Organisation `json:"organisations"`
	Licences           []Licence      `json:"licences"`
}

// Echoes reports whether the page answers a request for [from, to].
func (p *Page) Echoes(from, to int) bool {
	return p != nil && p.From == from && p.To == to
}
