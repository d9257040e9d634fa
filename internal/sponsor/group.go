package sponsor

// OrgGroup is an organisation together with its licences, in display order.
type OrgGroup struct {
	Seq          int // 1-based position in the full listing
	Organisation Organisation
	Licences     []Licence
}

// Row is one rendered table line. Organisation columns are only meaningful
// when First is set; Span is the number of rows the organisation covers.
type Row struct {
	Seq          int
	Organisation Organisation
	Licence      Licence
	First        bool
	Span         int
}

// GroupLicences indexes licences by owning organisation in a single pass.
// Relative order within each organisation is preserved.
func GroupLicences(licences []Licence) map[int][]Licence {
	byOrg := make(map[int][]Licence)
	for _, lic := range licences {
		byOrg[lic.OrganisationID] = append(byOrg[lic.OrganisationID], lic)
	}
	return byOrg
}

// Groups pairs each organisation with its licences, keeping the backend's
// organisation order. Organisations without licences produce no group, so
// they are invisible even though they count toward TotalOrganisations.
func (p *Page) Groups() []OrgGroup {
	if p == nil {
		return nil
	}
	byOrg := GroupLicences(p.Licences)
	groups := make([]OrgGroup, 0, len(p.Organisations))
	for i, org := range p.Organisations {
		lics := byOrg[org.ID]
		if len(lics) == 0 {
			continue
		}
		groups = append(groups, OrgGroup{
			Seq:          p.From + i,
			Organisation: org,
			Licences:     lics,
		})
	}
	return groups
}

// Rows flattens Groups into one row per licence.
func (p *Page) Rows() []Row {
	var rows []Row
	for _, g := range p.Groups() {
		for i, lic := range g.Licences {
			rows = append(rows, Row{
				Seq:          g.Seq,
				Organisation: g.Organisation,
				Licence:      lic,
				First:        i == 0,
				Span:         len(g.Licences),
			})
		}
	}
	return rows
}
