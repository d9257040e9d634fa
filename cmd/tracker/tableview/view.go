package tableview

import (
	"fmt"
	"strconv"
	"strings"

	"sponsortracker/cmd/tracker/ui"
	"sponsortracker/internal/paging"
	"sponsortracker/internal/sponsor"
)

// Title is the header line of the table view.
const Title = "UK Sponsor Licence Tracker"

// Columns of the licence table. The first mergedColumns are organisation
// level and shown once per group.
var Columns = []string{
	"#", "Organisation", "Town/City", "Registered Since",
	"Type", "Rating", "Route", "Licence Rating Valid From",
}

const mergedColumns = 4

// RenderTable renders p as a grouped table: one row per licence, with the
// organisation columns merged across that organisation's rows. maxCell
// truncates long cells; 0 disables truncation.
func RenderTable(p *sponsor.Page, styles ui.Styles, maxCell int) string {
	return buildTable(p, maxCell).View(styles)
}

func buildTable(p *sponsor.Page, maxCell int) *ui.GroupTable {
	table := ui.NewGroupTable(Columns, mergedColumns)
	table.MaxCellWidth = maxCell

	for _, g := range p.Groups() {
		lead := []string{
			strconv.Itoa(g.Seq),
			g.Organisation.Name,
			g.Organisation.TownCity,
			p.RegisteredSince(g.Organisation),
		}
		rows := make([][]string, 0, len(g.Licences))
		for _, lic := range g.Licences {
			rows = append(rows, []string{
				lic.LicenceType,
				lic.Rating,
				lic.Route,
				p.RatingValidFrom(lic),
			})
		}
		table.AddGroup(lead, rows...)
	}
	return table
}

// StatusLine is the "Showing from–to of total" summary for p.
func StatusLine(p *sponsor.Page) string {
	w := paging.Window{From: p.From, To: p.To}
	return fmt.Sprintf("Showing %d–%d of %d organisations", p.From, w.ShownTo(p.TotalOrganisations), p.TotalOrganisations)
}

// View renders the model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(Title))
	sb.WriteString("\n\n")

	if m.mode == ModeHelp {
		sb.WriteString(m.renderHelp())
		sb.WriteString("\n")
		sb.WriteString(m.styles.Footer.Render(m.styles.Muted.Render("esc close help • q quit")))
		return sb.String()
	}

	switch {
	case m.errFrom == errLoad:
		sb.WriteString(m.styles.Content.Render(m.styles.Error.Render("Error: " + m.errMsg)))
		sb.WriteString("\n")
	case m.page == nil && m.loading:
		sb.WriteString(m.styles.Content.Render(m.spinner.View() + " Loading..."))
		sb.WriteString("\n")
	case m.page == nil:
		m.writeSyncBanner(&sb)
		sb.WriteString(m.styles.Content.Render(m.styles.Muted.Render("No data loaded. Press r to retry.")))
		sb.WriteString("\n")
	default:
		m.writeSyncBanner(&sb)
		sb.WriteString(m.styles.Content.Render(m.renderStatus()))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Content.Render(m.renderControls()))
		sb.WriteString("\n")
		if m.rows == 0 {
			sb.WriteString(m.styles.Content.Render(m.styles.Muted.Render("No organisations with licences in this range.")))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Content.Render(m.viewport.View()))
		sb.WriteString("\n")
	}

	if m.mode == ModeSearch || m.mode == ModePage {
		sb.WriteString(m.styles.Content.Render(m.input.View()))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Footer.Render(m.help.View(promptKeys{m.keys})))
		return sb.String()
	}

	sb.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return sb.String()
}

func (m Model) writeSyncBanner(sb *strings.Builder) {
	if m.errFrom != errSync {
		return
	}
	sb.WriteString(m.styles.Content.Render(m.styles.Error.Render("⚠ " + m.errMsg)))
	sb.WriteString("\n\n")
}

func (m Model) renderStatus() string {
	parts := []string{m.styles.Bold.Render(StatusLine(m.page))}
	if m.search != "" {
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("search %q", m.search)))
	}
	if m.loading {
		parts = append(parts, m.spinner.View()+m.styles.Muted.Render(" loading"))
	}
	if m.syncing {
		parts = append(parts, m.spinner.View()+m.styles.Info.Render(" syncing"))
	}
	return strings.Join(parts, m.styles.Muted.Render(" • "))
}

// renderControls draws the pager. Disabled controls are struck through.
func (m Model) renderControls() string {
	button := func(label string, enabled bool) string {
		if enabled {
			return m.styles.Button.Render(label)
		}
		return m.styles.Disabled.Render(label)
	}

	parts := []string{button("‹ Previous", m.keys.Prev.Enabled())}
	// An empty result has no pages to count
	if pages := paging.PageCount(m.total()); pages > 0 {
		current := (m.window.From-1)/paging.PageSize + 1
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("Page %d of %d", current, pages)))
	}
	parts = append(parts, button("Next ›", m.keys.Next.Enabled()))
	return strings.Join(parts, "  ")
}
