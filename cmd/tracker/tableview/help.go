package tableview

import (
	"fmt"

	"sponsortracker/internal/paging"
)

const helpMarkdown = `# Keys

| Key | Action |
|-----|--------|
| ← / p | Previous %[1]d organisations |
| → / n | Next %[1]d organisations |
| g | Go to a page number |
| / | Search organisation names (starts again from page 1) |
| r | Refresh the current page |
| s | Ask the server to sync with the published register |
| ↑ ↓ PgUp PgDn | Scroll the table |
| ? / esc | Close this help |
| q | Quit |

## Reading the table

Each organisation is listed once, with one line per licence it holds.
Organisations without any licences are not listed but still count toward
the total.

Dates shown as *Before YYYY-MM-DD* were already on the register when the
tracker first ran, so the exact date is unknown.

Syncing does not reload the table. Press **r** once the sync has finished.
`

// renderHelp renders the help screen, falling back to raw markdown if the
// renderer is unavailable or fails.
func (m Model) renderHelp() (result string) {
	content := fmt.Sprintf(helpMarkdown, paging.PageSize)

	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}
