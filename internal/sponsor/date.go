package sponsor

const datePortionLen = len("2006-01-02")

// DatePortion returns the YYYY-MM-DD prefix of an ISO-8601 timestamp.
func DatePortion(ts string) string {
	if len(ts) <= datePortionLen {
		return ts
	}
	return ts[:datePortionLen]
}

// FormatDate renders a nullable timestamp for display. A missing value means
// the record predates the first tracker run, so it renders relative to
// initialRun.
func FormatDate(ts *string, initialRun string) string {
	if ts == nil || *ts == "" {
		return "Before " + DatePortion(initialRun)
	}
	return DatePortion(*ts)
}

// RegisteredSince is the display value of the organisation's creation date.
func (p *Page) RegisteredSince(org Organisation) string {
	return FormatDate(org.CreatedAt, p.InitialRunTime)
}

// RatingValidFrom is the display value of the licence's rating start date.
func (p *Page) RatingValidFrom(lic Licence) string {
	return FormatDate(lic.ValidFrom, p.InitialRunTime)
}
