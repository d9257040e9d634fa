// Package export walks the complete organisation listing page by page and
// writes it out as CSV, one record per licence, in on-screen order.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"sponsortracker/internal/logging"
	"sponsortracker/internal/paging"
	"sponsortracker/internal/sponsor"

	"golang.org/x/sync/errgroup"
)

// ErrRangeMismatch is returned when the API answers a page request with a
// different range than was asked for.
var ErrRangeMismatch = errors.New("page range mismatch")

// PageFetcher fetches one window of the register.
type PageFetcher interface {
	FetchPage(ctx context.Context, w paging.Window, search string) (*sponsor.Page, error)
}

// Options controls a listing walk.
type Options struct {
	Search      string
	Concurrency int
}

// Header is the CSV header row.
var Header = []string{
	"#", "Organisation", "Town/City", "County", "Registered Since",
	"Type", "Rating", "Route", "Licence Rating Valid From",
}

// Walk fetches every page for opts.Search. The first page is fetched alone
// to learn the total; the rest are fetched concurrently. Pages are returned
// in listing order.
func Walk(ctx context.Context, f PageFetcher, opts Options) ([]*sponsor.Page, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	first, err := fetch(ctx, f, paging.First(), opts.Search)
	if err != nil {
		return nil, err
	}

	count := paging.PageCount(first.TotalOrganisations)
	if count <= 1 {
		return []*sponsor.Page{first}, nil
	}
	logging.Export("walking %d pages (total %d, search %q, concurrency %d)",
		count, first.TotalOrganisations, opts.Search, opts.Concurrency)

	pages := make([]*sponsor.Page, count)
	pages[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for n := 2; n <= count; n++ {
		g.Go(func() error {
			p, err := fetch(gctx, f, paging.Page(n), opts.Search)
			if err != nil {
				return err
			}
			pages[n-1] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func fetch(ctx context.Context, f PageFetcher, w paging.Window, search string) (*sponsor.Page, error) {
	p, err := f.FetchPage(ctx, w, search)
	if err != nil {
		return nil, fmt.Errorf("page %d-%d: %w", w.From, w.To, err)
	}
	if !p.Echoes(w.From, w.To) {
		return nil, fmt.Errorf("%w: requested %d-%d, got %d-%d", ErrRangeMismatch, w.From, w.To, p.From, p.To)
	}
	logging.ExportDebug("page %d-%d: %d organisations", w.From, w.To, len(p.Organisations))
	return p, nil
}

// WriteCSV writes the header and one record per licence row. Organisation
// columns are repeated on every row of the organisation.
func WriteCSV(w io.Writer, pages []*sponsor.Page) (rows int, err error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range pages {
		for _, r := range p.Rows() {
			rec := []string{
				strconv.Itoa(r.Seq),
				r.Organisation.Name,
				r.Organisation.TownCity,
				r.Organisation.County,
				p.RegisteredSince(r.Organisation),
				r.Licence.LicenceType,
				r.Licence.Rating,
				r.Licence.Route,
				p.RatingValidFrom(r.Licence),
			}
			if err := cw.Write(rec); err != nil {
				return rows, fmt.Errorf("failed to write row: %w", err)
			}
			rows++
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}
	return rows, nil
}
