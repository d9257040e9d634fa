package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"
	"testing"

	"sponsortracker/internal/paging"
	"sponsortracker/internal/sponsor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRegister serves a synthetic listing of total organisations, each with
// one licence, except IDs divisible by noLicenceEvery which have none.
type fakeRegister struct {
	mu             sync.Mutex
	total          int
	noLicenceEvery int
	failFrom       int // fail the page starting here
	skewFrom       int // echo a wrong range for the page starting here
	requests       []paging.Window
	searches       []string
}

func (f *fakeRegister) FetchPage(ctx context.Context, w paging.Window, search string) (*sponsor.Page, error) {
	f.mu.Lock()
	f.requests = append(f.requests, w)
	f.searches = append(f.searches, search)
	f.mu.Unlock()

	if w.From == f.failFrom {
		return nil, errors.New("boom")
	}

	p := &sponsor.Page{
		InitialRunTime:     "2023-05-01T00:00:00Z",
		TotalOrganisations: f.total,
		From:               w.From,
		To:                 w.To,
	}
	if w.From == f.skewFrom {
		p.From++
	}
	for id := w.From; id <= w.To && id <= f.total; id++ {
		p.Organisations = append(p.Organisations, sponsor.Organisation{ID: id, Name: fmt.Sprintf("Org %d", id)})
		if f.noLicenceEvery > 0 && id%f.noLicenceEvery == 0 {
			continue
		}
		p.Licences = append(p.Licences, sponsor.Licence{ID: 1000 + id, OrganisationID: id, LicenceType: "Worker"})
	}
	return p, nil
}

func TestWalk_FetchesEveryPageInOrder(t *testing.T) {
	f := &fakeRegister{total: 45}

	pages, err := Walk(context.Background(), f, Options{Search: "ltd", Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, 1, pages[0].From)
	assert.Equal(t, 21, pages[1].From)
	assert.Equal(t, 41, pages[2].From)
	assert.Len(t, pages[2].Organisations, 5)

	assert.Len(t, f.requests, 3)
	for _, s := range f.searches {
		assert.Equal(t, "ltd", s)
	}
}

func TestWalk_SinglePage(t *testing.T) {
	f := &fakeRegister{total: 7}

	pages, err := Walk(context.Background(), f, Options{})
	require.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Len(t, f.requests, 1)
}

func TestWalk_PageFailure(t *testing.T) {
	f := &fakeRegister{total: 45, failFrom: 21}

	_, err := Walk(context.Background(), f, Options{Concurrency: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 21-40")
}

func TestWalk_RangeMismatch(t *testing.T) {
	f := &fakeRegister{total: 45, skewFrom: 41}

	_, err := Walk(context.Background(), f, Options{Concurrency: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRangeMismatch))
}

func TestWriteCSV(t *testing.T) {
	f := &fakeRegister{total: 45, noLicenceEvery: 10}
	pages, err := Walk(context.Background(), f, Options{Concurrency: 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, pages)
	require.NoError(t, err)

	// 45 organisations, IDs 10/20/30/40 have no licences.
	assert.Equal(t, 41, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 42)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"1", "Org 1", "", "", "Before 2023-05-01", "Worker", "", "", "Before 2023-05-01"}, records[1])
	assert.Equal(t, "11", records[10][0], "sequence skips organisation 10 which has no licences")
	assert.Equal(t, "45", records[41][0])
}
