package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sponsortracker/internal/paging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const pageBody = `{
	"initial_run_time": "2023-05-01T00:00:00Z",
	"total_organisations": 45,
	"from": %d,
	"to": %d,
	"organisations": [{"ID": 1, "Name": "Acme Ltd", "TownCity": "Leeds", "County": "", "CreatedAt": null}],
	"licences": [{"ID": 10, "OrganisationID": 1, "LicenceType": "Worker", "Rating": "A rating", "Route": "Skilled Worker", "ValidFrom": null}]
}`

func TestFetchPage_Success(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, pageBody, 21, 40)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithUserAgent("tracker-test"))
	page, err := c.FetchPage(context.Background(), paging.Window{From: 21, To: 40}, "north & south")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotReq.Method)
	assert.Equal(t, "/api/data", gotReq.URL.Path)
	assert.Equal(t, "21", gotReq.URL.Query().Get("from"))
	assert.Equal(t, "40", gotReq.URL.Query().Get("to"))
	assert.Equal(t, "north & south", gotReq.URL.Query().Get("search"))
	assert.Equal(t, "tracker-test", gotReq.Header.Get("User-Agent"))
	assert.NotEmpty(t, gotReq.Header.Get("X-Request-ID"))

	assert.True(t, page.Echoes(21, 40))
	assert.Equal(t, 45, page.TotalOrganisations)
	require.Len(t, page.Organisations, 1)
	assert.Equal(t, "Acme Ltd", page.Organisations[0].Name)
	require.Len(t, page.Licences, 1)
	assert.Nil(t, page.Licences[0].ValidFrom)
}

func TestFetchPage_EmptySearchStillSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["search"]
		assert.True(t, present, "search parameter should always be present")
		fmt.Fprintf(w, pageBody, 1, 20)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPage(context.Background(), paging.First(), "")
	require.NoError(t, err)
}

func TestFetchPage_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "to (1) must be >= from (5)", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPage(context.Background(), paging.First(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, se.Body, "must be >= from")
}

func TestFetchPage_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL).FetchPage(context.Background(), paging.First(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestFetchPage_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).FetchPage(context.Background(), paging.First(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestFetchPage_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).FetchPage(context.Background(), paging.First(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestSync(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"accepted", http.StatusAccepted, false},
		{"no content", http.StatusNoContent, false},
		{"server error", http.StatusInternalServerError, true},
		{"not found", http.StatusNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/sync", r.URL.Path)
				body, _ := io.ReadAll(r.Body)
				assert.Empty(t, body)
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					io.WriteString(w, `{"NewOrganisations": 3}`)
				}
			}))
			defer srv.Close()

			err := New(srv.URL).Sync(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSyncFailed))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSync_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.URL).Sync(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyncFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "api returned status 502", (&StatusError{StatusCode: 502}).Error())
	assert.Equal(t, "api returned status 400: bad", (&StatusError{StatusCode: 400, Body: "bad"}).Error())
}
