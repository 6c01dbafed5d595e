package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timegrid/pkg/cache"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/grid"
)

const weekRequest = `{
	"options": {
		"from": "2026-03-02T00:00:00Z",
		"to": "2026-03-09T00:00:00Z",
		"unit": "day",
		"width": 700,
		"non_working_mode": "cropped"
	}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(grid.NewBuilder(fc, nil, logger), logger, 2).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, target, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, target, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func create(t *testing.T, srv *httptest.Server) CreateResponse {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/grids", weekRequest)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /grids status = %d", resp.StatusCode)
	}
	return decode[CreateResponse](t, resp)
}

func TestCreateAndGet(t *testing.T) {
	srv := newTestServer(t)

	created := create(t, srv)
	if len(created.Grid.Columns) != 7 {
		t.Fatalf("created grid has %d columns, want 7", len(created.Grid.Columns))
	}

	resp := do(t, http.MethodGet, srv.URL+"/grids/"+created.ID.String(), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}
	got := decode[grid.Export](t, resp)
	if got.Width != 700 || len(got.Columns) != 7 {
		t.Errorf("GET returned width %v with %d columns", got.Width, len(got.Columns))
	}
}

func TestDateAndPosition(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv).ID.String()

	tests := []struct {
		name  string
		query url.Values
		want  time.Time
	}{
		{"plain", url.Values{"position": {"140"}}, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)},
		{"snapped", url.Values{"position": {"147"}, "amount": {"1"}, "unit": {"hour"}}, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)},
		{"column edge", url.Values{"position": {"180"}, "amount": {"1"}, "unit": {"column"}}, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+"/grids/"+id+"/date?"+tt.query.Encode(), "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			got := decode[DateResponse](t, resp)
			if got.Date.Sub(tt.want).Abs() > time.Millisecond {
				t.Errorf("date = %v, want %v", got.Date, tt.want)
			}
		})
	}

	resp := do(t, http.MethodGet, srv.URL+"/grids/"+id+"/position?at="+url.QueryEscape("2026-03-02T13:00:00Z"), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("position status = %d", resp.StatusCode)
	}
	if got := decode[PositionResponse](t, resp); math.Abs(got.Position-50) > 1e-6 {
		t.Errorf("position = %v, want 50", got.Position)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv).ID.String()
	missing := "00000000-0000-4000-8000-000000000000"

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"malformed body", http.MethodPost, "/grids", "{", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/grids", `{"colour": "red"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty span", http.MethodPost, "/grids", `{"options": {}}`, http.StatusBadRequest, errors.ErrCodeInvalidSpan},
		{"bad calendar", http.MethodPost, "/grids", `{"calendar": {"templates": {"day": {"start": "9"}}}, "options": {"from": "2026-03-02T00:00:00Z", "to": "2026-03-03T00:00:00Z"}}`, http.StatusBadRequest, errors.ErrCodeInvalidCalendar},
		{"bad id", http.MethodGet, "/grids/nope", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing grid", http.MethodGet, "/grids/" + missing, "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"missing position", http.MethodGet, "/grids/" + id + "/date", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad unit", http.MethodGet, "/grids/" + id + "/date?position=1&amount=1&unit=fortnight", "", http.StatusBadRequest, errors.ErrCodeInvalidUnit},
		{"bad instant", http.MethodGet, "/grids/" + id + "/position?at=yesterday", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"delete missing", http.MethodDelete, "/grids/" + missing, "", http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := decode[ErrorResponse](t, resp); got.Code != tt.wantCode {
				t.Errorf("code = %s, want %s (%s)", got.Code, tt.wantCode, got.Message)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)
	id := create(t, srv).ID.String()

	if resp := do(t, http.MethodDelete, srv.URL+"/grids/"+id, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/grids/"+id, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d", resp.StatusCode)
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	srv := newTestServer(t)
	first := create(t, srv).ID.String()
	time.Sleep(time.Millisecond)
	create(t, srv)
	time.Sleep(time.Millisecond)
	third := create(t, srv).ID.String()

	if resp := do(t, http.MethodGet, srv.URL+"/grids/"+first, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("oldest grid status = %d, want 404", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/grids/"+third, ""); resp.StatusCode != http.StatusOK {
		t.Errorf("newest grid status = %d, want 200", resp.StatusCode)
	}
}

func TestExportCaches(t *testing.T) {
	srv := newTestServer(t)

	first := do(t, http.MethodPost, srv.URL+"/export", weekRequest)
	if first.StatusCode != http.StatusOK || first.Header.Get("X-Cache") != "MISS" {
		t.Fatalf("first export: status %d, X-Cache %q", first.StatusCode, first.Header.Get("X-Cache"))
	}
	second := do(t, http.MethodPost, srv.URL+"/export", weekRequest)
	if second.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second export X-Cache = %q, want HIT", second.Header.Get("X-Cache"))
	}

	a, _ := io.ReadAll(first.Body)
	b, _ := io.ReadAll(second.Body)
	if !bytes.Equal(a, b) {
		t.Error("cached export differs")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[HealthResponse](t, resp); got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("health = %+v", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidWidth, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
