package httpbind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gridline/gridline/pkg/datasource"
	"github.com/gridline/gridline/pkg/export"
	"github.com/gridline/gridline/pkg/observability/logger"
	"github.com/gridline/gridline/pkg/schema"
	"github.com/gridline/gridline/pkg/viewstate"
)

type row struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// stubSource records the resolved state it was queried with.
type stubSource struct {
	result *datasource.Result[row]
	err    error
	all    []row
	allErr error

	gotSort viewstate.SortState
	gotTerm string
	gotPage int
}

func (s *stubSource) Fetch(ctx context.Context, sort viewstate.SortState, term string, page int) (*datasource.Result[row], error) {
	s.gotSort, s.gotTerm, s.gotPage = sort, term, page
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubSource) FetchAll(ctx context.Context, sort viewstate.SortState, term string) ([]row, error) {
	s.gotSort, s.gotTerm = sort, term
	if s.allErr != nil {
		return nil, s.allErr
	}
	return s.all, nil
}

func rowFields() *schema.Fields {
	return schema.New(
		schema.Field{Name: "id", Sortable: true},
		schema.Field{Name: "name", Sortable: true, Searchable: true},
		schema.Field{Name: "email", Sortable: true, Searchable: true},
	)
}

func newTestHandler(source *stubSource) *Handler[row] {
	return NewHandler(Options[row]{
		Name:         "users",
		Source:       source,
		Fields:       rowFields(),
		Config:       viewstate.Config{Distance: 5, DefaultSortField: "id", DefaultPageSize: 25},
		Logger:       logger.NewNop(),
		Exports:      export.NewRegistry(),
		ExportHeader: []string{"id", "name", "email"},
		EncodeRow: func(r row) []string {
			return []string{strconv.FormatInt(r.ID, 10), r.Name, r.Email}
		},
	})
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) TableView[row] {
	t.Helper()
	var view TableView[row]
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestTableHandler(t *testing.T) {
	source := &stubSource{
		result: &datasource.Result[row]{
			Rows: []row{{ID: 1, Name: "Jane", Email: "jane@example.com"}},
			Meta: viewstate.PaginationMetadata{Page: 2, PageSize: 25, TotalEntries: 60, TotalPages: 3},
		},
	}
	handler := newTestHandler(source)

	req := httptest.NewRequest(http.MethodGet, "/users?page=2&sort_field=name&sort_direction=desc", nil)
	w := httptest.NewRecorder()
	handler.Table(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if source.gotSort != (viewstate.SortState{Direction: viewstate.DirectionDesc, Field: "name"}) {
		t.Errorf("source sort = %+v", source.gotSort)
	}
	if source.gotPage != 2 {
		t.Errorf("source page = %d, want 2", source.gotPage)
	}

	view := decodeView(t, w)
	if view.Sort.Field != "name" || view.Sort.Direction != "desc" {
		t.Errorf("view sort = %+v", view.Sort)
	}
	if len(view.Rows) != 1 || view.Rows[0].Name != "Jane" {
		t.Errorf("view rows = %+v", view.Rows)
	}

	// window over 3 pages, current marked active
	if len(view.Window) != 3 {
		t.Fatalf("window = %+v, want 3 entries", view.Window)
	}
	for _, link := range view.Window {
		wantActive := link.Page == 2
		if link.Active != wantActive {
			t.Errorf("page %d active = %v, want %v", link.Page, link.Active, wantActive)
		}
		wantHref := viewstate.BuildQueryString(
			viewstate.ParameterMap{
				"page":           "2",
				"sort_field":     "name",
				"sort_direction": "desc",
			},
			viewstate.Overrides{"page": strconv.Itoa(link.Page)},
		)
		if link.Href != wantHref {
			t.Errorf("page %d href = %q, want %q", link.Page, link.Href, wantHref)
		}
	}

	// the active column's sort link toggles the direction and keeps the page
	for _, link := range view.SortLinks {
		if link.Field != "name" {
			continue
		}
		if !link.Active {
			t.Error("sort link for active column not marked active")
		}
		if link.Href != "page=2&sort_direction=asc&sort_field=name" {
			t.Errorf("sort link href = %q", link.Href)
		}
	}
}

func TestTableHandler_DefaultState(t *testing.T) {
	source := &stubSource{
		result: &datasource.Result[row]{
			Rows: []row{},
			Meta: viewstate.PaginationMetadata{Page: 1, PageSize: 25, TotalEntries: 0, TotalPages: 0},
		},
	}
	handler := newTestHandler(source)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	handler.Table(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if source.gotSort != (viewstate.SortState{Direction: viewstate.DirectionAsc, Field: "id"}) {
		t.Errorf("source sort = %+v, want default", source.gotSort)
	}

	view := decodeView(t, w)
	if len(view.Window) != 1 || view.Window[0].Page != 1 || !view.Window[0].Active {
		t.Errorf("degenerate window = %+v, want single active page 1", view.Window)
	}
}

func TestTableHandler_RejectsUnknownSortField(t *testing.T) {
	source := &stubSource{
		err: fmt.Errorf("rejecting sort request: %w", &schema.UnknownFieldError{Field: "evil"}),
	}
	handler := newTestHandler(source)

	req := httptest.NewRequest(http.MethodGet, "/users?sort_field=evil&sort_direction=asc", nil)
	w := httptest.NewRecorder()
	handler.Table(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTableHandler_QueryFailure(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("connection refused")}
	handler := newTestHandler(source)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	handler.Table(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestExportHandler_CSV(t *testing.T) {
	source := &stubSource{
		all: []row{
			{ID: 1, Name: "Jane", Email: "jane@example.com"},
			{ID: 2, Name: "John", Email: "john@example.com"},
		},
	}
	handler := newTestHandler(source)

	target := "/users/export?format=csv&sort_field=name&sort_direction=desc&filter%5Bisearch%5D=j"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("content type = %q, want text/csv", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="users.csv"` {
		t.Errorf("content disposition = %q", got)
	}

	// export resolves the same view state as the on-screen table
	if source.gotSort != (viewstate.SortState{Direction: viewstate.DirectionDesc, Field: "name"}) {
		t.Errorf("export sort = %+v", source.gotSort)
	}
	if source.gotTerm != "j" {
		t.Errorf("export term = %q, want j", source.gotTerm)
	}

	want := "id,name,email\n1,Jane,jane@example.com\n2,John,john@example.com\n"
	if w.Body.String() != want {
		t.Errorf("payload = %q, want %q", w.Body.String(), want)
	}
}

func TestExportHandler_UnsupportedFormat(t *testing.T) {
	handler := newTestHandler(&stubSource{})

	req := httptest.NewRequest(http.MethodGet, "/users/export?format=docx", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestExportHandler_UnregisteredEncoder(t *testing.T) {
	handler := newTestHandler(&stubSource{all: []row{}})

	req := httptest.NewRequest(http.MethodGet, "/users/export?format=xlsx", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", w.Code)
	}
}

func TestExportHandler_NotEnabled(t *testing.T) {
	handler := NewHandler(Options[row]{
		Name:   "users",
		Source: &stubSource{},
		Fields: rowFields(),
		Logger: logger.NewNop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/users/export?format=csv", nil)
	w := httptest.NewRecorder()
	handler.Export(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
