package httpbind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridline/gridline/pkg/datasource"
	"github.com/gridline/gridline/pkg/export"
	"github.com/gridline/gridline/pkg/observability/logger"
	"github.com/gridline/gridline/pkg/schema"
	"github.com/gridline/gridline/pkg/viewstate"
)

// Source is the data-source contract the handlers consume. A
// *datasource.Table satisfies it; tests may supply stubs.
type Source[T any] interface {
	Fetch(ctx context.Context, sort viewstate.SortState, term string, page int) (*datasource.Result[T], error)
	FetchAll(ctx context.Context, sort viewstate.SortState, term string) ([]T, error)
}

// Options configures a Handler.
type Options[T any] struct {
	// Name identifies the table; it becomes the export filename stem
	// and the tracing span prefix.
	Name string
	// Source provides rows and pagination metadata.
	Source Source[T]
	// Fields is the column whitelist.
	Fields *schema.Fields
	// Config carries the engine defaults.
	Config viewstate.Config
	// Logger receives request-scoped log entries.
	Logger logger.Logger
	// Exports renders export documents. Optional; export requests fail
	// with 404 when nil.
	Exports *export.Registry
	// ExportHeader is the header row for exports.
	ExportHeader []string
	// EncodeRow converts one row into export cells.
	EncodeRow func(T) []string
}

// Handler serves the table view model and exports over HTTP.
type Handler[T any] struct {
	opts   Options[T]
	cfg    viewstate.Config
	tracer trace.Tracer
}

// NewHandler creates a Handler from options.
func NewHandler[T any](opts Options[T]) *Handler[T] {
	if opts.Name == "" {
		opts.Name = "table"
	}
	return &Handler[T]{
		opts:   opts,
		cfg:    opts.Config.Normalize(),
		tracer: otel.Tracer("gridline/httpbind"),
	}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Table handles GET requests for one rendered table page. The query
// string is the single source of view state; the response carries the
// next-state links for every sort header and window page, all built
// through the engine's query-string reconciler.
func (h *Handler[T]) Table(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), fmt.Sprintf("%s.table", h.opts.Name))
	defer span.End()

	log := h.opts.Logger.WithContext(ctx)
	params := ParamsFromRequest(r)

	sort := viewstate.ResolveSort(params, h.cfg.DefaultSortField)
	term := viewstate.ExtractSearchTerm(params)
	page := params.Page()

	span.SetAttributes(
		attribute.String("table.sort_field", sort.Field),
		attribute.String("table.sort_direction", string(sort.Direction)),
		attribute.Int("table.page", page),
	)

	result, err := h.opts.Source.Fetch(ctx, sort, term, page)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.writeFetchError(w, log, err)
		return
	}

	view := h.buildView(params, sort, term, result)
	log.Debug("table rendered",
		"table", h.opts.Name,
		"rows", len(result.Rows),
		"page", result.Meta.Page,
		"total_entries", result.Meta.TotalEntries,
	)
	writeJSON(w, http.StatusOK, view)
}

// Export handles GET requests for a file export. The format selector
// comes from the "format" query parameter; sort and search state
// resolve exactly as for the on-screen table so the file matches the
// view.
func (h *Handler[T]) Export(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), fmt.Sprintf("%s.export", h.opts.Name))
	defer span.End()

	log := h.opts.Logger.WithContext(ctx)
	if h.opts.Exports == nil || h.opts.EncodeRow == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "exports are not enabled"})
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	params := ParamsFromRequest(r)
	sort := viewstate.ResolveSort(params, h.cfg.DefaultSortField)
	term := viewstate.ExtractSearchTerm(params)

	rows, err := h.opts.Source.FetchAll(ctx, sort, term)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.writeFetchError(w, log, err)
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, h.opts.EncodeRow(row))
	}

	doc, err := h.opts.Exports.Export(h.opts.Name, format, h.opts.ExportHeader, cells)
	if err != nil {
		var noEncoderErr *export.NoEncoderError
		if errors.As(err, &noEncoderErr) {
			writeJSON(w, http.StatusNotImplemented, errorResponse{Error: err.Error()})
			return
		}
		span.SetStatus(codes.Error, err.Error())
		log.Error("export failed", "table", h.opts.Name, "format", format, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "export failed"})
		return
	}

	recordExport(h.opts.Name, string(format))
	log.Info("export generated",
		"table", h.opts.Name,
		"format", format,
		"rows", len(rows),
		"filename", doc.Filename,
	)

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Payload)
}

// writeFetchError maps data-source failures to responses. Whitelist
// rejections are client errors carrying the rejected field name, since
// that name came in from the URL.
func (h *Handler[T]) writeFetchError(w http.ResponseWriter, log logger.Logger, err error) {
	var unknownErr *schema.UnknownFieldError
	var notSortableErr *schema.NotSortableError
	if errors.As(err, &unknownErr) || errors.As(err, &notSortableErr) {
		log.Warn("rejected sort field", "table", h.opts.Name, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	log.Error("table query failed", "table", h.opts.Name, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "query failed"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
