package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/cell"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/models"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/output"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/summary"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/upstream"
	"github.com/ukaji3/fraudtab-go/pkg/fraudtab/view"
	"go.uber.org/zap"
)

const (
	MaxBodySize   = 10 << 20
	MaxUploadSize = 20 << 20
)

// Analyzer forwards an uploaded statement to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, r io.Reader) (models.RawValue, error)
}

// HealthReporter returns the last known upstream health.
type HealthReporter interface {
	Snapshot() upstream.Snapshot
}

// Handler serves the HTTP API.
type Handler struct {
	Options   fraudtab.Options
	Formatter *cell.Formatter
	Analyzer  Analyzer
	Health    HealthReporter
	Logger    *zap.Logger
	// Now stamps export filenames and reports. Nil means time.Now.
	Now func() time.Time
}

// NewHandler creates a new Handler. analyzer and health may be nil, in which
// case the routes depending on them report the service as unavailable.
func NewHandler(opts fraudtab.Options, analyzer Analyzer, health HealthReporter, logger *zap.Logger) (*Handler, error) {
	f, err := opts.Formatter()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Options:   opts,
		Formatter: f,
		Analyzer:  analyzer,
		Health:    health,
		Logger:    logger,
		Now:       time.Now,
	}, nil
}

// RegisterRoutes mounts every route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/api/table", h.Table)
	r.Post("/api/export/{format}", h.Export)
	r.Post("/api/analyze", h.Analyze)
	r.Get("/api/upstream/health", h.UpstreamHealth)
}

// tableResponse is a rendered page plus the verdict, when there is one.
type tableResponse struct {
	fraudtab.Page
	Verdict *summary.Verdict `json:"verdict,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Table renders one page of the posted JSON value.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	state, err := h.stateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := fraudtab.LoadReader(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeTable(w, res, state)
}

// Export returns the posted JSON value as a downloadable artifact. With a
// query or sort in the URL only the matching rows are exported, in order.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := output.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := h.stateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := fraudtab.LoadReader(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	opts := h.Options.ExportOptions(q.Get("filename"), res.Subtitle())
	opts.Now = h.now()
	if sheet := q.Get("sheet"); sheet != "" {
		opts.SheetName = sheet
	}

	var buf bytes.Buffer
	if state.Query != "" || state.Sort.Active() {
		err = res.ExportView(&buf, state, format, opts)
	} else {
		err = res.Export(&buf, format, opts)
	}
	if err != nil {
		h.Logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := output.Filename(opts.Filename, format, opts.Now)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// Analyze forwards the uploaded "file" to the analysis service and renders the result.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service is not configured")
		return
	}
	state, err := h.stateFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if err := upstream.ValidateUpload(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := h.Analyzer.Analyze(r.Context(), header.Filename, file)
	if err != nil {
		var verr *upstream.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Details: verr.Messages()})
		case errors.Is(err, upstream.ErrUnsupportedUpload):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.Logger.Warn("analysis failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}
	h.writeTable(w, fraudtab.Load(raw), state)
}

// UpstreamHealth reports the last health check of the analysis service.
func (h *Handler) UpstreamHealth(w http.ResponseWriter, r *http.Request) {
	snap := upstream.Snapshot{Status: upstream.StatusUnknown}
	if h.Health != nil {
		snap = h.Health.Snapshot()
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) writeTable(w http.ResponseWriter, res *fraudtab.Result, state view.State) {
	page := res.Present(res.View(state), h.Formatter)
	writeJSON(w, http.StatusOK, tableResponse{Page: page, Verdict: res.Verdict})
}

// stateFromQuery reads q, sort, dir, page and size. A sort key without a
// direction sorts ascending.
func (h *Handler) stateFromQuery(r *http.Request) (view.State, error) {
	q := r.URL.Query()
	state := h.Options.State()

	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return view.State{}, fmt.Errorf("invalid page size %q", v)
		}
		state = state.WithPageSize(n)
	}
	state = state.WithQuery(q.Get("q"))

	if key := q.Get("sort"); key != "" {
		dir, err := view.ParseDirection(q.Get("dir"))
		if err != nil {
			return view.State{}, err
		}
		if dir == view.None {
			dir = view.Ascending
		}
		state = state.WithSort(view.SortSpec{Key: key, Direction: dir})
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return view.State{}, fmt.Errorf("invalid page %q", v)
		}
		state = state.WithPage(n)
	}
	return state, nil
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
