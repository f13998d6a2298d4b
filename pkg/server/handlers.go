package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/component"
	"github.com/vango-dev/docroutes/pkg/resolver"
	"github.com/vango-dev/docroutes/pkg/routepath"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// ResolveResponse is the body of GET /_routes/resolve.
type ResolveResponse struct {
	Path        string                    `json:"path"`
	MatchedPath string                    `json:"matchedPath,omitempty"`
	Chain       []routetable.ComponentRef `json:"chain"`
	Leaf        string                    `json:"leaf"`
	Sidebar     string                    `json:"sidebar,omitempty"`
	Fallback    bool                      `json:"fallback"`
	OutsideBase bool                      `json:"outsideBase,omitempty"`
	Generation  int64                     `json:"generation"`
}

// TableResponse is the body of GET /_routes/table.
type TableResponse struct {
	Fingerprint string                     `json:"fingerprint"`
	Generation  int64                      `json:"generation"`
	Entries     int                        `json:"entries"`
	Routes      []routetable.ManifestEntry `json:"routes"`
}

// ReloadResponse is the body of POST /_routes/reload.
type ReloadResponse struct {
	Changed     bool   `json:"changed"`
	Fingerprint string `json:"fingerprint"`
	Generation  int64  `json:"generation"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"generation": s.live.Generation(),
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("path")
	if raw == "" {
		writeError(w, http.StatusBadRequest,
			errors.New("E130").WithDetail("missing path query parameter"))
		return
	}

	cleaned, err := routepath.Clean(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("E130").WithDetail(raw).Wrap(err))
		return
	}

	res := s.resolve(r.Context(), cleaned.Path)
	writeJSON(w, http.StatusOK, ResolveResponse{
		Path:        res.Path,
		MatchedPath: matchedPath(res),
		Chain:       res.Chain,
		Leaf:        res.Leaf.Path,
		Sidebar:     res.Sidebar,
		Fallback:    res.Fallback,
		OutsideBase: res.OutsideBase,
		Generation:  res.Generation,
	})
}

func (s *Server) handleTable(w http.ResponseWriter, _ *http.Request) {
	snap := s.live.Snapshot()
	table := snap.Table()
	writeJSON(w, http.StatusOK, TableResponse{
		Fingerprint: table.Fingerprint(),
		Generation:  snap.Generation,
		Entries:     table.Len(),
		Routes:      table.Manifest().Routes,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	changed, err := s.Reload(r.Context())
	if err != nil {
		if stderrors.Is(err, errNoLoader) {
			writeError(w, http.StatusNotImplemented,
				errors.New("E110").WithDetail("no table source is configured"))
			return
		}
		writeError(w, http.StatusUnprocessableEntity, errors.FromError(err, "E110"))
		return
	}

	snap := s.live.Snapshot()
	writeJSON(w, http.StatusOK, ReloadResponse{
		Changed:     changed,
		Fingerprint: snap.Table().Fingerprint(),
		Generation:  snap.Generation,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.EscapedPath()
	cleaned, err := routepath.Clean(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("E130").WithDetail(raw).Wrap(err))
		return
	}
	if cleaned.Path != raw {
		target := cleaned.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	// Table paths are decoded, as is the path query of /_routes/resolve.
	path, err := decodePath(cleaned.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("E130").WithDetail(raw).Wrap(err))
		return
	}

	res := s.resolve(r.Context(), path)
	body, err := component.Compose(r.Context(), s.config.Components, res.Chain)
	if err != nil {
		s.logger.Error("compose failed", "path", path, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if res.Fallback {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Route-Leaf", res.Leaf.Path)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// decodePath unescapes a cleaned request path and cleans the result, so
// encoded dot segments cannot survive decoding.
func decodePath(escaped string) (string, error) {
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return "", err
	}
	cleaned, err := routepath.Clean(decoded)
	if err != nil {
		return "", err
	}
	return cleaned.Path, nil
}

func matchedPath(res resolver.Result) string {
	if res.MatchedPath == res.Path {
		return ""
	}
	return res.MatchedPath
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse wraps a coded error for JSON bodies.
type errorResponse struct {
	Error *errors.CodedError `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err *errors.CodedError) {
	writeJSON(w, status, errorResponse{Error: err})
}
