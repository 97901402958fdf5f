package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/diagram"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/render"
	"github.com/matzehuels/kintree/pkg/render/sink"
	"github.com/matzehuels/kintree/pkg/scene"
)

type viewResponse struct {
	ID    string       `json:"id"`
	Seq   int          `json:"seq"`
	Stats render.Stats `json:"stats"`
	Frame *scene.Frame `json:"frame,omitempty"`
}

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v, err := s.newView(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	page := sink.RenderHTML(v.Frame(), sink.HTMLOptions{
		Title:  s.title,
		ViewID: v.ID,
		Canvas: s.cfg.Canvas,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	v, err := s.newView(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/views/"+v.ID)
	writeJSON(w, http.StatusCreated, s.describe(v, true))
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, s.describe(v, true))
		return
	}

	svg := s.svg(v.Frame())
	etag := `"` + cache.Hash(svg) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeSVG(w, svg)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "view")
	if !s.views.Delete(id) {
		s.writeError(w, errors.New(errors.ErrCodeViewNotFound, "no view %s", id))
		return
	}
	s.metrics.viewsClosed.WithLabelValues("deleted").Inc()
	s.metrics.views.Set(float64(s.views.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "node"))
	if err != nil || id <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", chi.URLParam(r, "node")))
		return
	}

	var (
		toggled bool
		frame   scene.Frame
	)
	v.Do(func(d *diagram.Diagram, sc *scene.Scene) {
		toggled, err = d.Toggle(r.Context(), id)
		if err == nil && toggled {
			frame = sc.Commit()
			v.setFrame(frame)
		}
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !toggled {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeSVG(w, s.svg(frame))
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*View, bool) {
	id := chi.URLParam(r, "view")
	v, ok := s.views.Get(id)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeViewNotFound, "no view %s", id))
	}
	return v, ok
}

func (s *Server) describe(v *View, withFrame bool) viewResponse {
	var resp viewResponse
	v.Do(func(d *diagram.Diagram, _ *scene.Scene) {
		resp = viewResponse{ID: v.ID, Seq: v.frame.Seq, Stats: d.Stats()}
		if withFrame {
			f := v.frame
			resp.Frame = &f
		}
	})
	return resp
}

func (s *Server) svg(f scene.Frame) []byte {
	return sink.RenderSVG(f, sink.WithCanvas(s.cfg.Canvas), sink.WithInteraction())
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(svg)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeViewNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSource, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
