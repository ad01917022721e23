package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/netscope/pkg/buildinfo"
	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/interact"
	"github.com/matzehuels/netscope/pkg/render/dot"
	"github.com/matzehuels/netscope/pkg/render/svg"
	"github.com/matzehuels/netscope/pkg/scene"
	"github.com/matzehuels/netscope/pkg/source"
)

const (
	maxTicksPerRequest = 600
	maxTickMillis      = 1000 // upper bound of dt_ms
)

// frameResponse is the state returned by most session endpoints.
type frameResponse struct {
	ID              string       `json:"id"`
	Network         string       `json:"network,omitempty"`
	Settled         bool         `json:"settled"`
	Dragging        bool         `json:"dragging,omitempty"`
	StopPropagation bool         `json:"stop_propagation,omitempty"`
	Frame           scene.Frame  `json:"frame"`
	Card            *engine.Card `json:"card,omitempty"`
}

func snapshot(sess *session, e *engine.Engine) frameResponse {
	resp := frameResponse{
		ID:       sess.id,
		Network:  sess.network,
		Settled:  e.Settled(),
		Dragging: e.Dragging(),
		Frame:    e.Frame(),
	}
	if card, ok := e.Card(); ok {
		resp.Card = &card
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessionCount(),
	})
}

func (s *Server) handleNetworks(w http.ResponseWriter, r *http.Request) {
	catalog := s.opts.Resolver.Catalog()
	if catalog == nil {
		catalog = []source.Entry{}
	}
	respond(w, http.StatusOK, catalog)
}

type loadRequest struct {
	Network string `json:"network"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req, err := decode[loadRequest](w, r)
	if err != nil {
		respondError(w, err)
		return
	}

	sess, err := s.openSession(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	if req.Network != "" {
		if _, err := s.load(r, sess, req.Network); err != nil {
			_ = s.closeSession(r.Context(), sess.id)
			respondError(w, err)
			return
		}
	}

	var resp frameResponse
	if err := sess.do(r.Context(), func(e *engine.Engine) { resp = snapshot(sess, e) }); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.closeSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withSession resolves the session in the URL, runs fn on its loop and
// writes the result.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session, *engine.Engine) (frameResponse, error)) {
	sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	var (
		resp  frameResponse
		fnErr error
	)
	if err := sess.do(r.Context(), func(e *engine.Engine) { resp, fnErr = fn(sess, e) }); err != nil {
		respondError(w, err)
		return
	}
	if fnErr != nil {
		respondError(w, fnErr)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session, e *engine.Engine) (frameResponse, error) {
		return snapshot(sess, e), nil
	})
}

// eventRequest is a pointer gesture or an interaction event. Coordinates
// are screen coordinates for pointer gestures and world coordinates for
// drag events.
type eventRequest struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Delta float64 `json:"delta"`
	Node  string  `json:"node"`
}

// Event types.
const (
	EventPointerDown     = "pointer_down"
	EventPointerMove     = "pointer_move"
	EventPointerUp       = "pointer_up"
	EventPointerLeave    = "pointer_leave"
	EventWheel           = "wheel"
	EventPan             = "pan"
	EventResetView       = "reset_view"
	EventSelect          = "select"
	EventClear           = "clear"
	EventNodeEnter       = "node_enter"
	EventNodeExit        = "node_exit"
	EventNodeClick       = "node_click"
	EventBackgroundClick = "background_click"
	EventDragStart       = "drag_start"
	EventDragMove        = "drag_move"
	EventDragEnd         = "drag_end"
)

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	req, err := decode[eventRequest](w, r)
	if err != nil {
		respondError(w, err)
		return
	}

	s.withSession(w, r, func(sess *session, e *engine.Engine) (frameResponse, error) {
		stop, err := apply(e, req)
		if err != nil {
			return frameResponse{}, err
		}
		resp := snapshot(sess, e)
		resp.StopPropagation = stop
		return resp, nil
	})
}

// apply feeds one event to e and reports whether the interaction layer
// asked to stop propagation.
func apply(e *engine.Engine, req eventRequest) (bool, error) {
	at := geom.Point{X: req.X, Y: req.Y}
	switch req.Type {
	case EventPointerDown:
		e.PointerDown(at)
	case EventPointerMove:
		e.PointerMove(at)
	case EventPointerUp:
		e.PointerUp(at)
	case EventPointerLeave:
		e.PointerLeave()
	case EventWheel:
		e.Wheel(at, req.Delta)
	case EventPan:
		e.Pan(req.DX, req.DY)
	case EventResetView:
		e.ResetView()
	case EventSelect:
		return false, e.Select(req.Node)
	case EventClear:
		e.ClearSelection()
	case EventNodeEnter:
		return e.Dispatch(interact.PointerEnter{Node: req.Node}).StopPropagation, nil
	case EventNodeExit:
		return e.Dispatch(interact.PointerExit{Node: req.Node}).StopPropagation, nil
	case EventNodeClick:
		return e.Dispatch(interact.NodeClick{Node: req.Node}).StopPropagation, nil
	case EventBackgroundClick:
		return e.Dispatch(interact.BackgroundClick{}).StopPropagation, nil
	case EventDragStart:
		return e.Dispatch(interact.DragStart{Node: req.Node, At: at}).StopPropagation, nil
	case EventDragMove:
		return e.Dispatch(interact.DragMove{At: at}).StopPropagation, nil
	case EventDragEnd:
		return e.Dispatch(interact.DragEnd{}).StopPropagation, nil
	default:
		return false, errors.New(errors.ErrCodeInvalidInput, "unknown event type %q", req.Type)
	}
	return false, nil
}

type tickRequest struct {
	// DT is the simulated time per tick in milliseconds, default one frame.
	DT float64 `json:"dt_ms"`
	// Ticks is the number of ticks to run, default 1.
	Ticks int `json:"ticks"`
	// Settle runs ticks until the simulation settles, at most
	// maxTicksPerRequest.
	Settle bool `json:"settle"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	req, err := decode[tickRequest](w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	if req.DT < 0 || req.DT > maxTickMillis || req.Ticks < 0 || req.Ticks > maxTicksPerRequest {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "dt_ms must be in [0, %d] and ticks in [0, %d]", maxTickMillis, maxTicksPerRequest))
		return
	}

	s.withSession(w, r, func(sess *session, e *engine.Engine) (frameResponse, error) {
		switch {
		case req.Settle:
			e.Settle(maxTicksPerRequest)
		default:
			dt := e.Options().Sim.Frame
			if req.DT > 0 {
				dt = time.Duration(req.DT * float64(time.Millisecond))
			}
			for range max(req.Ticks, 1) {
				e.Tick(dt)
			}
		}
		return snapshot(sess, e), nil
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	req, err := decode[loadRequest](w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	if req.Network == "" {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "network is required"))
		return
	}

	sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	resp, err := s.load(r, sess, req.Network)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

// load fetches ref outside the session loop and installs it with a load
// ticket, so a newer load started meanwhile wins.
func (s *Server) load(r *http.Request, sess *session, ref string) (frameResponse, error) {
	ctx := r.Context()
	if !s.opts.AllowRefs {
		if _, ok := s.opts.Resolver.Lookup(ref); !ok {
			return frameResponse{}, errors.New(errors.ErrCodeNetworkNotFound, "unknown network %q", ref)
		}
	}

	var ticket engine.Ticket
	if err := sess.do(ctx, func(e *engine.Engine) { ticket = e.BeginLoad() }); err != nil {
		return frameResponse{}, err
	}

	doc, fetchErr := s.opts.Resolver.Open(ctx, ref)

	var (
		resp    frameResponse
		loadErr error
	)
	err := sess.do(ctx, func(e *engine.Engine) {
		if loadErr = e.CompleteLoad(ticket, doc, fetchErr); loadErr != nil {
			return
		}
		sess.network = ref
		resp = snapshot(sess, e)
	})
	if err != nil {
		return frameResponse{}, err
	}
	if loadErr != nil {
		s.logger.Warn("load failed", "session", sess.id, "network", ref, "err", loadErr)
		return frameResponse{}, loadErr
	}
	s.logger.Info("session loaded network", "session", sess.id, "network", ref,
		"nodes", len(resp.Frame.Nodes), "edges", len(resp.Frame.Edges))
	return resp, nil
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	renderer := r.URL.Query().Get("renderer")
	if renderer != "" && renderer != "native" && renderer != "graphviz" {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "unknown renderer %q", renderer))
		return
	}

	var frame scene.Frame
	sess, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := sess.do(r.Context(), func(e *engine.Engine) { frame = e.Frame() }); err != nil {
		respondError(w, err)
		return
	}

	var out []byte
	if renderer == "graphviz" {
		out, err = dot.Render(r.Context(), &frame, dot.Options{Labels: true})
		if err != nil {
			respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "render graphviz"))
			return
		}
	} else {
		out = svg.Render(&frame)
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
