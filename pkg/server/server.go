package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/highlight"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/media"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/overlay"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// maxWordLen bounds hover/next/forms input; anything longer cannot be a
// glossary surface form.
const maxWordLen = 64

// Server handles the IPC for the overlay session
type Server struct {
	session *overlay.Session
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	writeMu sync.Mutex
}

// Creates a new overlay server using stdin/stdout for IPC
func NewServer(session *overlay.Session) *Server {
	return &Server{
		session: session,
		decoder: msgpack.NewDecoder(os.Stdin),
		encoder: msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.send(StatusResponse{Status: "ready"})

	// incoming requests stdin
	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request by command
func (s *Server) handleRequest(request Request) {
	switch request.Cmd {
	case "load":
		s.handleLoad(request)
	case "scan":
		s.handleScan(request)
	case "hover":
		s.handleHover(request)
	case "next":
		s.handleNext(request)
	case "forms":
		s.handleForms(request)
	case "clear":
		s.session.Clear()
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok", Stats: s.session.Stats()})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

// handleLoad installs a document payload and returns its matches
func (s *Server) handleLoad(request Request) {
	if request.Text == "" {
		s.sendError(request.ID, "Missing 'x' text parameter", 400)
		log.Debug("Text is empty in load request")
		return
	}

	start := time.Now()
	var container *highlight.Container
	if request.HTML {
		c, err := highlight.FromHTML(strings.NewReader(request.Text))
		if err != nil {
			s.sendError(request.ID, "Unparseable HTML payload", 400)
			log.Errorf("Parsing HTML payload: %v", err)
			return
		}
		container = c
	} else {
		container = highlight.FromText(request.Text)
	}

	matches := s.session.Load(container)
	s.sendScan(request.ID, matches, time.Since(start))
}

// handleScan repaints the current document
func (s *Server) handleScan(request Request) {
	if s.session.Container() == nil {
		s.sendError(request.ID, "No document loaded", 400)
		log.Debug("Scan requested before any load")
		return
	}
	start := time.Now()
	matches := s.session.Refresh()
	s.sendScan(request.ID, matches, time.Since(start))
}

// handleHover resolves a hover asynchronously. The response is written
// whenever the clip settles, so it may arrive after later replies.
func (s *Server) handleHover(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' word parameter", 400)
		log.Debug("Word is empty in hover request")
		return
	}
	if len(request.Word) > maxWordLen {
		s.sendError(request.ID, fmt.Sprintf("Word exceeds maximum length of %d characters", maxWordLen), 400)
		log.Debug("Word is too long in hover request")
		return
	}

	start := time.Now()
	results := s.session.Hover(context.Background(), request.Word, request.Pos)
	go func() {
		result, ok := <-results
		if !ok {
			return
		}
		s.sendHover(request.ID, result, time.Since(start))
	}()
}

// handleNext cycles an already fetched word to its next variant
func (s *Server) handleNext(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' word parameter", 400)
		return
	}

	start := time.Now()
	result, ok := s.session.Next(request.Word)
	if !ok {
		s.send(HoverResponse{
			ID:        request.ID,
			Word:      request.Word,
			Variant:   -1,
			Status:    "unavailable",
			TimeTaken: time.Since(start).Milliseconds(),
		})
		return
	}
	s.sendHover(request.ID, result, time.Since(start))
}

// handleForms lists every highlightable surface form of a word
func (s *Server) handleForms(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' word parameter", 400)
		return
	}
	forms := s.session.Forms(request.Word)
	s.send(FormsResponse{
		ID:    request.ID,
		Word:  request.Word,
		Forms: forms,
		Count: len(forms),
	})
}

func (s *Server) sendScan(id string, matches []overlay.Match, elapsed time.Duration) {
	out := make([]ScanMatch, len(matches))
	for i, m := range matches {
		out[i] = ScanMatch{
			Surface:   m.Surface,
			Canonical: m.Canonical,
			Pos:       m.Pos,
			Length:    m.Length,
		}
	}
	s.send(ScanResponse{
		ID:        id,
		Matches:   out,
		Words:     s.session.Chips(),
		Count:     len(out),
		TimeTaken: elapsed.Milliseconds(),
	})
}

func (s *Server) sendHover(id string, result media.Result, elapsed time.Duration) {
	response := HoverResponse{
		ID:        id,
		Word:      result.Word,
		Variant:   result.Variant,
		Total:     result.Total,
		EntryID:   result.Entry.ID,
		Status:    statusLabel(result.Status),
		TimeTaken: elapsed.Milliseconds(),
	}
	if result.Clip != nil {
		response.Media = result.Clip.Data
		response.MediaType = result.Clip.ContentType
	}
	s.send(response)
}

func statusLabel(status media.Status) string {
	switch status {
	case media.StatusReady:
		return "ready"
	case media.StatusNoMedia:
		return "no_media"
	case media.StatusStale:
		return "stale"
	}
	return "unknown"
}

// send encodes a response onto the msgpack stream. Hover replies come
// from their own goroutines, so writes are serialized.
func (s *Server) send(response interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(RequestError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
