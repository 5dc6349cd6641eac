// Package httpapi exposes the codec as an HTTP façade: GET / for route
// documentation, POST /encode and POST /decode for the conversions
// themselves.
//
// Grounded in archive2dna's api.py (Flask routes "/", "/encode",
// "/decode"), ported onto github.com/gorilla/mux (seen in
// moby-moby and rxid09672-sliver-plus's go.mod). This is a façade for
// local/demo use, matching api.py's own app.run(debug=True) posture:
// no auth, no TLS termination, no rate limiting.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jbkrause/archive2dna/internal/basepack"
	"github.com/jbkrause/archive2dna/internal/codec"
	"github.com/jbkrause/archive2dna/internal/config"
	"github.com/jbkrause/archive2dna/internal/dnalog"
)

// Server wraps a codec.Codec and its configured parameters behind an
// HTTP API.
type Server struct {
	codec  *codec.Codec
	params config.Parameters
	log    *dnalog.Logger
}

// NewServer builds a Server from params and a logger.
func NewServer(params config.Parameters, log *dnalog.Logger) (*Server, error) {
	c, err := codec.New(params)
	if err != nil {
		return nil, err
	}
	return &Server{codec: c, params: params, log: log}, nil
}

// Router builds the gorilla/mux router backing the façade.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/encode", s.handleEncode).Methods(http.MethodPost)
	r.HandleFunc("/decode", s.handleDecode).Methods(http.MethodPost)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": map[string]string{
			"POST /encode": "multipart form fields: data (file), id (optional) -> DNA segments",
			"POST /decode": "raw DNA body -> binary payload",
		},
		"parameters": s.params.Name,
	})
}

// encodeResponse is the JSON body returned by POST /encode.
type encodeResponse struct {
	Segments   []string       `json:"segments"`
	Statistics map[string]any `json:"statistics"`
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	file, _, err := r.FormFile("data")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("httpapi: missing multipart field %q: %w", "data", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.FormValue("id")

	segments, stat, err := s.codec.Encode(data, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Info("encoded", "id", id, "segments", len(segments))

	var statMap map[string]any
	raw, _ := stat.JSON()
	_ = json.Unmarshal(raw, &statMap)

	writeJSON(w, http.StatusOK, encodeResponse{Segments: segments, Statistics: statMap})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := r.URL.Query().Get("id")

	segments := splitSegments(string(body))
	payload, _, err := s.codec.Decode(segments, id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.log.Info("decoded", "id", id, "bytes", len(payload))

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func splitSegments(body string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(body); i++ {
		if i == len(body) || body[i] == '\n' {
			if i > start {
				line := basepack.StripDNAText(body[start:i])
				if line != "" {
					segments = append(segments, line)
				}
			}
			start = i + 1
		}
	}
	return segments
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
