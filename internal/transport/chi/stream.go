package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Streaming defaults.
const (
	defaultChunkWords = 3
	defaultDelayMs    = 50
)

// StreamConfig controls how the summary is chunked over SSE.
type StreamConfig struct {
	// ChunkWords is the number of words emitted per chunk.
	ChunkWords int
	// DelayMs is the pause between chunks in milliseconds.
	DelayMs int
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.ChunkWords <= 0 {
		c.ChunkWords = defaultChunkWords
	}
	if c.DelayMs <= 0 {
		c.DelayMs = defaultDelayMs
	}
	return c
}

type streamChunk struct {
	Text string `json:"text"`
}

// SearchStream handles POST and GET /search/{type}/stream. GET takes the
// query from the q parameter so EventSource clients can connect. The search
// runs once; the completed summary is then replayed as SSE chunks of fixed
// word count, followed by a final event carrying the full response. Client
// disconnect stops emission.
func (s *Server) SearchStream(w http.ResponseWriter, r *http.Request) {
	searchType := chi.URLParam(r, "type")

	var query string
	if r.Method == http.MethodGet {
		query = r.URL.Query().Get("q")
	} else {
		var req searchRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
		query = req.Query
	}

	resp, err := s.search.Search(r.Context(), searchType, query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	summary := ""
	if result, found := resp.Result(); found {
		summary = result.Summary()
	}

	delay := time.Duration(s.stream.DelayMs) * time.Millisecond
	for i, chunk := range chunkWords(summary, s.stream.ChunkWords) {
		if i > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(delay):
			}
		}
		writeEvent(w, "chunk", streamChunk{Text: chunk})
		flusher.Flush()
	}

	writeEvent(w, "complete", responseToDTO(&resp))
	flusher.Flush()
}

// chunkWords splits text into groups of n words, preserving single spaces.
func chunkWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+n-1)/n)
	for i := 0; i < len(words); i += n {
		end := i + n
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

func writeEvent(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
