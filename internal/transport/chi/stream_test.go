package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestSearchStream_ChunksSummary(t *testing.T) {
	r := newTestRouter(serverOpts{
		summary: "Found 3 products: Sun Hat, Beach Towel, and Sandals.",
		stream:  StreamConfig{ChunkWords: 2, DelayMs: 1},
	})

	rr := postJSON(t, r, "/search/agentic/stream", `{"query":"beach gear"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type: got %q", ct)
	}

	body := rr.Body.String()
	chunks, complete := parseEvents(t, body)

	if len(chunks) == 0 {
		t.Fatal("expected chunk events")
	}
	joined := strings.Join(chunks, " ")
	if joined != "Found 3 products: Sun Hat, Beach Towel, and Sandals." {
		t.Errorf("reassembled summary: got %q", joined)
	}
	for i, c := range chunks[:len(chunks)-1] {
		if got := len(strings.Fields(c)); got != 2 {
			t.Errorf("chunk %d: %d words, want 2", i, got)
		}
	}

	if complete == nil {
		t.Fatal("expected a complete event")
	}
	if !complete.Success {
		t.Error("complete event should carry the successful response")
	}
	if complete.Result == nil || complete.Result.Summary == "" {
		t.Error("complete event should carry the full result")
	}
}

func TestSearchStream_GetWithQueryParam(t *testing.T) {
	r := newTestRouter(serverOpts{
		summary: "Found Sun Hat for $24.00.",
		stream:  StreamConfig{ChunkWords: 2, DelayMs: 1},
	})

	req := httptest.NewRequest(http.MethodGet, "/search/agentic/stream?q=sun+hat", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	chunks, complete := parseEvents(t, rr.Body.String())
	if joined := strings.Join(chunks, " "); joined != "Found Sun Hat for $24.00." {
		t.Errorf("reassembled summary: got %q", joined)
	}
	if complete == nil || complete.Query != "sun hat" {
		t.Errorf("complete event query: got %+v", complete)
	}
}

func TestSearchStream_GetEmptyQuery_400(t *testing.T) {
	r := newTestRouter(serverOpts{stream: StreamConfig{ChunkWords: 2, DelayMs: 1}})

	req := httptest.NewRequest(http.MethodGet, "/search/agentic/stream", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearchStream_UnknownType_PlainError(t *testing.T) {
	r := newTestRouter(serverOpts{stream: StreamConfig{ChunkWords: 2, DelayMs: 1}})

	rr := postJSON(t, r, "/search/quantum/stream", `{"query":"hats"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q, want application/json", ct)
	}
}

func TestChunkWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{"empty", "", 3, nil},
		{"whitespace only", "   ", 3, nil},
		{"single group", "red sun hat", 3, []string{"red sun hat"}},
		{"uneven tail", "one two three four five", 2, []string{"one two", "three four", "five"}},
		{"one word groups", "a b c", 1, []string{"a", "b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := chunkWords(tc.text, tc.n)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("chunkWords(%q, %d) = %v, want %v", tc.text, tc.n, got, tc.want)
			}
		})
	}
}

func TestStreamConfig_Defaults(t *testing.T) {
	c := StreamConfig{}.withDefaults()
	if c.ChunkWords != defaultChunkWords {
		t.Errorf("ChunkWords: got %d", c.ChunkWords)
	}
	if c.DelayMs != defaultDelayMs {
		t.Errorf("DelayMs: got %d", c.DelayMs)
	}

	c = StreamConfig{ChunkWords: 5, DelayMs: 10}.withDefaults()
	if c.ChunkWords != 5 || c.DelayMs != 10 {
		t.Errorf("explicit values overridden: %+v", c)
	}
}

// parseEvents extracts chunk texts and the complete payload from an SSE body.
func parseEvents(t *testing.T, body string) ([]string, *searchResponse) {
	t.Helper()

	var chunks []string
	var complete *searchResponse

	blocks := strings.Split(body, "\n\n")
	for _, block := range blocks {
		var event, data string
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
		switch event {
		case "chunk":
			var c streamChunk
			if err := json.Unmarshal([]byte(data), &c); err != nil {
				t.Fatalf("decode chunk %q: %v", data, err)
			}
			chunks = append(chunks, c.Text)
		case "complete":
			var resp searchResponse
			if err := json.Unmarshal([]byte(data), &resp); err != nil {
				t.Fatalf("decode complete event: %v", err)
			}
			complete = &resp
		}
	}
	return chunks, complete
}
