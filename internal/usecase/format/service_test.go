package format

import (
	"context"
	"strings"
	"testing"

	"github.com/retailgrid/agentsearch/internal/domain/answer"
)

func testFormatter() *Formatter {
	return New(testClock(), 2.0)
}

func TestFormat_StructuredPayload(t *testing.T) {
	raw := `{
		"results": [{"ref_id":"1","title":"Widget","content":"Name: Widget; Price: 19.99; Description: basic widget"}],
		"activity": [
			{"id":"1","type":"ModelQueryPlanning","inputTokens":100,"outputTokens":40},
			{"id":"2","type":"AzureSearchQuery","query":{"search":"widgets"},"count":1}
		],
		"references": [{"id":"r1","docKey":"doc-1","sourceData":{"title":"Widget Catalog","content":"catalog text"}}]
	}`

	resp := testFormatter().Format(context.Background(), answer.TypeAgentic, "widgets", raw)

	if !resp.Success() {
		t.Fatalf("Success() = false, error = %q", resp.Error())
	}
	result, ok := resp.Result()
	if !ok {
		t.Fatal("Result() absent on success")
	}
	if len(result.Products()) != 1 {
		t.Fatalf("Products() length = %d", len(result.Products()))
	}
	if result.Summary() != "Found Widget for $19.99." {
		t.Errorf("Summary() = %q", result.Summary())
	}

	meta, ok := resp.Metadata()
	if !ok {
		t.Fatal("Metadata() absent on success")
	}
	if meta.TotalResults() != 1 {
		t.Errorf("TotalResults() = %d", meta.TotalResults())
	}
	if meta.Stats().PlanningOperations() != 1 {
		t.Errorf("PlanningOperations() = %d", meta.Stats().PlanningOperations())
	}
	if meta.TokenUsage().TotalTokens() != 140 {
		t.Errorf("TotalTokens() = %d", meta.TokenUsage().TotalTokens())
	}
	if len(meta.Sources()) != 1 {
		t.Fatalf("Sources() length = %d", len(meta.Sources()))
	}
	if meta.Sources()[0].Title() != "Widget Catalog" {
		t.Errorf("source Title() = %q", meta.Sources()[0].Title())
	}

	if resp.RawPayload() != raw {
		t.Error("raw payload not retained verbatim")
	}
}

func TestFormat_ZeroProductsProse(t *testing.T) {
	raw := `{"response":[{"role":"assistant","content":[{"type":"text","text":"No matches."}]}]}`

	resp := testFormatter().Format(context.Background(), answer.TypeRAG, "unicorn saddle", raw)

	if !resp.Success() {
		t.Fatalf("Success() = false, error = %q", resp.Error())
	}
	result, _ := resp.Result()
	if len(result.Products()) != 0 {
		t.Fatalf("Products() length = %d", len(result.Products()))
	}
	if !strings.Contains(result.Summary(), "No products found") ||
		!strings.Contains(result.Summary(), "rephrasing") {
		t.Errorf("Summary() = %q", result.Summary())
	}
}

func TestFormat_InvalidJSONNeverFails(t *testing.T) {
	raws := []string{
		"not json at all",
		"{truncated",
		"[1, 2,",
		"\x00\x01\x02",
	}

	for _, raw := range raws {
		resp := testFormatter().Format(context.Background(), answer.TypeGeneric, "q", raw)
		if !resp.Success() {
			t.Errorf("Format(%q): Success() = false, error = %q", raw, resp.Error())
		}
	}
}

func TestFormat_Throttled(t *testing.T) {
	raw := `TooManyRequests: Rate limit is exceeded. Try again in 12 seconds.`

	resp := testFormatter().Format(context.Background(), answer.TypeAgentic, "gloves", raw)

	if resp.Success() {
		t.Fatal("Success() = true for throttled payload")
	}
	if resp.Status() != answer.StatusThrottled {
		t.Errorf("Status() = %q", resp.Status())
	}
	if resp.RetryAfterSec() != 12 {
		t.Errorf("RetryAfterSec() = %d", resp.RetryAfterSec())
	}
	if resp.Error() == "" {
		t.Error("Error() empty on failure")
	}
}

func TestFormat_UpstreamFailurePayload(t *testing.T) {
	raw := `Error processing search request: Exception: index deleted`

	resp := testFormatter().Format(context.Background(), answer.TypeDataverse, "gloves", raw)

	if resp.Success() {
		t.Fatal("Success() = true for failure payload")
	}
	if resp.Status() != answer.StatusOK {
		t.Errorf("Status() = %q", resp.Status())
	}
	if _, ok := resp.Result(); ok {
		t.Error("Result() present on failure")
	}
	if !strings.Contains(strings.ToLower(resp.Error()), "error processing search request") {
		t.Errorf("Error() = %q", resp.Error())
	}
}

func TestFormat_Idempotent(t *testing.T) {
	raw := `[{"ref_id":"1","title":"Widget","content":"Name: Widget; Price: 19.99;"}]`
	f := testFormatter()

	first := f.Format(context.Background(), answer.TypeAgentic, "widgets", raw)
	second := f.Format(context.Background(), answer.TypeAgentic, "widgets", raw)

	r1, _ := first.Result()
	r2, _ := second.Result()
	if r1.Summary() != r2.Summary() {
		t.Errorf("summaries differ: %q vs %q", r1.Summary(), r2.Summary())
	}
	if len(r1.Products()) != len(r2.Products()) {
		t.Errorf("product counts differ: %d vs %d", len(r1.Products()), len(r2.Products()))
	}
}
