package format

import "testing"

func TestExtractProducts_StructuredArray(t *testing.T) {
	in := ingest(`[{"ref_id":"1","title":"Widget","content":"Name: Widget; Price: 19.99; Description: basic widget"}]`)

	records, strategy := extractProducts(&in)
	if strategy != strategyStructured {
		t.Fatalf("strategy = %q, want %q", strategy, strategyStructured)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if name, _ := r.Name(); name != "Widget" {
		t.Errorf("Name() = %q", name)
	}
	if price, ok := r.Price(); !ok || price != 19.99 {
		t.Errorf("Price() = %v, %v", price, ok)
	}
	if desc, _ := r.Description(); desc != "basic widget" {
		t.Errorf("Description() = %q", desc)
	}
	if refID, _ := r.RefID(); refID != "1" {
		t.Errorf("RefID() = %q", refID)
	}
	if r.RelevanceScore() != relevanceStructured {
		t.Errorf("RelevanceScore() = %v", r.RelevanceScore())
	}
}

func TestExtractProducts_StructuredWinsExclusively(t *testing.T) {
	in := ingest(`{
		"results": [{"ref_id":"1","title":"Widget","content":"Name: Widget; Price: 19.99;"}],
		"content": "Name: Sun Hat Price: $24.00"
	}`)

	records, strategy := extractProducts(&in)
	if strategy != strategyStructured {
		t.Fatalf("strategy = %q, want %q", strategy, strategyStructured)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if name, _ := records[0].Name(); name != "Widget" {
		t.Errorf("Name() = %q, free-text result must not leak in", name)
	}
}

func TestExtractProducts_FreeTextPair(t *testing.T) {
	in := ingest(`Name: Sun Hat Price: $24.00`)

	records, strategy := extractProducts(&in)
	if strategy != strategyPairs {
		t.Fatalf("strategy = %q, want %q", strategy, strategyPairs)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if name, _ := records[0].Name(); name != "Sun Hat" {
		t.Errorf("Name() = %q", name)
	}
	if price, ok := records[0].Price(); !ok || price != 24.00 {
		t.Errorf("Price() = %v, %v", price, ok)
	}
}

func TestExtractProducts_GrammarText(t *testing.T) {
	in := ingest(`Name: Mountain Bike; Price: 1299.99; ProductNumber: BK-M68; Description: full suspension`)

	records, strategy := extractProducts(&in)
	if strategy != strategyGrammar {
		t.Fatalf("strategy = %q, want %q", strategy, strategyGrammar)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if name, _ := r.Name(); name != "Mountain Bike" {
		t.Errorf("Name() = %q", name)
	}
	if num, _ := r.ProductNumber(); num != "BK-M68" {
		t.Errorf("ProductNumber() = %q", num)
	}
}

func TestExtractProducts_ListFallback(t *testing.T) {
	in := ingest("Here are some options:\n- Trail Speaker $49.99 wireless and waterproof\n2) Camp Light $12.50 rechargeable")

	records, strategy := extractProducts(&in)
	if strategy != strategyList {
		t.Fatalf("strategy = %q, want %q", strategy, strategyList)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if name, _ := records[0].Name(); name != "Trail Speaker wireless and waterproof" {
		t.Errorf("Name() = %q", name)
	}
	if price, _ := records[0].Price(); price != 49.99 {
		t.Errorf("Price() = %v", price)
	}
	if desc, _ := records[0].Description(); desc != "Features: wireless, waterproof" {
		t.Errorf("Description() = %q", desc)
	}
	if records[0].RelevanceScore() != relevanceList {
		t.Errorf("RelevanceScore() = %v", records[0].RelevanceScore())
	}
}

func TestExtractProducts_BadPriceKeepsRecord(t *testing.T) {
	in := ingest(`[{"ref_id":"9","content":"Name: Gadget; Price: abc; Description: handy"}]`)

	records, _ := extractProducts(&in)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if _, ok := records[0].Price(); ok {
		t.Error("unparseable price must stay absent")
	}
	if name, _ := records[0].Name(); name != "Gadget" {
		t.Errorf("Name() = %q", name)
	}
}

func TestExtractStructured_SkipsUnidentifiable(t *testing.T) {
	in := ingest(`[{"ref_id":"1"},{"ref_id":"2","title":"Kept"}]`)

	records, _ := extractProducts(&in)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if name, _ := records[0].Name(); name != "Kept" {
		t.Errorf("Name() = %q", name)
	}
}

func TestExtractProducts_NoneOnProse(t *testing.T) {
	in := ingest(`{"response":[{"role":"assistant","content":[{"type":"text","text":"No matches."}]}]}`)

	records, strategy := extractProducts(&in)
	if strategy != strategyNone {
		t.Fatalf("strategy = %q, want %q", strategy, strategyNone)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
