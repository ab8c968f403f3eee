package format

import (
	"strings"
	"testing"

	"github.com/retailgrid/agentsearch/internal/domain/product"
)

func TestHasGrammarHallmark(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"semicolon terminated key", "Name: Widget; more text", true},
		{"price segment", "blah Price: 19.99; blah", true},
		{"colon without semicolon", "Name: Sun Hat Price: $24.00", false},
		{"unknown key only", "Weight: 2kg;", false},
		{"plain prose", "nothing to see here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasGrammarHallmark(tt.text); got != tt.want {
				t.Errorf("hasGrammarHallmark(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseGrammar_Attributes(t *testing.T) {
	content := "Name: Jersey; Price: 49.99; " +
		"{'Name':'Color','TextValue':'Red'} {'Name':'Size','TextValue':'S|M|L'} " +
		"{'Name':'AW Fabric','TextValue':'Mesh'}"

	b := product.NewBuilder()
	if !parseGrammar(content, b) {
		t.Fatal("parseGrammar returned false")
	}
	r := b.Build()

	if color, _ := r.Color(); color != "Red" {
		t.Errorf("Color() = %q", color)
	}
	if size, _ := r.Size(); size != "S, M, L" {
		t.Errorf("Size() = %q", size)
	}
	if material, _ := r.Material(); material != "Mesh" {
		t.Errorf("Material() = %q", material)
	}
}

func TestParseGrammar_UnknownKeysBecomeDisplayLines(t *testing.T) {
	b := product.NewBuilder()
	parseGrammar("Name: Tent; Capacity: 4 person; Season: 3", b)
	r := b.Build()

	lines := r.DisplayLines()
	if len(lines) != 2 {
		t.Fatalf("DisplayLines() = %v", lines)
	}
	if lines[0] != "Capacity: 4 person" || lines[1] != "Season: 3" {
		t.Errorf("DisplayLines() = %v", lines)
	}
}

func TestParseGrammar_ImageURLsDeduplicated(t *testing.T) {
	content := "Name: Lamp; 'img/lamp.png' \"img/lamp.png\" 'img/lamp_side.png'"

	b := product.NewBuilder()
	parseGrammar(content, b)
	r := b.Build()

	urls := r.ImageURLs()
	if len(urls) != 2 {
		t.Fatalf("ImageURLs() = %v", urls)
	}
	if urls[0] != "img/lamp.png" || urls[1] != "img/lamp_side.png" {
		t.Errorf("ImageURLs() = %v", urls)
	}
}

func TestParseGrammar_MalformedSegmentDoesNotBlockFields(t *testing.T) {
	content := "garbage without colon; Price: 7.50; Name: Cap"

	b := product.NewBuilder()
	if !parseGrammar(content, b) {
		t.Fatal("parseGrammar returned false")
	}
	r := b.Build()

	if price, ok := r.Price(); !ok || price != 7.50 {
		t.Errorf("Price() = %v, %v", price, ok)
	}
	if name, _ := r.Name(); !strings.Contains(name, "Cap") {
		t.Errorf("Name() = %q", name)
	}
}
