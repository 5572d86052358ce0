package codegen

import (
	"strings"
	"testing"
)

func TestRandomGenerator_Length(t *testing.T) {
	for _, length := range []int{5, 7, 10} {
		gen := NewRandomGenerator(length)
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if len(code) != length {
			t.Fatalf("expected code of length %d, got %q", length, code)
		}
	}
}

func TestRandomGenerator_DefaultLength(t *testing.T) {
	gen := NewRandomGenerator(0)
	code, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(code) != DefaultLength {
		t.Fatalf("expected default length %d, got %d", DefaultLength, len(code))
	}
}

func TestRandomGenerator_Alphabet(t *testing.T) {
	gen := NewRandomGenerator(32)
	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		for _, r := range code {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("code %q contains character %q outside the alphabet", code, r)
			}
		}
	}
}

func TestRandomGenerator_NotConstant(t *testing.T) {
	gen := NewRandomGenerator(DefaultLength)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Fatalf("expected mostly distinct codes, got %d distinct out of 100", len(seen))
	}
}
