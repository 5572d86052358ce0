package geo

import "testing"

func TestOpen_EmptyPathIsNoop(t *testing.T) {
	r, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") returned error: %v", err)
	}
	defer r.Close()

	if got := r.Country("8.8.8.8"); got != "" {
		t.Fatalf("expected empty country from no-op reader, got %q", got)
	}
}

func TestCountry_InvalidIP(t *testing.T) {
	r := &Reader{}
	if got := r.Country("not-an-ip"); got != "" {
		t.Fatalf("expected empty country for invalid IP, got %q", got)
	}
}

func TestCountry_NilReader(t *testing.T) {
	var r *Reader
	if got := r.Country("8.8.8.8"); got != "" {
		t.Fatalf("expected empty country from nil reader, got %q", got)
	}
}
