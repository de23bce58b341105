package handlers

import "testing"

func TestParsePaginationDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Errorf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationExplicit(t *testing.T) {
	page, limit, err := parsePaginationParams("3", "50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 || limit != 50 {
		t.Errorf("expected 3/50, got %d/%d", page, limit)
	}
}

func TestParsePaginationRejectsGarbage(t *testing.T) {
	for _, tc := range [][2]string{{"0", "10"}, {"-1", "10"}, {"x", "10"}, {"1", "0"}, {"1", "nope"}} {
		_, _, err := parsePaginationParams(tc[0], tc[1])
		if err == nil {
			t.Errorf("expected error for page=%q limit=%q", tc[0], tc[1])
		}
		if err != nil && err != errInvalidPagination {
			t.Errorf("expected errInvalidPagination, got %v", err)
		}
	}
}

func TestParsePaginationCapsLimit(t *testing.T) {
	_, limit, err := parsePaginationParams("1", "5000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != maxPageLimit {
		t.Errorf("expected limit capped at %d, got %d", maxPageLimit, limit)
	}
}
