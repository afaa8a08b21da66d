package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fiscalhq/ledger/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrCollectiveNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrRuleNotFound, http.StatusNotFound},
		{domain.ErrCarryforwardExists, http.StatusConflict},
		{domain.ErrCarryforwardDateInFuture, http.StatusBadRequest},
		{domain.ErrNoHostFound, http.StatusBadRequest},
		{domain.ErrMultipleNonZeroBalances, http.StatusBadRequest},
		{domain.ErrOperatorNotAllowed, http.StatusBadRequest},
		{domain.ErrBalanceMismatch, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Fatalf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=50&bad=abc", nil)

	if got := parseIntQuery(req, "limit", 20); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	if got := parseIntQuery(req, "bad", 20); got != 20 {
		t.Fatalf("expected default for unparseable value, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 20); got != 20 {
		t.Fatalf("expected default for missing value, got %d", got)
	}
}

func TestParseDateQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?end_date=2024-03-31", nil)

	d, err := parseDateQuery(req, "end_date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.Format("2006-01-02") != "2024-03-31" {
		t.Fatalf("unexpected date: %v", d)
	}

	d, err = parseDateQuery(req, "missing")
	if err != nil || d != nil {
		t.Fatalf("expected nil for missing param, got %v, %v", d, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?end_date=31/03/2024", nil)
	if _, err := parseDateQuery(req, "end_date"); err == nil {
		t.Fatalf("expected error for bad format")
	}
}
