package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bills?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Page != 1 {
		t.Errorf("expected default page 1, got %d", p.Page)
	}
	if p.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", p.Limit)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor(t, "page=3&limit=25")
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.Limit != 25 {
		t.Errorf("expected limit 25, got %d", p.Limit)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor(t, "limit=500")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_RejectsNonPositive(t *testing.T) {
	p := paramsFor(t, "page=0&limit=-5")
	if p.Page != 1 {
		t.Errorf("expected page 1 for page=0, got %d", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit for negative limit, got %d", p.Limit)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
	}
	for _, tt := range tests {
		p := Params{Page: tt.page, Limit: tt.limit}
		if got := p.Offset(); got != tt.want {
			t.Errorf("Offset(page=%d, limit=%d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestNewMeta_TotalPages(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantPages int
	}{
		{"exact multiple", 20, 10, 2},
		{"partial last page", 25, 10, 3},
		{"single page", 5, 10, 1},
		{"empty", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(Params{Page: 1, Limit: tt.limit}, tt.total)
			if meta.TotalPages != tt.wantPages {
				t.Errorf("expected %d total pages, got %d", tt.wantPages, meta.TotalPages)
			}
			if meta.TotalCount != tt.total {
				t.Errorf("expected total count %d, got %d", tt.total, meta.TotalCount)
			}
		})
	}
}

func TestHasNext(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	if !p.HasNext(25) {
		t.Error("expected page 2 of 25 rows to have a next page")
	}
	if p.HasNext(20) {
		t.Error("expected page 2 of 20 rows to be the last page")
	}
}
