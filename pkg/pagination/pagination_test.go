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
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CapsLimit(t *testing.T) {
	p := paramsFor(t, "limit=500&offset=10")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestParams_Slice(t *testing.T) {
	p := Params{Limit: 2, Offset: 4}

	start, end := p.Slice(5)
	if start != 4 || end != 5 {
		t.Errorf("expected [4,5), got [%d,%d)", start, end)
	}

	start, end = p.Slice(3)
	if start != 3 || end != 3 {
		t.Errorf("expected empty page [3,3), got [%d,%d)", start, end)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 10, 5, 0)
	if !r.HasMore {
		t.Error("expected more pages")
	}
	r = NewResponse(nil, 10, 5, 5)
	if r.HasMore {
		t.Error("expected last page")
	}
}
