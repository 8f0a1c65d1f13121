package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 1, DefaultLimit, 0},
		{"negative page clamped", -3, 10, 1, 10, 0},
		{"limit capped at max", 2, 500, 2, MaxLimit, MaxLimit},
		{"normal values kept", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.page, tt.limit)
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestGetMeta(t *testing.T) {
	params := &Params{Page: 2, Limit: 20, Offset: 20}
	meta := GetMeta(params, 45)

	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if !meta.HasNext {
		t.Error("expected HasNext to be true on page 2 of 3")
	}
	if !meta.HasPrev {
		t.Error("expected HasPrev to be true on page 2")
	}

	last := GetMeta(&Params{Page: 3, Limit: 20, Offset: 40}, 45)
	if last.HasNext {
		t.Error("expected HasNext to be false on the last page")
	}
}
