package pagination

import "testing"

func TestOffsetRequest_Normalize(t *testing.T) {
	cases := []struct {
		name     string
		in       OffsetRequest
		wantPage int
		wantSize int
	}{
		{"zero values", OffsetRequest{}, 1, PageDefaultSize},
		{"negative page", OffsetRequest{Page: -4, Size: 10}, 1, 10},
		{"oversized", OffsetRequest{Page: 2, Size: 5000}, 2, PageMaxSize},
		{"valid passthrough", OffsetRequest{Page: 3, Size: 25}, 3, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()
			if tc.in.Page != tc.wantPage || tc.in.Size != tc.wantSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", tc.in.Page, tc.in.Size, tc.wantPage, tc.wantSize)
			}
		})
	}
}

func TestOffsetRequest_Offset(t *testing.T) {
	r := OffsetRequest{Page: 3, Size: 20}
	if got := r.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewOffsetResult_HasMore(t *testing.T) {
	res := NewOffsetResult([]int{1, 2, 3}, 10, 1, 3)
	if !res.HasMore {
		t.Error("expected HasMore with 10 total and page size 3")
	}

	last := NewOffsetResult([]int{1}, 10, 4, 3)
	if last.HasMore {
		t.Error("expected no more items past the final page")
	}
}
