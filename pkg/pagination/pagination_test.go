package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct {
		name string
		n    int
		want int
	}{
		{name: "empty set still has one page", n: 0, want: 1},
		{name: "single item", n: 1, want: 1},
		{name: "exactly one page", n: PageSize, want: 1},
		{name: "one past a boundary", n: PageSize + 1, want: 2},
		{name: "several pages", n: 3*PageSize + 7, want: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TotalPages(tc.n); got != tc.want {
				t.Fatalf("TotalPages(%d) = %d, want %d", tc.n, got, tc.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	start, end := Bounds(0, 120)
	if start != 0 || end != PageSize {
		t.Fatalf("page 0 bounds = [%d, %d)", start, end)
	}

	start, end = Bounds(2, 120)
	if start != 100 || end != 120 {
		t.Fatalf("last partial page bounds = [%d, %d)", start, end)
	}

	start, end = Bounds(5, 120)
	if start != end {
		t.Fatalf("out-of-range page should be empty, got [%d, %d)", start, end)
	}

	start, end = Bounds(-3, 10)
	if start != 0 || end != 10 {
		t.Fatalf("negative page should clamp to first page, got [%d, %d)", start, end)
	}
}

func TestDescribe(t *testing.T) {
	page := Describe(1, 75)
	if page.Index != 1 || page.PageSize != PageSize || page.TotalItems != 75 || page.TotalPages != 2 {
		t.Fatalf("unexpected page envelope: %+v", page)
	}
}
