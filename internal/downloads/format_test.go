package downloads

import "testing"

func TestFormatCount(t *testing.T) {
	cases := []struct {
		count int64
		want  string
	}{
		{0, "0"},
		{950, "950"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{999_999, "1000.0K"},
		{1_000_000, "1.0M"},
		{2_300_000, "2.3M"},
	}

	for _, tc := range cases {
		if got := FormatCount(tc.count); got != tc.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}
