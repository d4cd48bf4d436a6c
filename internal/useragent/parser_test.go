package useragent

import "testing"

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	p := NewParser()
	for _, raw := range []string{"", "   "} {
		if got := p.Parse(raw); got != nil {
			t.Errorf("Parse(%q) = %+v, want nil", raw, got)
		}
	}
}

func TestParse_Unrecognized(t *testing.T) {
	t.Parallel()

	p := NewParser()
	for _, raw := range []string{"garbage!!", "Mozilla/5.0", "curl-ish/1.0 (unknown)"} {
		if got := p.Parse(raw); got != nil {
			t.Errorf("Parse(%q) = %+v, want nil", raw, got)
		}
	}
}

func TestParse_Chrome(t *testing.T) {
	t.Parallel()

	got := NewParser().Parse("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.109 Safari/537.36")
	if got == nil {
		t.Fatal("expected descriptor, got nil")
	}
	if got.Name != "Chrome" {
		t.Errorf("Name = %q, want Chrome", got.Name)
	}
	if got.Major != 120 {
		t.Errorf("Major = %d, want 120", got.Major)
	}
}

func TestParse_InternetExplorer(t *testing.T) {
	t.Parallel()

	got := NewParser().Parse("Mozilla/5.0 (compatible; MSIE 9.0; Windows NT 6.1; Trident/5.0)")
	if got == nil {
		t.Fatal("expected descriptor, got nil")
	}
	if got.Name != InternetExplorer {
		t.Errorf("Name = %q, want %q", got.Name, InternetExplorer)
	}
	if got.Major != 9 {
		t.Errorf("Major = %d, want 9", got.Major)
	}
}

func TestMajorVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":           0,
		"11.0":       11,
		"120.0.6099": 120,
		"beta":       0,
		"8":          8,
	}
	for in, want := range tests {
		if got := majorVersion(in); got != want {
			t.Errorf("majorVersion(%q) = %d, want %d", in, got, want)
		}
	}
}
