package pdf

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare doi in prose",
			text: "Published online. DOI: 10.1002/jcc.21255 received 2008",
			want: "10.1002/jcc.21255",
		},
		{
			name: "trailing period stripped",
			text: "available at https://doi.org/10.1093/molbev/msy096.",
			want: "10.1093/molbev/msy096",
		},
		{
			name: "trailing paren stripped",
			text: "(see 10.1103/PhysRevLett.103.150502)",
			want: "10.1103/PhysRevLett.103.150502",
		},
		{
			name: "first match wins",
			text: "10.1371/journal.pcbi.1006650 cites 10.1002/jcc.21255",
			want: "10.1371/journal.pcbi.1006650",
		},
		{
			name: "too-short match rejected",
			text: "sections 10.2000/a and beyond",
			want: "",
		},
		{
			name: "no doi",
			text: "an ordinary page of text with numbers 10.5 and 3.14",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPlausibleDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1002/jcc.21255", true},
		{"10.1/x", false},
		{"11.1002/jcc.21255", false},
		{"10.1002-jcc.21255", false},
		{"10.100200000/", false},
	}
	for _, tt := range tests {
		if got := plausibleDOI(tt.doi); got != tt.want {
			t.Errorf("plausibleDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestSniffDOI_MissingFile(t *testing.T) {
	if _, err := SniffDOI("testdata/no-such-file.pdf"); err == nil {
		t.Error("SniffDOI() on missing file = nil error")
	}
}
