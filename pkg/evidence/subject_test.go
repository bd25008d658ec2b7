package evidence

import "testing"

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    string
	}{
		{
			name:    "plain subject",
			subject: "Quarterly Budget",
			want:    "quarterly budget",
		},
		{
			name:    "single reply prefix",
			subject: "Re: Quarterly Budget",
			want:    "quarterly budget",
		},
		{
			name:    "stacked prefixes",
			subject: "RE: Fwd: FW: Quarterly Budget",
			want:    "quarterly budget",
		},
		{
			name:    "repeated same prefix",
			subject: "re: re: re: settlement",
			want:    "settlement",
		},
		{
			name:    "response prefix",
			subject: "Response: deposition schedule",
			want:    "deposition schedule",
		},
		{
			name:    "prefix not at start is kept",
			subject: "About the re: marker",
			want:    "about the re: marker",
		},
		{
			name:    "empty subject",
			subject: "",
			want:    "",
		},
		{
			name:    "prefix only",
			subject: "Re:",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSubject(tt.subject)
			if got != tt.want {
				t.Fatalf("unexpected normalized subject: got %q, want %q", got, tt.want)
			}
		})
	}
}
