package util

import "testing"

func TestAttachmentName(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"Jane Doe", "modern", "resume"}, "Jane_Doe_modern_resume"},
		{[]string{"  Jane   Doe ", "ats_friendly", "resume"}, "Jane___Doe_ats_friendly_resume"},
		{[]string{"../../etc/passwd", "modern", "resume"}, "etcpasswd_modern_resume"},
		{[]string{"Zoë \"Z\" O'Neil", "classic", "cover_letter"}, "Zoë_Z_ONeil_classic_cover_letter"},
		{[]string{"", "modern", "resume"}, "document_modern_resume"},
		{[]string{"", ""}, "document"},
		{[]string{"a\r\nb", "x"}, "a__b_x"},
	}
	for _, tc := range cases {
		if got := AttachmentName(tc.parts...); got != tc.want {
			t.Fatalf("AttachmentName(%q) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}
