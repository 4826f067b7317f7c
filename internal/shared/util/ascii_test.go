package util

import "testing"

func TestASCIIFold(t *testing.T) {
	cases := map[string]string{
		"Jane_Doe":      "Jane_Doe",
		"José_Müller":   "Jose_Muller",
		"Zoë_ONeil":     "Zoe_ONeil",
		"李雷_modern":     "_modern",
		"Ångström.pdf":  "Angstrom.pdf",
		"tab\there\x7f": "tabhere",
	}
	for in, want := range cases {
		if got := ASCIIFold(in); got != want {
			t.Fatalf("ASCIIFold(%q) = %q, want %q", in, got, want)
		}
	}
}
