package filex

import (
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Selfie Ñandú.png", "Selfie_Nandu.png"},
		{"contract-2026 final.pdf", "contract-2026_final.pdf"},
		{"receipt.pdf", "receipt.pdf"},
		{"résumé (draft).docx", "resume_draft_.docx"},
		{"../../etc/passwd", "etc_passwd"},
		{"..\\..\\windows\\system32", "windows_system32"},
		{".gitignore", "gitignore"},
		{"   ", "document"},
		{"", "document"},
		{"москва.txt", "txt"},
	}

	for _, tc := range cases {
		if got := SanitizeName(tc.in); got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Selfie Ñandú.png",
		"../../etc/passwd",
		"résumé (draft).docx",
		"plain.txt",
		"",
		strings.Repeat("weird//name  ", 10),
	}
	for _, in := range inputs {
		once := SanitizeName(in)
		twice := SanitizeName(once)
		if once != twice {
			t.Errorf("SanitizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeName_NoSeparators(t *testing.T) {
	for _, in := range []string{"a/b/c", "a\\b", "a\x00b", "dir/../x.png"} {
		got := SanitizeName(in)
		if strings.ContainsAny(got, "/\\\x00") {
			t.Errorf("SanitizeName(%q) = %q still contains a separator", in, got)
		}
	}
}
