package models

import (
	"strings"
	"testing"
)

func TestNewStoredFilename(t *testing.T) {
	tests := []struct {
		original string
		wantExt  string
	}{
		{"holiday.jpg", ".jpg"},
		{"HOLIDAY.JPG", ".jpg"},
		{"scan.tiff", ".tiff"},
		{"no-extension", ""},
		{"dots.in.name.png", ".png"},
		{"../../etc/passwd", ""},
		{"weird.j pg", ""},
		{"trailing-dot.", ""},
	}
	for _, test := range tests {
		got := NewStoredFilename(test.original)
		if !strings.HasSuffix(got, test.wantExt) {
			t.Errorf("%q: got %q, want suffix %q", test.original, got, test.wantExt)
			continue
		}
		stem := strings.TrimSuffix(got, test.wantExt)
		if len(stem) != 36 { // UUID
			t.Errorf("%q: stem %q is not a UUID", test.original, stem)
		}
		if strings.ContainsAny(got, "/\\") {
			t.Errorf("%q: stored name %q contains a path separator", test.original, got)
		}
	}
	if NewStoredFilename("a.jpg") == NewStoredFilename("a.jpg") {
		t.Error("stored names must be unique per call")
	}
}
