package handlers

import "testing"

func Test_refererAllowed(t *testing.T) {
	allowed := []string{"photos.example.com", "blog.example.org"}
	tests := []struct {
		name        string
		refererHost string
		requestHost string
		want        bool
	}{
		{"same host", "photoframer.example.com", "photoframer.example.com", true},
		{"same host with port", "photoframer.example.com", "photoframer.example.com:8080", true},
		{"same host case-insensitive", "PhotoFramer.Example.Com", "photoframer.example.com", true},
		{"configured host", "photos.example.com", "photoframer.example.com", true},
		{"subdomain of configured host", "cdn.photos.example.com", "photoframer.example.com", true},
		{"second configured host", "blog.example.org", "photoframer.example.com", true},
		{"unrelated host", "evil.example.net", "photoframer.example.com", false},
		{"suffix but not subdomain", "notphotos.example.com", "photoframer.example.com", false},
		{"empty referer host", "", "photoframer.example.com", false},
	}
	for _, test := range tests {
		if got := refererAllowed(test.refererHost, test.requestHost, allowed); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func Test_refererAllowedNoConfiguredHosts(t *testing.T) {
	if !refererAllowed("photoframer.example.com", "photoframer.example.com", nil) {
		t.Error("own host must always be allowed")
	}
	if refererAllowed("other.example.com", "photoframer.example.com", nil) {
		t.Error("foreign host must be denied with an empty allow list")
	}
}
