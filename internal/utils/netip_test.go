package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.5:5123", nil, false, "10.0.0.5"},
		{"proxy headers ignored", "10.0.0.5:5123", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.5"},
		{"cloudflare first", "127.0.0.1:1", map[string]string{"CF-Connecting-IP": "9.9.9.9", "X-Forwarded-For": "1.2.3.4"}, true, "9.9.9.9"},
		{"left-most forwarded", "127.0.0.1:1", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, true, "1.2.3.4"},
		{"real ip", "127.0.0.1:1", map[string]string{"X-Real-IP": "4.4.4.4"}, true, "4.4.4.4"},
		{"no headers falls back", "[::1]:8080", nil, true, "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.10 ", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := map[string]bool{
		"10.1.2.3":        true,
		"192.168.1.10":    true,
		"::ffff:10.0.0.1": true,
		"192.168.1.11":    false,
		"not-an-ip":       false,
		"2001:db8::1":     false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"panel.example.com", "panel.example.com", true},
		{"Panel.Example.com:8080", "panel.example.com", true},
		{"a.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"evil-example.com", "*.example.com", false},
		{"panel.example.com", "", false},
	}
	for _, tt := range tests {
		if got := MatchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("MatchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}

	if !MatchAnyHost("b.lan", []string{"panel.example.com", "*.lan"}) {
		t.Error("MatchAnyHost should match the wildcard")
	}
}
