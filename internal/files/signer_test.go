package files

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newTestSigner(now time.Time) *Signer {
	s := NewSigner("secret", "https://files.test/", 10*time.Minute)
	s.now = func() time.Time { return now }
	return s
}

func TestSignedURLRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(now)

	raw, err := s.SignedURL("portfolios/p1.pdf")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !strings.HasPrefix(raw, "https://files.test/portfolios/p1.pdf?") {
		t.Fatalf("url = %q", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	exp, err := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	if err != nil {
		t.Fatalf("exp: %v", err)
	}
	if exp != now.Add(10*time.Minute).Unix() {
		t.Fatalf("exp = %d", exp)
	}

	if !s.Verify("portfolios/p1.pdf", exp, u.Query().Get("sig")) {
		t.Fatal("valid signature rejected")
	}
	if s.Verify("portfolios/other.pdf", exp, u.Query().Get("sig")) {
		t.Fatal("signature valid for a different path")
	}
	if s.Verify("portfolios/p1.pdf", exp+1, u.Query().Get("sig")) {
		t.Fatal("signature valid for a tampered expiry")
	}
}

func TestSignedURLExpires(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(now)

	raw, err := s.SignedURL("a/b.jpg")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	u, _ := url.Parse(raw)
	exp, _ := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	sig := u.Query().Get("sig")

	s.now = func() time.Time { return now.Add(11 * time.Minute) }
	if s.Verify("a/b.jpg", exp, sig) {
		t.Fatal("expired signature accepted")
	}
}

func TestSignedURLValidation(t *testing.T) {
	s := newTestSigner(time.Now())

	if _, err := s.SignedURL(""); err == nil {
		t.Fatal("empty path accepted")
	}
	if _, err := s.SignedURL("///"); err == nil {
		t.Fatal("slash-only path accepted")
	}

	unconfigured := NewSigner("", "https://files.test", time.Minute)
	if _, err := unconfigured.SignedURL("a.pdf"); err == nil {
		t.Fatal("unconfigured signer issued a URL")
	}
}
