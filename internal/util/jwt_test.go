package util

import (
	"testing"
	"time"
)

func TestDownloadTokenRoundTrip(t *testing.T) {
	token, err := GenerateDownloadToken("secret", "jdo12", "cmpt225-2024-final.pdf", time.Minute)
	if err != nil {
		t.Fatalf("GenerateDownloadToken() error = %v", err)
	}

	claims, err := ParseDownloadToken("secret", token)
	if err != nil {
		t.Fatalf("ParseDownloadToken() error = %v", err)
	}
	if claims.ComputingID != "jdo12" {
		t.Errorf("computing id = %q, want jdo12", claims.ComputingID)
	}
	if claims.Filename != "cmpt225-2024-final.pdf" {
		t.Errorf("filename = %q", claims.Filename)
	}
}

func TestDownloadToken_WrongSecret(t *testing.T) {
	token, err := GenerateDownloadToken("secret", "jdo12", "a.pdf", time.Minute)
	if err != nil {
		t.Fatalf("GenerateDownloadToken() error = %v", err)
	}
	if _, err := ParseDownloadToken("other-secret", token); err == nil {
		t.Error("token parsed under the wrong secret")
	}
}

func TestDownloadToken_Expired(t *testing.T) {
	token, err := GenerateDownloadToken("secret", "jdo12", "a.pdf", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateDownloadToken() error = %v", err)
	}
	if _, err := ParseDownloadToken("secret", token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-04-30"); err != nil {
		t.Errorf("ParseDate(2025-04-30) error = %v", err)
	}
	for _, s := range []string{"", "2025/04/30", "30-04-2025", "2025-13-01", "soon"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", s)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d, _ := ParseDate("2025-04-30")
	if got := FormatDate(d); got != "2025-04-30" {
		t.Errorf("FormatDate() = %q, want 2025-04-30", got)
	}
}
