package services

import (
	"context"
	"regexp"
	"testing"
)

var shareCodeRe = regexp.MustCompile(`^[a-z]+-[a-z]+-\d{1,2}$`)

func TestGenerateShareCodeFormat(t *testing.T) {
	svc, _ := newTestQueue(t)

	for i := 0; i < 20; i++ {
		code, err := svc.shareCode.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !shareCodeRe.MatchString(code) {
			t.Errorf("code %q does not match word-word-number pattern", code)
		}
	}
}

func TestGenerateShareCodeUniqueAcrossSessions(t *testing.T) {
	svc, _ := newTestQueue(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		session := mustCreateSession(t, svc, "Party")
		if seen[session.ShareCode] {
			t.Fatalf("duplicate share code %q", session.ShareCode)
		}
		seen[session.ShareCode] = true
	}
}
