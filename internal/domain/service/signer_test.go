package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewVerificationCodeFormat(t *testing.T) {
	s := NewSigner("test-secret")

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := s.NewVerificationCode()
		assert.NoError(t, err)

		parts := strings.Split(code, "-")
		assert.Len(t, parts, 3)
		for _, part := range parts {
			assert.Len(t, part, 4)
			for _, r := range part {
				assert.Contains(t, codeAlphabet, string(r))
			}
		}

		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestNewSerialNumber(t *testing.T) {
	s := NewSigner("test-secret")

	serial, err := s.NewSerialNumber(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(serial, "UC-2025-"))
	assert.Len(t, serial, len("UC-2025-")+8)
}

func TestSignIsDeterministic(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := NewSigner("secret-a")
	sig1 := a.Sign("UC-2025-DEADBEEF", "user-1", "ABCD-EFGH-JKLM", issuedAt)
	sig2 := a.Sign("UC-2025-DEADBEEF", "user-1", "ABCD-EFGH-JKLM", issuedAt)
	assert.Equal(t, sig1, sig2)
	assert.NotEmpty(t, sig1)

	// A different key or payload must change the signature.
	b := NewSigner("secret-b")
	assert.NotEqual(t, sig1, b.Sign("UC-2025-DEADBEEF", "user-1", "ABCD-EFGH-JKLM", issuedAt))
	assert.NotEqual(t, sig1, a.Sign("UC-2025-DEADBEEF", "user-2", "ABCD-EFGH-JKLM", issuedAt))
}
