package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// codeAlphabet leaves out 0/O/1/I so codes survive being read aloud or
// copied from a printed certificate.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Signer produces the issuance artifacts stamped onto certificates: the
// verification code, the serial number and the HMAC digital signature. The
// signature is stored on the document; lookups do not validate it.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// NewVerificationCode returns an opaque XXXX-XXXX-XXXX token from a
// crypto/rand source.
func (s *Signer) NewVerificationCode() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	chars := make([]byte, 12)
	for i, b := range raw {
		chars[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", chars[0:4], chars[4:8], chars[8:12]), nil
}

// NewSerialNumber returns a UC-<year>-<8 hex> serial.
func (s *Signer) NewSerialNumber(now time.Time) (string, error) {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate serial number: %w", err)
	}

	return fmt.Sprintf("UC-%d-%08X", now.Year(), raw), nil
}

// Sign computes the certificate signature over the issuance-time fields.
func (s *Signer) Sign(serialNumber, recipientID, verificationCode string, issuedAt time.Time) string {
	payload := strings.Join([]string{
		serialNumber,
		recipientID,
		verificationCode,
		issuedAt.UTC().Format(time.RFC3339),
	}, "|")

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
