// Package token mints the correlation tokens supporters carry through the
// out-of-band UPI payment flow. A token travels inside a payment app's
// free-text transaction note, so it has to stay short, paste-safe, and still
// be practically unguessable for the lifetime of the intent it correlates.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Prefix marks platform tokens inside payment notes.
const Prefix = "BMC"

// shortDigestHex is the truncated digest width of the short form, 16 hex
// chars = 64 bits. Birthday collisions become likely only around 2^32
// concurrently outstanding tokens; the 30-minute intent TTL keeps the active
// set many orders of magnitude below that.
const shortDigestHex = 16

type Form int

const (
	// ShortForm fits conservative UPI note limits (~40 chars):
	// BMC-<8 digit timestamp>-<16 hex digest> = 29 chars.
	ShortForm Form = iota
	// LongForm trades note economy for a full-width digest plus random
	// flanks and a trailing checksum, for payment apps that accept longer
	// notes.
	LongForm
)

type Generator struct {
	form Form
}

func NewGenerator(form Form) *Generator {
	return &Generator{form: form}
}

// Mint produces a fresh correlation token. The digest always covers a
// per-mint random nonce in addition to the public intent fields; hashing
// public fields alone would let anyone who can script intent creations
// brute-force timestamps and forge tokens.
func (g *Generator) Mint(creatorID string, amountPaise int64, supporterName string, now time.Time) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to read random nonce: %w", err)
	}

	millis := now.UnixMilli()
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s_%d_%s_%d_%s",
		creatorID, amountPaise, supporterName, millis, hex.EncodeToString(nonce))))
	digestHex := hex.EncodeToString(digest[:])

	if g.form == LongForm {
		return g.mintLong(millis, digestHex)
	}

	ts := fmt.Sprintf("%d", millis)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	return fmt.Sprintf("%s-%s-%s", Prefix, ts, digestHex[:shortDigestHex]), nil
}

func (g *Generator) mintLong(millis int64, digestHex string) (string, error) {
	flanks := make([]byte, 8)
	if _, err := rand.Read(flanks); err != nil {
		return "", fmt.Errorf("failed to read random flanks: %w", err)
	}
	left := hex.EncodeToString(flanks[:4])
	right := hex.EncodeToString(flanks[4:])

	body := fmt.Sprintf("%s-%d-%s-%s-%s", Prefix, millis, left, digestHex, right)
	check := sha256.Sum256([]byte(body))
	return body + "-" + hex.EncodeToString(check[:])[:8], nil
}

// Normalize strips the whitespace noise manual copy-paste introduces.
// Matching is otherwise exact and case-sensitive.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// IsLongForm reports whether tok has the long form's six-segment shape.
func IsLongForm(tok string) bool {
	return strings.Count(tok, "-") == 5
}

// ChecksumOK reports whether a long-form token's trailing checksum matches
// its body. Useful for rejecting mangled transcriptions before hitting the
// store; short-form tokens have no checksum and always return false.
func ChecksumOK(tok string) bool {
	i := strings.LastIndex(tok, "-")
	if i < 0 || len(tok)-i-1 != 8 {
		return false
	}
	if strings.Count(tok, "-") != 5 {
		return false
	}
	check := sha256.Sum256([]byte(tok[:i]))
	return hex.EncodeToString(check[:])[:8] == tok[i+1:]
}
