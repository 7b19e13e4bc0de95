package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainNetwork  = "neurograph/network/v1"
	DomainPack     = "neurograph/pack/v1"
	DomainOrder    = "neurograph/order/v1"
	DomainSnapshot = "neurograph/snapshot/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the canonical fingerprint of v under domain.
// Two values with the same canonical JSON share a fingerprint.
func Fingerprint(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// NetworkFingerprint identifies a network document by content.
func NetworkFingerprint(doc NetworkDoc) (string, error) {
	return Fingerprint(DomainNetwork, doc)
}

// PackFingerprint identifies a property pack document by content.
func PackFingerprint(doc PropertyPackDoc) (string, error) {
	return Fingerprint(DomainPack, doc)
}

// OrderFingerprint identifies a node ordering together with the edge set
// it was computed from. Telemetry indexed by one order must not be read
// against an order with a different fingerprint.
func OrderFingerprint(ids []uint32, edges [][2]uint32) string {
	nodes := make([]any, len(ids))
	for i, id := range ids {
		nodes[i] = float64(id)
	}
	pairs := make([]any, len(edges))
	for i, e := range edges {
		pairs[i] = []any{float64(e[0]), float64(e[1])}
	}
	// Only numbers and arrays: canonical marshaling cannot fail here.
	canonical, _ := MarshalCanonical(map[string]any{"nodes": nodes, "edges": pairs})
	return hashWithDomain(DomainOrder, canonical)
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(domain string, v any) string {
	fp, err := Fingerprint(domain, v)
	if err != nil {
		panic(err)
	}
	return fp
}
