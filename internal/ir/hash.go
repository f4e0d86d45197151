package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity, suffixed with IRVersion.
const (
	DomainCard   = "querymode/card/v" + IRVersion
	DomainAction = "querymode/action/v" + IRVersion
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CardFingerprint computes a content-addressed id for a dataset query.
// Two queries that differ only in key order share a fingerprint.
func CardFingerprint(datasetQuery IRObject) (string, error) {
	canonical, err := MarshalCanonical(datasetQuery)
	if err != nil {
		return "", fmt.Errorf("CardFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCard, canonical), nil
}

// ActionID computes a content-addressed id for a click action from its name
// and the fingerprint of the card it leads to (empty when it has none).
func ActionID(name, cardFingerprint string) (string, error) {
	obj := IRObject{
		"name": IRString(name),
		"card": IRString(cardFingerprint),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ActionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAction, canonical), nil
}
