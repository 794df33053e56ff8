package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// FingerprintCreateOrder builds a deterministic hash of the create payload (excluding the idempotency key).
// encoding/json sorts map keys, so equal payloads hash equally regardless of field order.
func FingerprintCreateOrder(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
