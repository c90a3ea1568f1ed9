package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "idempotency_records"
	EntityName = "idempotency record"

	FieldTenantID = "tenant_id"
	FieldKey      = "key"
)

// Record is the stored outcome of the first successful confirm for a key.
type Record struct {
	TenantID           string         `db:"tenant_id"           json:"tenant_id"`
	Key                string         `db:"key"                 json:"key"`
	RequestFingerprint string         `db:"request_fingerprint" json:"request_fingerprint"`
	ResultPayload      types.JSONText `db:"result_payload"      json:"result_payload"`
	CreatedAt          time.Time      `db:"created_at"          json:"created_at"`
}

// Found reports whether r was read from the store.
func (r Record) Found() bool {
	return r.Key != ""
}

// Fingerprint hashes the JSON encoding of request. Struct fields encode in
// declaration order, so equal requests share a fingerprint.
func Fingerprint(request any) (string, error) {
	raw, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	sum := sha256.Sum256(raw)

	return hex.EncodeToString(sum[:]), nil
}
