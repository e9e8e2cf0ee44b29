package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"

	"atoma-accounts-client/internal/model"
)

// Record keys. The session and linking records are independent and must
// never collide.
const (
	KeySession = "user"
	KeyLinking = "linking"
)

// Records is the typed persistence layer over a Store. Values are written as
// base64-encoded JSON. A missing key, corrupt payload or undecodable record
// is reported as absent, never as an error; the caller treats the record as
// simply not there.
type Records struct {
	store Store
}

// NewRecords creates the typed record layer over the given store.
func NewRecords(s Store) *Records {
	return &Records{store: s}
}

// SaveAuth persists the session record.
func (r *Records) SaveAuth(ctx context.Context, data *model.AuthData) error {
	return r.save(ctx, KeySession, data)
}

// LoadAuth returns the persisted session record, or nil if absent.
func (r *Records) LoadAuth(ctx context.Context) *model.AuthData {
	var data model.AuthData
	if !r.load(ctx, KeySession, &data) {
		return nil
	}
	return &data
}

// ClearAuth removes the persisted session record. Idempotent.
func (r *Records) ClearAuth(ctx context.Context) {
	r.clear(ctx, KeySession)
}

// SaveLinking persists the linking record.
func (r *Records) SaveLinking(ctx context.Context, data *model.LinkingData) error {
	return r.save(ctx, KeyLinking, data)
}

// LoadLinking returns the persisted linking record, or nil if absent.
func (r *Records) LoadLinking(ctx context.Context) *model.LinkingData {
	var data model.LinkingData
	if !r.load(ctx, KeyLinking, &data) {
		return nil
	}
	return &data
}

// ClearLinking removes the persisted linking record. Idempotent.
func (r *Records) ClearLinking(ctx context.Context) {
	r.clear(ctx, KeyLinking)
}

func (r *Records) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	return r.store.Set(ctx, key, []byte(encoded))
}

func (r *Records) load(ctx context.Context, key string, out interface{}) bool {
	encoded, err := r.store.Get(ctx, key)
	if err != nil {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}

	return true
}

func (r *Records) clear(ctx context.Context, key string) {
	if err := r.store.Delete(ctx, key); err != nil {
		log.Printf("[Records] Failed to clear %q: %v", key, err)
	}
}
