// Package store persists the entity desk in a key-value backend.
//
// The desk needs exactly two keys: the JSON-encoded entity collection and the
// plain selected-entity id. Every backend implements KV; Repository layers the
// key names and the collection codec on top.
package store

import "context"

// KV is a string key-value store. Get returns sentinel.ErrNotFound for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}
