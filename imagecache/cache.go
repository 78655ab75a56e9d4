// Package imagecache stores rendered preview images by content key. Keys
// already encode every input of a render, so entries never go stale and
// backends only need Get and Put.
package imagecache

import (
	"context"
	"errors"
	"io"
)

// Backend is a key/value store for PNG bytes.
type Backend interface {
	// Get returns the image stored under key. ok is false on a miss.
	Get(ctx context.Context, key string) (png []byte, ok bool, err error)
	Put(ctx context.Context, key string, png []byte) error
	io.Closer
}

// Tiered reads through backends in order, fastest first, and backfills the
// faster tiers on a hit in a slower one. Writes go to every tier.
type Tiered struct {
	tiers []Backend
}

// NewTiered returns a cache over tiers. Nil tiers are dropped.
func NewTiered(tiers ...Backend) *Tiered {
	t := &Tiered{}
	for _, b := range tiers {
		if b != nil {
			t.tiers = append(t.tiers, b)
		}
	}
	return t
}

// Len returns the number of tiers.
func (t *Tiered) Len() int { return len(t.tiers) }

// Get returns the first hit. A failing tier is skipped; its error is
// returned only when no tier hits.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var errs []error
	for i, b := range t.tiers {
		data, ok, err := b.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		for _, faster := range t.tiers[:i] {
			if perr := faster.Put(ctx, key, data); perr != nil {
				errs = append(errs, perr)
			}
		}
		return data, true, nil
	}
	return nil, false, errors.Join(errs...)
}

// Put stores png in every tier.
func (t *Tiered) Put(ctx context.Context, key string, png []byte) error {
	var errs []error
	for _, b := range t.tiers {
		if err := b.Put(ctx, key, png); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every tier.
func (t *Tiered) Close() error {
	var errs []error
	for _, b := range t.tiers {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
