package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/maheshrc27/foodblog-api/internal/repository"
)

// singleton is a typed view over one kind of site document.
type singleton[T any] struct {
	repo     repository.DocumentRepository
	kind     string
	label    string
	defaults func() *T
}

func (d singleton[T]) defaultBytes() ([]byte, error) {
	return json.Marshal(d.defaults())
}

func (d singleton[T]) load(ctx context.Context) (*T, error) {
	defaults, err := d.defaultBytes()
	if err != nil {
		return nil, UpstreamError(err, "Error fetching %s", d.label)
	}
	raw, err := d.repo.Load(ctx, d.kind, defaults)
	if err != nil {
		return nil, UpstreamError(err, "Error fetching %s", d.label)
	}
	doc, err := decodeDocument[T](raw)
	if err != nil {
		return nil, UpstreamError(err, "Error fetching %s", d.label)
	}
	return doc, nil
}

// update applies fn to the current document under the repository's lock.
// Errors returned by fn are passed through untouched.
func (d singleton[T]) update(ctx context.Context, fn func(doc *T) error) (*T, error) {
	defaults, err := d.defaultBytes()
	if err != nil {
		return nil, UpstreamError(err, "Error updating %s", d.label)
	}

	var result *T
	_, err = d.repo.Update(ctx, d.kind, defaults, func(current []byte) ([]byte, error) {
		doc, err := decodeDocument[T](current)
		if err != nil {
			return nil, err
		}
		if err := fn(doc); err != nil {
			return nil, err
		}
		result = doc
		return json.Marshal(doc)
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, UpstreamError(err, "Error updating %s", d.label)
	}
	return result, nil
}

// patch deep-merges a JSON object into the stored document.
func (d singleton[T]) patch(ctx context.Context, patch []byte, after func(doc *T) error) (*T, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(patch, &object); err != nil {
		return nil, ValidationError("Request body must be a JSON object")
	}

	defaults, err := d.defaultBytes()
	if err != nil {
		return nil, UpstreamError(err, "Error updating %s", d.label)
	}

	var result *T
	_, err = d.repo.Update(ctx, d.kind, defaults, func(current []byte) ([]byte, error) {
		doc, err := patchDocument[T](current, patch)
		if err != nil {
			return nil, ValidationError("Invalid %s fields", d.label)
		}
		if after != nil {
			if err := after(doc); err != nil {
				return nil, err
			}
		}
		result = doc
		return json.Marshal(doc)
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, UpstreamError(err, "Error updating %s", d.label)
	}
	return result, nil
}
