package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Resource is a backend collection following the
// /resource/, /resource/add/, /resource/:id/, /resource/:id/update/,
// /resource/:id/delete/ conventions.
//
// itemKey names the envelope key wrapping a single record (e.g. "employee"
// for {"employee": {...}}); an empty key means the record is the body.
type Resource[T any, In any] struct {
	transport *Transport
	path      string
	itemKey   string
	listKey   string
}

func NewResource[T any, In any](t *Transport, path, itemKey, listKey string) *Resource[T, In] {
	return &Resource[T, In]{transport: t, path: path, itemKey: itemKey, listKey: listKey}
}

func (r *Resource[T, In]) Path() string {
	return r.path
}

func (r *Resource[T, In]) List(ctx context.Context) ([]T, error) {
	return r.ListWithQuery(ctx, nil)
}

func (r *Resource[T, In]) ListWithQuery(ctx context.Context, query map[string]string) ([]T, error) {
	resp, err := r.transport.Get(ctx, r.path+"/", query)
	if err != nil {
		return nil, err
	}
	var result []T
	if err := decode(resp.Data, r.listKey, r.path, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = []T{}
	}
	return result, nil
}

func (r *Resource[T, In]) Get(ctx context.Context, id int) (*T, error) {
	resp, err := r.transport.Get(ctx, fmt.Sprintf("%s/%d/", r.path, id), nil)
	if err != nil {
		return nil, err
	}
	return r.decodeItem(resp.Data)
}

func (r *Resource[T, In]) Create(ctx context.Context, in In) (*T, error) {
	resp, err := r.transport.Post(ctx, r.path+"/add/", in)
	if err != nil {
		return nil, err
	}
	return r.decodeItem(resp.Data)
}

func (r *Resource[T, In]) Update(ctx context.Context, id int, in In) (*T, error) {
	resp, err := r.transport.Patch(ctx, fmt.Sprintf("%s/%d/update/", r.path, id), in)
	if err != nil {
		return nil, err
	}
	return r.decodeItem(resp.Data)
}

func (r *Resource[T, In]) Delete(ctx context.Context, id int) error {
	_, err := r.transport.Delete(ctx, fmt.Sprintf("%s/%d/delete/", r.path, id))
	return err
}

func (r *Resource[T, In]) decodeItem(data []byte) (*T, error) {
	var result *T
	if err := decode(data, r.itemKey, r.path, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s: empty record", ErrUnexpectedShape, r.path)
	}
	return result, nil
}

// decode unmarshals data into out, unwrapping key first when set.
func decode(data []byte, key, path string, out any) error {
	payload := bytes.TrimSpace(data)
	if key != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnexpectedShape, path, err)
		}
		raw, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%w: %s: missing %q", ErrUnexpectedShape, path, key)
		}
		payload = raw
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedShape, path, err)
	}
	return nil
}
