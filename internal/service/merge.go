package service

import (
	"bytes"
	"encoding/json"
)

// mergeJSON applies patch on top of base. Objects are merged key by key,
// every other value (arrays included) replaces what was there. Null values in
// patch leave the base untouched.
func mergeJSON(base, patch []byte) ([]byte, error) {
	var b, p any
	if err := json.Unmarshal(base, &b); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(patch))
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return json.Marshal(mergeValue(b, p))
}

func mergeValue(base, patch any) any {
	if patch == nil {
		return base
	}
	po, ok := patch.(map[string]any)
	if !ok {
		return patch
	}
	bo, ok := base.(map[string]any)
	if !ok {
		bo = map[string]any{}
	}
	for k, v := range po {
		bo[k] = mergeValue(bo[k], v)
	}
	return bo
}

// patchDocument merges patch into the JSON form of current and decodes the
// result back into a fresh T.
func patchDocument[T any](current []byte, patch []byte) (*T, error) {
	merged, err := mergeJSON(current, patch)
	if err != nil {
		return nil, err
	}
	return decodeDocument[T](merged)
}
