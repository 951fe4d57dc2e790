package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Decode parses a persisted document. The input must be a JSON object
// holding every required key; each known key present replaces the matching
// default wholesale (a shallow merge over DefaultDocument), so keys added
// after the document was saved come back populated. Unknown keys are
// dropped.
func Decode(raw []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return Document{}, fmt.Errorf("%w: not a record: %v", ErrInvalidDocument, err)
	}
	if top == nil {
		return Document{}, fmt.Errorf("%w: not a record", ErrInvalidDocument)
	}
	for _, k := range RequiredKeys {
		v, ok := top[string(k)]
		if !ok || isNull(v) {
			return Document{}, fmt.Errorf("%w: missing required key %q", ErrInvalidDocument, k)
		}
	}

	doc := DefaultDocument()
	rv := reflect.ValueOf(&doc).Elem()
	for name, v := range top {
		idx, ok := fieldIndex[Key(name)]
		if !ok || isNull(v) {
			continue
		}
		field := rv.Field(idx)
		ptr := reflect.New(field.Type())
		if err := json.Unmarshal(v, ptr.Interface()); err != nil {
			return Document{}, fmt.Errorf("%w: key %q: %v", ErrInvalidDocument, name, err)
		}
		field.Set(ptr.Elem())
	}
	return doc.Normalize(), nil
}

// Encode validates d and serializes it.
func Encode(d Document) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeKey parses raw as the value type stored under key, ready for
// UpdateKey. A JSON null is rejected.
func DecodeKey(key Key, raw []byte) (any, error) {
	idx, ok := fieldIndex[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return nil, fmt.Errorf("%w: %s got null", ErrKeyType, key)
	}
	ptr := reflect.New(reflect.TypeOf(Document{}).Field(idx).Type)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKeyType, key, err)
	}
	return ptr.Elem().Interface(), nil
}
