// fields.go: immutable structured fields for library errors.
//
// Design:
//   • Internal representation: append-only []KV (deterministic order).
//   • Builders are non-mutating: return NEW slices (no aliasing).
//   • Public view for callers: copy-on-read map[string]any.
package xgxcontext

// KV is a single key-value pair attached to an error.
type KV struct {
	Key string
	Val any
}

// fields is treated as append-only; elements are never modified once published.
type fields []KV

var emptyFields = make(fields, 0)

// fieldsAppend returns a NEW slice with dst's contents followed by add.
func fieldsAppend(dst fields, add ...KV) fields {
	n, m := len(dst), len(add)
	if n+m == 0 {
		return emptyFields
	}
	out := make(fields, n+m)
	copy(out, dst)
	copy(out[n:], add)
	return out
}

// fieldsFromKV reads kv left-to-right as (key, value) pairs.
//
// Rules:
//   • A non-string key drops the ENTIRE pair so later pairs stay aligned.
//   • A trailing key with no value becomes (key, nil).
func fieldsFromKV(kv ...any) fields {
	if len(kv) == 0 {
		return emptyFields
	}
	out := make(fields, 0, len(kv)/2+1)
	for i := 0; i < len(kv); {
		k, ok := kv[i].(string)
		if !ok {
			i += 2
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		i += 2
		out = append(out, KV{Key: k, Val: v})
	}
	if len(out) == 0 {
		return emptyFields
	}
	return out
}

// fieldsToMap creates a NEW map from fs. Later duplicate keys win.
func fieldsToMap(fs fields) map[string]any {
	if len(fs) == 0 {
		return nil
	}
	m := make(map[string]any, len(fs))
	for _, f := range fs {
		m[f.Key] = f.Val
	}
	return m
}
