package xgxcontext

import (
	"strconv"
	"strings"
	"testing"
)

func FuzzFieldsFromKV(f *testing.F) {
	f.Add("key value", byte(0), byte(0))
	f.Add("k1 v1 k2 v2", byte(1), byte(1))
	f.Add("odd onlykey", byte(0), byte(1))

	f.Fuzz(func(t *testing.T, raw string, toggle byte, odd byte) {
		tokens := strings.Fields(raw)
		var kv []any
		for i, token := range tokens {
			kv = append(kv, "key"+strconv.Itoa(i))
			kv = append(kv, token)
		}
		if len(kv) == 0 {
			kv = append(kv, "empty", raw)
		}
		if toggle%3 == 0 {
			kv[0] = int(toggle) // non-string key drops the pair
		}
		if odd%2 == 1 {
			kv = kv[:len(kv)-1]
		}

		for _, field := range fieldsFromKV(kv...) {
			if field.Key == "empty" {
				continue
			}
			idx, err := strconv.Atoi(strings.TrimPrefix(field.Key, "key"))
			if err != nil {
				t.Fatalf("unexpected key format: %q", field.Key)
			}
			if toggle%3 == 0 && idx == 0 {
				t.Fatalf("pair with a non-string key survived")
			}
		}
	})
}

func FuzzSplitReceiver(f *testing.F) {
	f.Add("example.com/pkg.(*T).M")
	f.Add("example.com/pkg.T.M.func1")
	f.Add("main.main")
	f.Add("(*T).")
	f.Add("")

	f.Fuzz(func(t *testing.T, fn string) {
		class, callType := splitReceiver(fn)
		if (class == "") != (callType == "") {
			t.Fatalf("splitReceiver(%q) = (%q, %q): class and call type must be set together", fn, class, callType)
		}
		if callType != "" && callType != CallInstance {
			t.Fatalf("splitReceiver(%q) call type = %q", fn, callType)
		}
	})
}
