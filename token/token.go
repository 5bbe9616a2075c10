// Package token decodes and structurally validates compact three-part bearer
// tokens. Only the payload segment is interpreted; no signature verification
// is performed. The codec establishes shape and freshness, never
// cryptographic authenticity.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// Claims is the decoded payload of a token.
type Claims map[string]any

var timeNow = time.Now

// IsLive reports whether raw is structurally valid and not expired. A token
// is live when it has exactly three non-empty dot-separated segments, its
// payload decodes to a JSON object, and any numeric "exp" claim is at or
// after the current time in seconds. All failures report false.
func IsLive(raw string) bool {
	claims, ok := Decode(raw)
	if !ok {
		return false
	}

	exp, present := claims["exp"]
	if !present {
		return true
	}
	sec, numeric := exp.(float64)
	if !numeric {
		// Non-numeric exp claims are ignored rather than rejected.
		return true
	}
	return sec >= float64(timeNow().Unix())
}

// Decode returns the parsed payload of raw, or false on any structural
// failure. Expiry is not checked here.
func Decode(raw string) (Claims, bool) {
	if raw == "" {
		return nil, false
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}

	if claims, ok := decodeURLSafe(parts[1]); ok {
		return claims, true
	}
	return decodePlain(parts[1])
}

// decodeURLSafe is the strict path: the url-safe alphabet is translated to
// the standard one and the decoded bytes must form valid UTF-8 before JSON
// parsing.
func decodeURLSafe(seg string) (Claims, bool) {
	std := strings.NewReplacer("-", "+", "_", "/").Replace(seg)
	data, err := base64.StdEncoding.DecodeString(pad(std))
	if err != nil {
		return nil, false
	}
	if !utf8.Valid(data) {
		return nil, false
	}
	return parseObject(data)
}

// decodePlain is the fallback: a plain padded base64 decode with no
// alphabet translation.
func decodePlain(seg string) (Claims, bool) {
	data, err := base64.StdEncoding.DecodeString(pad(seg))
	if err != nil {
		return nil, false
	}
	return parseObject(data)
}

func parseObject(data []byte) (Claims, bool) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Claims(obj), true
}

func pad(s string) string {
	if n := len(s) % 4; n != 0 {
		return s + strings.Repeat("=", 4-n)
	}
	return s
}
