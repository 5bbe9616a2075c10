package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("storefront-test-secret"))
	require.NoError(t, err)
	return signed
}

// withPayload builds a token around an arbitrary payload segment.
func withPayload(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + payload + ".signature"
}

func TestIsLiveStructure(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"empty payload segment", "a..c"},
		{"empty header segment", ".b.c"},
		{"payload not base64", withPayload("!!!not-base64!!!")},
		{"payload not json", withPayload(base64.RawURLEncoding.EncodeToString([]byte("plain text")))},
		{"payload json array", withPayload(base64.RawURLEncoding.EncodeToString([]byte(`[1,2,3]`)))},
		{"payload json string", withPayload(base64.RawURLEncoding.EncodeToString([]byte(`"hello"`)))},
		{"payload json null", withPayload(base64.RawURLEncoding.EncodeToString([]byte(`null`)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsLive(tt.raw))
			_, ok := Decode(tt.raw)
			assert.False(t, ok)
		})
	}
}

func TestIsLiveExpiry(t *testing.T) {
	now := time.Now()

	t.Run("no exp claim", func(t *testing.T) {
		assert.True(t, IsLive(mint(t, jwt.MapClaims{"sub": "42"})))
	})

	t.Run("exp in the future", func(t *testing.T) {
		assert.True(t, IsLive(mint(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})))
	})

	t.Run("exp in the past", func(t *testing.T) {
		assert.False(t, IsLive(mint(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})))
	})

	t.Run("non-numeric exp is ignored", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":"tomorrow"}`))
		assert.True(t, IsLive(withPayload(payload)))
	})
}

func TestDecode(t *testing.T) {
	t.Run("returns claims", func(t *testing.T) {
		raw := mint(t, jwt.MapClaims{"sub": "42", "name": "Ada"})
		claims, ok := Decode(raw)
		require.True(t, ok)
		assert.Equal(t, "42", claims["sub"])
		assert.Equal(t, "Ada", claims["name"])
	})

	t.Run("expired token still decodes", func(t *testing.T) {
		raw := mint(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix(), "sub": "42"})
		assert.False(t, IsLive(raw))
		claims, ok := Decode(raw)
		require.True(t, ok)
		assert.Equal(t, "42", claims["sub"])
	})

	t.Run("plain base64 fallback", func(t *testing.T) {
		// Invalid UTF-8 in the payload fails the strict path but still
		// parses on the fallback.
		payload := base64.RawStdEncoding.EncodeToString([]byte("{\"sub\":\"42\",\"note\":\"\xff\"}"))
		claims, ok := Decode(withPayload(payload))
		require.True(t, ok)
		assert.Equal(t, "42", claims["sub"])
	})

	t.Run("padded payload segment", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte(`{"sub":"42"}`))
		claims, ok := Decode(withPayload(payload))
		require.True(t, ok)
		assert.Equal(t, "42", claims["sub"])
	})
}
