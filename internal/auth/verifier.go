// Package auth verifies the HS256 bearer tokens that guard the admin
// endpoints.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	ModeDev  = "dev"
	ModeHMAC = "hmac"
)

var (
	ErrMalformed   = errors.New("auth: malformed token")
	ErrSignature   = errors.New("auth: bad signature")
	ErrExpired     = errors.New("auth: token expired")
	ErrUnsupported = errors.New("auth: unsupported algorithm")
	ErrMissingRole = errors.New("auth: missing role claim")
	ErrNoSecret    = errors.New("auth: hmac mode needs a secret")
	ErrUnknownMode = errors.New("auth: unknown mode")
)

// Principal is the verified caller.
type Principal struct {
	Subject string
	Role    string
}

// Verifier checks tokens. In dev mode callers are trusted and no token is
// needed; the API then reads the role from the X-Role header.
type Verifier struct {
	Mode      string
	Secret    []byte
	RoleClaim string
	now       func() time.Time
}

func NewVerifier(mode, secret string) (*Verifier, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "", ModeDev:
		mode = ModeDev
	case ModeHMAC:
		if secret == "" {
			return nil, ErrNoSecret
		}
	default:
		return nil, ErrUnknownMode
	}
	return &Verifier{Mode: mode, Secret: []byte(secret), RoleClaim: "role", now: time.Now}, nil
}

// Verify checks the HS256 signature and the exp claim, if present.
func (v *Verifier) Verify(token string) (Principal, error) {
	segs := strings.Split(token, ".")
	if len(segs) != 3 {
		return Principal{}, ErrMalformed
	}
	var hdr struct {
		Alg string `json:"alg"`
	}
	if err := decodeSegment(segs[0], &hdr); err != nil {
		return Principal{}, err
	}
	if hdr.Alg != "HS256" {
		return Principal{}, ErrUnsupported
	}
	sig, err := base64.RawURLEncoding.DecodeString(segs[2])
	if err != nil {
		return Principal{}, ErrMalformed
	}
	if !hmac.Equal(v.sign(segs[0]+"."+segs[1]), sig) {
		return Principal{}, ErrSignature
	}
	var claims map[string]any
	if err := decodeSegment(segs[1], &claims); err != nil {
		return Principal{}, err
	}
	if exp, ok := claims["exp"].(float64); ok && v.now().Unix() >= int64(exp) {
		return Principal{}, ErrExpired
	}
	role, _ := claims[v.RoleClaim].(string)
	if role == "" {
		return Principal{}, ErrMissingRole
	}
	sub, _ := claims["sub"].(string)
	return Principal{Subject: sub, Role: strings.ToLower(role)}, nil
}

// Sign issues a token for the given subject and role, valid for ttl.
func (v *Verifier) Sign(subject, role string, ttl time.Duration) (string, error) {
	hdr, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	claims := map[string]any{"sub": subject, v.RoleClaim: role}
	if ttl > 0 {
		claims["exp"] = v.now().Add(ttl).Unix()
	}
	body, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	input := base64.RawURLEncoding.EncodeToString(hdr) + "." + base64.RawURLEncoding.EncodeToString(body)
	return input + "." + base64.RawURLEncoding.EncodeToString(v.sign(input)), nil
}

func (v *Verifier) sign(input string) []byte {
	mac := hmac.New(sha256.New, v.Secret)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

func decodeSegment(seg string, out any) error {
	b, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return ErrMalformed
	}
	if err := json.Unmarshal(b, out); err != nil {
		return ErrMalformed
	}
	return nil
}
