package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"  // secure random number generation
    "encoding/hex" // hex encoding for invite hashes
    "errors"       // sentinel error for failed verification
    "time"         // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // UUID generation for jti claims
)

// ErrInvalidToken is returned by ParseToken when a token fails signature
// verification, has expired, or is missing its identity claims.
var ErrInvalidToken = errors.New("invalid or expired token")

// SignedToken represents a signed JWT along with its expiry.  The Token
// field contains the serialized JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are short-lived and carried in
// the Authorization header; refresh tokens are long-lived and travel only
// inside an HTTP-only cookie.
type SignedToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The JWT embeds
// the user id under "id" and a fresh UUID under "jti", with standard exp
// and iat claims.  Access tokens are never persisted; expiry is enforced
// by signature verification at consumption time.
func NewAccessToken(secret, userID string, ttlMin int) (SignedToken, error) {
    return newSignedToken(secret, userID, uuid.NewString(), time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken builds and signs an HS256 JWT whose jti is the id of a
// persisted auth_tokens row.  The server validates a refresh by looking
// that row up and checking its valid flag, so logout can revoke sessions
// without an access-token blacklist.
func NewRefreshToken(secret, userID, tokenID string, ttlDays int) (SignedToken, error) {
    return newSignedToken(secret, userID, tokenID, time.Duration(ttlDays)*24*time.Hour)
}

func newSignedToken(secret, userID, jti string, ttl time.Duration) (SignedToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "id":  userID,
        "jti": jti,
        "exp": exp.Unix(),
        "iat": now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SignedToken{}, err
    }
    return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies signature and expiry of a token signed with the given
// secret and returns its user id and jti claims.  Verification is a pure
// function; no shared state is consulted.
func ParseToken(secret, raw string) (userID, jti string, err error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", "", ErrInvalidToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", "", ErrInvalidToken
    }
    userID, _ = claims["id"].(string)
    jti, _ = claims["jti"].(string)
    if userID == "" || jti == "" {
        return "", "", ErrInvalidToken
    }
    return userID, jti, nil
}

// NewInviteHash returns a hex-encoded string generated from 32 bytes of
// cryptographically secure random data.  Invite hashes are bearer
// capabilities, so they need enough entropy to be unguessable.
func NewInviteHash() (string, error) {
    buf := make([]byte, 32)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
