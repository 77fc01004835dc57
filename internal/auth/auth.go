// Package auth issues and verifies share links for launched apps.
//
// A share link carries an Ed25519-signed (EdDSA) JWT naming the app it opens.
// Keys are loaded from PEM files or generated at startup for development, in
// which case links stop working when the process restarts.
package auth

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ashita-ai/studio/internal/model"
)

const (
	issuer        = "studio"
	shareAudience = "studio-share"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry, issuer,
// audience or subject checks.
var ErrInvalidToken = errors.New("auth: invalid token")

// ShareClaims extends jwt.RegisteredClaims with the shared app. Subject holds
// the app id.
type ShareClaims struct {
	jwt.RegisteredClaims
	AppName    string `json:"app_name"`
	TemplateID string `json:"template_id,omitempty"`
}

// AppID returns the shared app's id.
func (c *ShareClaims) AppID() string { return c.Subject }

// JWTManager signs and verifies share tokens.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	expiration time.Duration
	now        func() time.Time
}

// NewJWTManager creates a JWTManager from PEM key files. If either path is
// empty it generates an ephemeral key pair.
func NewJWTManager(privateKeyPath, publicKeyPath string, expiration time.Duration, logger *slog.Logger) (*JWTManager, error) {
	m := &JWTManager{expiration: expiration, now: time.Now}
	if privateKeyPath == "" || publicKeyPath == "" {
		logger.Warn("auth: no JWT key files configured, generating ephemeral key pair; share links will not survive a restart")
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("auth: generate key pair: %w", err)
		}
		m.privateKey, m.publicKey = priv, pub
		return m, nil
	}

	priv, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}
	pub, err := loadPublicKey(publicKeyPath)
	if err != nil {
		return nil, err
	}
	// A key pair from two different environments would sign tokens nobody can verify.
	if !bytes.Equal(priv.Public().(ed25519.PublicKey), pub) {
		return nil, fmt.Errorf("auth: public key does not match private key")
	}
	m.privateKey, m.publicKey = priv, pub
	return m, nil
}

func readPEM(path, what string) (*pem.Block, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from validated config, not user input
	if err != nil {
		return nil, fmt.Errorf("auth: read %s key: %w", what, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("auth: decode %s key PEM", what)
	}
	return block, nil
}

func loadPrivateKey(path string) (ed25519.PrivateKey, error) {
	block, err := readPEM(path, "private")
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("auth: parse private key: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("auth: private key is not Ed25519")
	}
	return priv, nil
}

func loadPublicKey(path string) (ed25519.PublicKey, error) {
	block, err := readPEM(path, "public")
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("auth: parse public key: %w", err)
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("auth: public key is not Ed25519")
	}
	return pub, nil
}

// IssueShareToken signs a token that opens app until the returned expiry.
func (m *JWTManager) IssueShareToken(app model.LaunchedApp) (string, time.Time, error) {
	now := m.now().UTC()
	exp := now.Add(m.expiration)

	claims := ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   app.ID,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{shareAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		AppName:    app.Name,
		TemplateID: app.TemplateID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(m.privateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign share token: %w", err)
	}
	return signed, exp, nil
}

// ValidateShareToken parses and verifies a share token.
func (m *JWTManager) ValidateShareToken(tokenStr string) (*ShareClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&ShareClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.publicKey, nil
		},
		jwt.WithAudience(shareAudience),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*ShareClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: invalid subject (expected UUID)", ErrInvalidToken)
	}
	return claims, nil
}
