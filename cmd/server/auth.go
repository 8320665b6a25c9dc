package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nickyhof/MyDB/core"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrAuthFailed   = errors.New("authentication failed")
)

// AuthConfig configures server authentication.
type AuthConfig struct {
	// JWTSecret is the shared secret for HS256 JWT validation.
	JWTSecret string

	// Issuer is the expected "iss" claim in JWTs (optional).
	Issuer string

	// Audience is the expected "aud" claim in JWTs (optional).
	Audience string

	// NameClaim is the JWT claim for user's name (default: "name").
	NameClaim string

	// EmailClaim is the JWT claim for user's email (default: "email").
	EmailClaim string
}

// ConnectionState tracks per-connection authentication state.
type ConnectionState struct {
	identity      core.Identity
	authenticated bool
	tokenExpiry   time.Time
}

// IsAuthenticated reports whether the connection holds a live token.
func (cs *ConnectionState) IsAuthenticated(now time.Time) bool {
	if !cs.authenticated {
		return false
	}
	return cs.tokenExpiry.IsZero() || now.Before(cs.tokenExpiry)
}

func (cs *ConnectionState) Identity() core.Identity {
	return cs.identity
}

// validateJWT validates a token and extracts identity claims.
func (config *AuthConfig) validateJWT(tokenString string) (core.Identity, time.Time, error) {
	nameClaim := config.NameClaim
	if nameClaim == "" {
		nameClaim = "name"
	}
	emailClaim := config.EmailClaim
	if emailClaim == "" {
		emailClaim = "email"
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	}
	if config.Issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(config.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.JWTSecret), nil
	}, parserOptions...)
	if err != nil {
		return core.Identity{}, time.Time{}, fmt.Errorf("%w: invalid token: %w", ErrAuthFailed, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return core.Identity{}, time.Time{}, fmt.Errorf("%w: invalid token claims", ErrAuthFailed)
	}

	if config.Audience != "" {
		audiences, _ := claims.GetAudience()
		if !slices.Contains(audiences, config.Audience) {
			return core.Identity{}, time.Time{}, fmt.Errorf("%w: invalid audience: expected %s", ErrAuthFailed, config.Audience)
		}
	}

	name, _ := claims[nameClaim].(string)
	email, _ := claims[emailClaim].(string)
	if name == "" && email == "" {
		return core.Identity{}, time.Time{}, fmt.Errorf("%w: token missing identity claims (%s or %s)", ErrAuthFailed, nameClaim, emailClaim)
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return core.Identity{Name: name, Email: email}, expiresAt, nil
}

// isAuthCommand reports whether line starts with the AUTH keyword.
func isAuthCommand(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.EqualFold(fields[0], "AUTH")
}

// parseAuthCommand parses an AUTH command and returns the auth type and token.
// Supported formats:
//   - AUTH JWT <token>
func parseAuthCommand(line string) (authType, token string, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 || !strings.EqualFold(parts[0], "AUTH") {
		return "", "", errors.New("not an AUTH command")
	}
	if len(parts) != 3 {
		return "", "", errors.New("invalid AUTH command: expected AUTH <type> <credentials>")
	}

	authType = strings.ToUpper(parts[1])
	switch authType {
	case "JWT":
		return authType, parts[2], nil
	default:
		return "", "", fmt.Errorf("unsupported auth type: %s", parts[1])
	}
}

// handleAuth processes an AUTH command, updating state on success.
func (s *Server) handleAuth(line string, state *ConnectionState) Response {
	if s.authConfig == nil {
		return authError(errors.New("authentication not configured"))
	}

	_, token, err := parseAuthCommand(line)
	if err != nil {
		return authError(err)
	}

	identity, expiresAt, err := s.authConfig.validateJWT(token)
	if err != nil {
		return authError(err)
	}

	state.identity = identity
	state.authenticated = true
	state.tokenExpiry = expiresAt

	ar := AuthResponse{
		Authenticated: true,
		Identity:      identity.String(),
	}
	if !expiresAt.IsZero() {
		ar.ExpiresIn = int(time.Until(expiresAt).Seconds())
	}

	data, _ := json.Marshal(ar)
	return Response{
		Success: true,
		Type:    "auth",
		Result:  data,
	}
}

func authError(err error) Response {
	return Response{
		Success: false,
		Type:    "auth",
		Kind:    "AuthError",
		Error:   err.Error(),
	}
}
