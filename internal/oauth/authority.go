// Package oauth implements the mock token authority: issuance, validation and
// revocation of opaque access tokens against configured client credentials.
// The store is in-memory and scoped to the Authority instance; records live
// until the process exits.
package oauth

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adpilot/internal/types"
)

// Accepted mock credential values. The noscope secret issues a token without
// the ads scope to simulate a missing-permission grant.
const (
	AcceptedClientID     = "test_client_id"
	AcceptedClientSecret = "test_client_secret"
	NoScopeClientSecret  = "test_client_secret_noscope"
)

// ScopeAds is the permission scope required for any ads-API action.
const ScopeAds = "ads"

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 300 * time.Second

// TokenRecord is the server-side state behind an opaque token string. Records
// are never mutated after creation except for revocation.
type TokenRecord struct {
	Owner    string
	IssuedAt time.Time
	TTL      time.Duration
	Revoked  bool
	Scopes   map[string]struct{}
}

// Credentials are the client id/secret pair the authority checks at issuance.
// Empty fields translate into missing_env errors, mirroring credentials that
// were never configured.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Authority issues, validates and revokes tokens. Safe for concurrent use:
// the record store is guarded by a mutex so parallel sessions can share one
// instance.
type Authority struct {
	creds  Credentials
	logger *zap.Logger

	mu     sync.Mutex
	tokens map[string]*TokenRecord

	// now is injectable so tests can move the clock past expiry.
	now func() time.Time
}

// NewAuthority creates an Authority with an empty token store.
func NewAuthority(creds Credentials, logger *zap.Logger) *Authority {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authority{
		creds:  creds,
		logger: logger,
		tokens: make(map[string]*TokenRecord),
		now:    time.Now,
	}
}

// Issue authenticates userName against the configured credentials and returns
// a fresh opaque token. All failures are non-retryable: they need a different
// identity or fixed configuration, not another attempt.
func (a *Authority) Issue(userName string) (string, *types.Error) {
	if len(strings.TrimSpace(userName)) < 2 {
		return "", types.NewError(types.CodeInvalidUser,
			"Invalid user identity provided",
			"Provide a valid user name (min 2 chars)", false)
	}

	if a.creds.ClientID == "" {
		return "", types.NewError(types.CodeMissingEnv,
			"ADPILOT_CLIENT_ID missing in environment",
			"Set ADPILOT_CLIENT_ID or add platform.client_id to the config file", false)
	}
	if a.creds.ClientSecret == "" {
		return "", types.NewError(types.CodeMissingEnv,
			"ADPILOT_CLIENT_SECRET missing in environment",
			"Set ADPILOT_CLIENT_SECRET or add platform.client_secret to the config file", false)
	}

	if a.creds.ClientID != AcceptedClientID {
		return "", types.NewError(types.CodeInvalidClientID,
			"Invalid ads platform client_id",
			"Check the configured client_id value", false)
	}

	scopes := map[string]struct{}{ScopeAds: {}}
	switch a.creds.ClientSecret {
	case NoScopeClientSecret:
		// Sentinel secret: issue a token carrying no scopes at all.
		scopes = map[string]struct{}{}
	case AcceptedClientSecret:
	default:
		return "", types.NewError(types.CodeInvalidClientSecret,
			"Invalid ads platform client_secret",
			"Check the configured client_secret value", false)
	}

	token := formatToken(userName, scopes)

	a.mu.Lock()
	a.tokens[token] = &TokenRecord{
		Owner:    userName,
		IssuedAt: a.now(),
		TTL:      TokenTTL,
		Scopes:   scopes,
	}
	a.mu.Unlock()

	a.logger.Debug("Issued access token",
		zap.String("owner", userName),
		zap.Int("scopes", len(scopes)))

	return token, nil
}

// Validate checks a token against its record. A token is valid iff the record
// exists, is not revoked, has not outlived its TTL, and grants the ads scope.
// Failures here are retryable: re-authentication produces a usable token.
func (a *Authority) Validate(token string) (bool, *types.Error) {
	if token == "" {
		return false, types.NewError(types.CodeMissingToken,
			"Missing OAuth access token",
			"Authenticate to obtain an access token", true)
	}

	// Snapshot the record fields under the lock: Revoke flips Revoked on the
	// shared record and SetClock swaps the clock, both possibly concurrently.
	a.mu.Lock()
	record, ok := a.tokens[token]
	if !ok {
		a.mu.Unlock()
		return false, types.NewError(types.CodeInvalidToken,
			"Invalid or unknown access token",
			"Re-authenticate to obtain a new token", true)
	}
	revoked := record.Revoked
	age := a.now().Sub(record.IssuedAt)
	ttl := record.TTL
	_, hasAds := record.Scopes[ScopeAds]
	a.mu.Unlock()

	if revoked {
		return false, types.NewError(types.CodeRevokedToken,
			"Token has been revoked",
			"Re-authenticate to obtain a new token", true)
	}

	if age > ttl {
		return false, types.NewError(types.CodeExpiredToken,
			"Access token has expired",
			"Re-authenticate to refresh the token", true)
	}

	if !hasAds {
		return false, types.NewError(types.CodeMissingScope,
			"Missing ads permission scope",
			"Re-authenticate and grant the ads permission to the app", true)
	}

	return true, nil
}

// Revoke marks the token's record revoked. Unknown tokens are a silent no-op:
// revoking something that never existed changes nothing.
func (a *Authority) Revoke(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if record, ok := a.tokens[token]; ok {
		record.Revoked = true
		a.logger.Debug("Revoked access token", zap.String("owner", record.Owner))
	}
}

// SetClock overrides the authority's time source. Test hook; takes the lock
// because Issue and Validate read the clock under it.
func (a *Authority) SetClock(now func() time.Time) {
	a.mu.Lock()
	a.now = now
	a.mu.Unlock()
}

// formatToken builds the opaque token string. The owner and scope list are
// embedded for debuggability of the mock; validation always goes through the
// record, never this string.
func formatToken(owner string, scopes map[string]struct{}) string {
	names := make([]string, 0, len(scopes))
	for s := range scopes {
		names = append(names, s)
	}
	sort.Strings(names)
	return fmt.Sprintf("mock_token_%s_%s::scopes=%s",
		owner, uuid.NewString(), strings.Join(names, ","))
}
