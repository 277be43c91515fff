package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/adsapi"
	"adpilot/internal/advisor"
	"adpilot/internal/oauth"
	"adpilot/internal/types"
)

func newRealStack() (*adsapi.Client, *oauth.Authority) {
	authority := oauth.NewAuthority(oauth.Credentials{
		ClientID:     oauth.AcceptedClientID,
		ClientSecret: oauth.AcceptedClientSecret,
	}, nil)
	return adsapi.NewClient(authority, nil), authority
}

func TestSessionHappyPath(t *testing.T) {
	platform, authority := newRealStack()
	console := newScriptConsole(t,
		"alice",         // name
		"Summer Launch", // campaign
		"traffic",       // objective
		"Buy now",       // ad text
		"Shop",          // cta
		"no",            // music
	)

	session := NewSession(console, platform, authority, advisor.NewStub(), nil)
	require.NoError(t, session.Run(context.Background()))

	assert.True(t, console.saidContaining("Ad submitted successfully!"))
	assert.True(t, console.saidContaining("FINAL AD PAYLOAD"))
	assert.True(t, console.saidContaining(`"campaign_name": "Summer Launch"`))
}

func TestSessionConversionsEndToEnd(t *testing.T) {
	platform, authority := newRealStack()
	console := newScriptConsole(t,
		"alice",
		"Summer Launch",
		"conversions",
		"Buy now",
		"Shop",
		"yes", "existing", "music_321",
	)

	session := NewSession(console, platform, authority, advisor.NewStub(), nil)
	require.NoError(t, session.Run(context.Background()))
	assert.True(t, console.saidContaining(`"music_id": "music_321"`))
}

func TestSessionAuthFailureIsFatal(t *testing.T) {
	// No credentials configured: issuance fails with missing_env and the
	// session never reaches field collection.
	authority := oauth.NewAuthority(oauth.Credentials{}, nil)
	platform := adsapi.NewClient(authority, nil)
	console := newScriptConsole(t, "alice")

	session := NewSession(console, platform, authority, advisor.NewStub(), nil)
	err := session.Run(context.Background())
	require.Error(t, err)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeMissingEnv, apiErr.Code)
	assert.Empty(t, console.asked[1:], "collection must not start after an auth failure")
}

func TestSessionNoScopeTokenIsFatal(t *testing.T) {
	authority := oauth.NewAuthority(oauth.Credentials{
		ClientID:     oauth.AcceptedClientID,
		ClientSecret: oauth.NoScopeClientSecret,
	}, nil)
	platform := adsapi.NewClient(authority, nil)
	console := newScriptConsole(t, "alice")

	session := NewSession(console, platform, authority, advisor.NewStub(), nil)
	err := session.Run(context.Background())
	require.Error(t, err)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeMissingScope, apiErr.Code)
}

func TestSessionGeoRestrictionTerminatesWithoutRetry(t *testing.T) {
	platform := &fakePlatform{
		errs: []*types.Error{
			types.NewError(types.CodeGeoRestriction, "403 Geo-restriction", "Change targeting", false),
		},
	}
	console := newScriptConsole(t,
		"alice", "India Launch", "traffic", "Buy now", "Shop", "no",
	)

	session := NewSession(console, platform, &fakeTokens{}, advisor.NewStub(), nil)
	err := session.Run(context.Background())
	require.Error(t, err)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeGeoRestriction, apiErr.Code)
	assert.Equal(t, 1, platform.calls, "fatal codes must terminate on first occurrence")
	assert.True(t, console.saidContaining("geo-restriction"))
}

func TestSessionExpiredTokenReauthenticates(t *testing.T) {
	platform := &fakePlatform{
		errs: []*types.Error{
			types.NewError(types.CodeExpiredToken, "Access token has expired", "Re-authenticate", true),
			nil, // second attempt succeeds
		},
	}
	tokens := &fakeTokens{}
	console := newScriptConsole(t,
		"alice", "Summer Launch", "traffic", "Buy now", "Shop", "no",
		"alice", // re-authentication prompt
	)

	session := NewSession(console, platform, tokens, advisor.NewStub(), nil)
	require.NoError(t, session.Run(context.Background()))

	assert.Equal(t, 2, platform.calls)
	assert.Equal(t, 2, tokens.issued)
	assert.NotEqual(t, platform.tokens[0], platform.tokens[1], "retry must use the fresh token")
	assert.True(t, console.saidContaining("re-authenticate"))
}

func TestSessionMusicRepairThenSuccess(t *testing.T) {
	platform := &fakePlatform{
		errs: []*types.Error{
			types.NewError(types.CodeInvalidMusicID, "Music ID not found", "Check it", true),
			nil,
		},
	}
	console := newScriptConsole(t,
		"alice", "Summer Launch", "conversions", "Buy now", "Shop",
		"yes", "existing", "music_1", // initial music
		"yes", "existing", "music_2", // repair dialogue
	)

	session := NewSession(console, platform, &fakeTokens{}, advisor.NewStub(), nil)
	require.NoError(t, session.Run(context.Background()))
	assert.Equal(t, 2, platform.calls)
	assert.True(t, console.saidContaining(`"music_id": "music_2"`))
}

func TestSessionSubmitBudgetExhausted(t *testing.T) {
	platform := &fakePlatform{
		errs: []*types.Error{
			types.NewError(types.CodeInvalidMusicID, "Music ID not found", "Check it", true),
			types.NewError(types.CodeInvalidMusicID, "Music ID not found", "Check it", true),
			types.NewError(types.CodeInvalidMusicID, "Music ID not found", "Check it", true),
			nil, // would succeed, but must never be reached
		},
	}
	console := newScriptConsole(t,
		"alice", "Summer Launch", "traffic", "Buy now", "Shop", "no",
		"no", "no", "no", // one declined repair dialogue per failed attempt
	)

	session := NewSession(console, platform, &fakeTokens{}, advisor.NewStub(), nil)
	err := session.Run(context.Background())
	require.Error(t, err)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeMaxAttemptsExceeded, apiErr.Code)
	assert.Equal(t, maxSubmitAttempts, platform.calls, "the budget bounds submit calls")
}

// A repair dialogue that hits its transition bound cannot attach the music a
// Conversions record needs; the session must fail there rather than resubmit
// a record without music.
func TestSessionRepairDialogueBoundIsFatal(t *testing.T) {
	platform := &fakePlatform{
		errs: []*types.Error{
			types.NewError(types.CodeInvalidMusicID, "Music ID not found", "Check it", true),
		},
	}
	console := &boundedThenScripted{
		script: []string{
			"alice", "Summer Launch", "conversions", "Buy now", "Shop",
			"yes", "existing", "music_1", // initial attachment
		},
		loop: "no", // repair dialogue declines until the bound
	}

	session := NewSession(console, platform, &fakeTokens{}, advisor.NewStub(), nil)
	err := session.Run(context.Background())
	require.Error(t, err)

	var apiErr *types.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, types.CodeMissingMusicForConversions, apiErr.Code)
	assert.False(t, apiErr.Retryable)
	assert.Equal(t, 1, platform.calls, "the session must not resubmit without the mandatory music")
}

func TestSessionRuleValidationBlocksSubmission(t *testing.T) {
	// The music dialogue is bypassed via the transition bound, leaving a
	// Conversions record without music; rule validation must stop the session
	// before any submit call.
	platform := &fakePlatform{}
	console := &boundedThenScripted{
		script: []string{"alice", "Summer Launch", "conversions", "Buy now", "Shop"},
		loop:   "no",
	}

	session := NewSession(console, platform, &fakeTokens{}, advisor.NewStub(), nil)
	err := session.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, platform.calls)
}

// boundedThenScripted plays a fixed script, then answers every further
// prompt identically.
type boundedThenScripted struct {
	script []string
	next   int
	loop   string
	said   []string
}

func (c *boundedThenScripted) Say(msg string) { c.said = append(c.said, msg) }

func (c *boundedThenScripted) Ask(prompt string) string {
	if c.next < len(c.script) {
		answer := c.script[c.next]
		c.next++
		return answer
	}
	return c.loop
}
