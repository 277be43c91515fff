// Package agent drives one conversational ad-submission session: field
// collection, the music attachment dialogue, authentication and the bounded
// submission/recovery loop. All I/O goes through the Console interface so the
// flow can run against a terminal or a scripted test harness unchanged.
package agent

import "adpilot/internal/types"

// Console is the line-based dialogue surface. Say shows a message to the
// user; Ask shows a prompt and blocks for one line of input.
type Console interface {
	Say(msg string)
	Ask(prompt string) string
}

// TokenIssuer is the authentication surface the session needs. Satisfied by
// *oauth.Authority.
type TokenIssuer interface {
	Issue(userName string) (string, *types.Error)
	Validate(token string) (bool, *types.Error)
}

// MusicService is the platform surface the music dialogue needs.
type MusicService interface {
	ValidateMusicID(id string) (bool, *types.Error)
	UploadMusic() string
}

// Platform is the full ads-platform surface the session needs. Satisfied by
// *adsapi.Client.
type Platform interface {
	MusicService
	Submit(record *types.AdRecord, token string) (bool, *types.Error)
}
