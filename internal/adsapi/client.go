// Package adsapi is the mock ads-platform client: music id validation, music
// upload and ad submission. Submission reuses the oauth authority's token
// semantics before applying the platform's own business rules, so token
// failures surface with the same codes a live API would return.
package adsapi

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adpilot/internal/oauth"
	"adpilot/internal/types"
)

// MusicIDPrefix is the naming convention every approved music id follows.
const MusicIDPrefix = "music_"

// blockedRegionPrefix rejects campaigns named after a geo-restricted region.
// Matched case-insensitively against the campaign name.
const blockedRegionPrefix = "india"

// Client talks to the (mock) ads platform.
type Client struct {
	authority *oauth.Authority
	logger    *zap.Logger
}

// NewClient creates a platform client backed by the given token authority.
func NewClient(authority *oauth.Authority, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{authority: authority, logger: logger}
}

// ValidateMusicID checks a music id against the platform naming convention.
func (c *Client) ValidateMusicID(id string) (bool, *types.Error) {
	if id == "" {
		return false, types.NewError(types.CodeMissingMusicID,
			"Music ID missing",
			"Provide a valid music ID or upload music", true)
	}

	if !strings.HasPrefix(id, MusicIDPrefix) {
		return false, types.NewError(types.CodeInvalidMusicID,
			"Music ID not found or not approved",
			"Check the music ID or upload a new music file", true)
	}

	return true, nil
}

// UploadMusic simulates uploading a music file and returns the fresh id the
// platform assigned. Uploaded ids always satisfy ValidateMusicID.
func (c *Client) UploadMusic() string {
	id := MusicIDPrefix + "up_" + uuid.NewString()
	c.logger.Debug("Uploaded music", zap.String("music_id", id))
	return id
}

// Submit sends the record to the platform. Checks run in the order a live
// endpoint would apply them: token, Conversions music rule, music id, geo
// restriction.
func (c *Client) Submit(record *types.AdRecord, token string) (bool, *types.Error) {
	if valid, err := c.authority.Validate(token); !valid {
		return false, err
	}

	if record.Objective.RequiresMusic() && record.Creative.MusicID == "" {
		return false, types.NewError(types.CodeMissingMusicForConversions,
			"Music is required for the Conversions objective",
			"Add a valid music ID or upload music", true)
	}

	if record.Creative.MusicID != "" {
		if ok, err := c.ValidateMusicID(record.Creative.MusicID); !ok {
			return false, err
		}
	}

	if strings.HasPrefix(strings.ToLower(record.CampaignName), blockedRegionPrefix) {
		return false, types.NewError(types.CodeGeoRestriction,
			"403 Geo-restriction: ads are not allowed in this region",
			"Target a different region or change the campaign targeting", false)
	}

	c.logger.Info("Ad submitted",
		zap.String("campaign", record.CampaignName),
		zap.String("objective", string(record.Objective)))

	return true, nil
}
