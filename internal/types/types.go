// Package types provides shared type definitions used across adpilot packages.
// This package exists so oauth, adsapi and agent can exchange records and
// structured errors without import cycles. Types here are foundational data
// structures with no complex dependencies.
package types

import (
	"strings"
)

// =============================================================================
// OBJECTIVE
// =============================================================================

// Objective is the advertising goal of a campaign. It constrains whether a
// music attachment is mandatory: Conversions campaigns must carry music.
type Objective string

const (
	ObjectiveNone        Objective = ""
	ObjectiveTraffic     Objective = "Traffic"
	ObjectiveConversions Objective = "Conversions"
)

// ParseObjective matches the input case-insensitively against the known
// objectives and returns the normalized value. ok is false for anything else.
func ParseObjective(s string) (Objective, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "traffic":
		return ObjectiveTraffic, true
	case "conversions":
		return ObjectiveConversions, true
	}
	return ObjectiveNone, false
}

// RequiresMusic reports whether this objective makes a music attachment
// mandatory.
func (o Objective) RequiresMusic() bool {
	return o == ObjectiveConversions
}

// =============================================================================
// AD RECORD
// =============================================================================

// Creative holds the creative assets of an ad. MusicID empty means no music
// attached.
type Creative struct {
	Text    string `json:"text"`
	CTA     string `json:"cta"`
	MusicID string `json:"music_id,omitempty"`
}

// AdRecord is the mutable entity assembled over one session. It is created
// empty, filled field by field by the collector and the music flow, and owned
// exclusively by the running session until it terminates.
type AdRecord struct {
	CampaignName string    `json:"campaign_name"`
	Objective    Objective `json:"objective"`
	Creative     Creative  `json:"creative"`
}

// MaxAdTextLen is the platform limit on ad creative text.
const MaxAdTextLen = 100

// MinCampaignNameLen is the platform minimum for campaign names.
const MinCampaignNameLen = 3

// Complete reports whether every required field has been collected. Music is
// checked by ValidateRules, not here, because it is only conditionally
// required.
func (r *AdRecord) Complete() bool {
	return r.CampaignName != "" &&
		r.Objective != ObjectiveNone &&
		r.Creative.Text != "" &&
		r.Creative.CTA != ""
}

// ValidateRules runs the platform business rules over the record and returns
// one human-readable violation per broken rule. An empty slice means the
// record is submission-eligible. Pure: the record is not modified and
// repeated calls yield identical results.
func (r *AdRecord) ValidateRules() []string {
	var violations []string

	if len(r.CampaignName) < MinCampaignNameLen {
		violations = append(violations, "Campaign name must be at least 3 characters")
	}

	if r.Objective != ObjectiveTraffic && r.Objective != ObjectiveConversions {
		violations = append(violations, "Objective must be Traffic or Conversions")
	}

	if len(r.Creative.Text) > MaxAdTextLen {
		violations = append(violations, "Ad text must be 100 characters or fewer")
	}

	if r.Objective.RequiresMusic() && r.Creative.MusicID == "" {
		violations = append(violations, "Music is required for the Conversions objective")
	}

	return violations
}

// =============================================================================
// MUSIC ATTACHMENT
// =============================================================================

// MusicSource tags where a music id came from during the music dialogue.
// The origin matters only transiently while recovering from a rejected id;
// the final record keeps just the id.
type MusicSource int

const (
	MusicNone MusicSource = iota
	MusicExisting
	MusicUploaded
)

// MusicAttachment is the terminal outcome of the music flow: a nullable id
// plus its origin tag.
type MusicAttachment struct {
	ID     string
	Source MusicSource
}

// Attached reports whether the flow resolved to an actual music id.
func (m MusicAttachment) Attached() bool {
	return m.ID != ""
}
