package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"adpilot/internal/advisor"
	"adpilot/internal/types"
)

// musicState enumerates the states of the music attachment dialogue. The
// flow is a flat state machine rather than recursive calls so a hostile or
// confused input stream cannot grow the stack.
type musicState int

const (
	stateAskWantsMusic musicState = iota
	stateAskSource
	stateExistingPrompt
	stateExistingMenu
	stateUploadAttempt
	stateUploadMenu
)

// maxMusicTransitions bounds the dialogue. On hitting the bound the flow
// resolves to no attachment; for Conversions the rule validation downstream
// then rejects the record, so the mandatory-music invariant survives.
const maxMusicTransitions = 64

const musicExpertPrompt = "You are an ads platform music expert."

// MusicFlow resolves a music attachment for a given objective through a
// branching dialogue. For the Conversions objective declining or cancelling
// is refused and the dialogue restarts from the top.
type MusicFlow struct {
	console Console
	music   MusicService
	advisor advisor.Advisor
	logger  *zap.Logger
}

// NewMusicFlow creates a MusicFlow.
func NewMusicFlow(console Console, music MusicService, adv advisor.Advisor, logger *zap.Logger) *MusicFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MusicFlow{console: console, music: music, advisor: adv, logger: logger}
}

// Resolve runs the dialogue to a terminal attachment. The result is attached
// whenever objective is Conversions, unless the transition bound is hit.
func (f *MusicFlow) Resolve(ctx context.Context, objective types.Objective) types.MusicAttachment {
	state := stateAskWantsMusic

	for i := 0; i < maxMusicTransitions; i++ {
		switch state {

		case stateAskWantsMusic:
			wants := f.console.Ask("Add music? (yes/no)")
			if !strings.EqualFold(strings.TrimSpace(wants), "yes") {
				if objective.RequiresMusic() {
					f.console.Say("The Conversions objective requires music. Please choose to add or upload music.")
					continue
				}
				return types.MusicAttachment{}
			}
			state = stateAskSource

		case stateAskSource:
			choice := f.console.Ask("Existing or upload? (existing/upload)")
			if strings.EqualFold(strings.TrimSpace(choice), "existing") {
				state = stateExistingPrompt
			} else {
				state = stateUploadAttempt
			}

		case stateExistingPrompt:
			id := f.console.Ask("Enter music ID")
			ok, err := f.music.ValidateMusicID(id)
			if ok {
				f.logger.Debug("Music resolved", zap.String("music_id", id), zap.String("source", "existing"))
				return types.MusicAttachment{ID: id, Source: types.MusicExisting}
			}
			f.console.Say(f.advisor.Explain(ctx, musicExpertPrompt,
				"Music validation failed: "+err.Format()+". Explain and suggest next steps."))
			state = stateExistingMenu

		case stateExistingMenu:
			switch strings.ToLower(strings.TrimSpace(f.console.Ask("Choose: retry / upload / cancel"))) {
			case "retry":
				state = stateExistingPrompt
			case "upload":
				id := f.music.UploadMusic()
				f.console.Say("Uploaded music ID: " + id)
				ok, err := f.music.ValidateMusicID(id)
				if ok {
					return types.MusicAttachment{ID: id, Source: types.MusicUploaded}
				}
				f.console.Say(f.advisor.Explain(ctx, musicExpertPrompt,
					"Uploaded music validation failed: "+err.Format()+". Explain and suggest next steps."))
				// stay on the menu
			case "cancel":
				next, cancelled := f.cancel(objective)
				if cancelled {
					return types.MusicAttachment{}
				}
				state = next
			default:
				f.console.Say("Please answer retry, upload or cancel.")
			}

		case stateUploadAttempt:
			id := f.music.UploadMusic()
			f.console.Say("Uploaded music ID: " + id)
			ok, err := f.music.ValidateMusicID(id)
			if ok {
				f.logger.Debug("Music resolved", zap.String("music_id", id), zap.String("source", "upload"))
				return types.MusicAttachment{ID: id, Source: types.MusicUploaded}
			}
			f.console.Say(f.advisor.Explain(ctx, musicExpertPrompt,
				"Uploaded music validation failed: "+err.Format()+". Explain and suggest next steps."))
			state = stateUploadMenu

		case stateUploadMenu:
			switch strings.ToLower(strings.TrimSpace(f.console.Ask("Choose: retry_upload / enter_existing / cancel"))) {
			case "retry_upload", "enter_existing":
				state = stateAskSource
			case "cancel":
				next, cancelled := f.cancel(objective)
				if cancelled {
					return types.MusicAttachment{}
				}
				state = next
			default:
				f.console.Say("Please answer retry_upload, enter_existing or cancel.")
			}
		}
	}

	f.logger.Warn("Music dialogue hit its transition bound, resolving without music")
	f.console.Say("Too many music choices without a result; continuing without music.")
	return types.MusicAttachment{}
}

// cancel applies the mandatory-music guard to a cancel request. A refused
// cancel restarts the dialogue from the top; the same policy applies in both
// menus.
func (f *MusicFlow) cancel(objective types.Objective) (musicState, bool) {
	if objective.RequiresMusic() {
		f.console.Say("Cannot cancel music while the objective is Conversions. Please add music.")
		return stateAskWantsMusic, false
	}
	return stateAskWantsMusic, true
}
