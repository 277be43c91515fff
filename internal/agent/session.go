package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"adpilot/internal/advisor"
	"adpilot/internal/types"
)

// maxSubmitAttempts bounds the submission/recovery loop. Fatal codes end the
// session immediately; recoverable codes consume one attempt each.
const maxSubmitAttempts = 3

const (
	oauthExpertPrompt      = "You are an OAuth expert."
	apiExpertPrompt        = "You are an ads platform API expert."
	validationExpertPrompt = "You are an ads validation expert."
	summaryPrompt          = "You are an assistant that summarizes structured output."
)

// Session is one end-to-end run of the submission orchestrator, from
// authentication through terminal success or fatal failure. It owns the ad
// record for its whole lifetime.
type Session struct {
	console  Console
	platform Platform
	tokens   TokenIssuer
	advisor  advisor.Advisor
	logger   *zap.Logger

	collector *Collector
	music     *MusicFlow
}

// NewSession wires a session from its collaborators.
func NewSession(console Console, platform Platform, tokens TokenIssuer, adv advisor.Advisor, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		console:   console,
		platform:  platform,
		tokens:    tokens,
		advisor:   adv,
		logger:    logger,
		collector: NewCollector(console),
		music:     NewMusicFlow(console, platform, adv, logger),
	}
}

// authenticate issues and validates a token for userName. Any failure is
// explained to the user and returned; there is no retry at this level.
func (s *Session) authenticate(ctx context.Context, userName string) (string, *types.Error) {
	token, err := s.tokens.Issue(userName)
	if err != nil {
		s.console.Say(s.advisor.Explain(ctx, oauthExpertPrompt,
			"Explain this OAuth error clearly and suggest a fix: "+err.Format()))
		return "", err
	}

	if _, err := s.tokens.Validate(token); err != nil {
		s.console.Say(s.advisor.Explain(ctx, oauthExpertPrompt,
			"Explain this token error and the corrective action: "+err.Format()))
		return "", err
	}

	return token, nil
}

// Run drives the session: authenticate, collect fields, resolve music,
// validate rules, then submit with bounded recovery.
func (s *Session) Run(ctx context.Context) error {
	s.console.Say("Starting the ads assistant")

	userName := s.console.Ask("Enter your name")
	token, authErr := s.authenticate(ctx, userName)
	if authErr != nil {
		return authErr
	}
	s.logger.Info("Session authenticated", zap.String("user", userName))

	record := &types.AdRecord{}
	if err := s.collector.Fill(record); err != nil {
		s.console.Say("Could not collect a valid value, ending the session.")
		return err
	}
	s.logger.Debug("Fields collected",
		zap.String("campaign", record.CampaignName),
		zap.String("objective", string(record.Objective)))

	attachment := s.music.Resolve(ctx, record.Objective)
	record.Creative.MusicID = attachment.ID
	s.logger.Debug("Music flow completed", zap.String("music_id", attachment.ID))

	if violations := record.ValidateRules(); len(violations) > 0 {
		s.console.Say(s.advisor.Explain(ctx, validationExpertPrompt,
			"Explain these validation errors clearly and suggest fixes: "+strings.Join(violations, "; ")))
		return fmt.Errorf("ad record failed rule validation: %s", strings.Join(violations, "; "))
	}

	return s.submitLoop(ctx, record, token)
}

// submitLoop performs up to maxSubmitAttempts submissions, dispatching each
// failure to its recovery path. It is the only place fatal-vs-retry is
// decided.
func (s *Session) submitLoop(ctx context.Context, record *types.AdRecord, token string) error {
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		ok, subErr := s.platform.Submit(record, token)
		if ok {
			s.finish(ctx, record)
			return nil
		}

		s.logger.Info("Submission failed",
			zap.String("code", string(subErr.Code)),
			zap.Bool("retryable", subErr.Retryable),
			zap.Int("attempt", attempt+1))

		s.console.Say(s.advisor.Explain(ctx, apiExpertPrompt,
			"Submission failed: "+subErr.Message+". Suggested action: "+subErr.Action))

		switch subErr.Code {
		case types.CodeInvalidToken, types.CodeExpiredToken, types.CodeMissingScope:
			s.console.Say("Attempting to re-authenticate to resolve the token issue...")
			userName := s.console.Ask("Re-enter your name to re-authenticate")
			fresh, authErr := s.authenticate(ctx, userName)
			if authErr != nil {
				return authErr
			}
			token = fresh

		case types.CodeMissingMusicForConversions:
			s.console.Say("Please add or upload music to satisfy the Conversions objective.")
			if err := s.repairMusic(ctx, record); err != nil {
				return err
			}

		case types.CodeInvalidMusicID:
			s.console.Say("The music ID is invalid. Please re-check it or upload a new music file.")
			if err := s.repairMusic(ctx, record); err != nil {
				return err
			}

		case types.CodeGeoRestriction:
			s.console.Say("This campaign is blocked by a geo-restriction and cannot be submitted. Change the campaign name or target region.")
			return subErr

		default:
			s.console.Say("An unrecoverable error occurred. See the message above for details.")
			return subErr
		}
	}

	exhausted := types.NewError(types.CodeMaxAttemptsExceeded,
		"Submission attempts exhausted without success",
		"Review the reported errors and start a new session", false)
	s.console.Say(s.advisor.Explain(ctx, apiExpertPrompt,
		"The submission budget was exhausted: "+exhausted.Format()))
	return exhausted
}

// repairMusic re-runs the music dialogue to fix the record's attachment.
// When the dialogue ends without music while the objective demands it (the
// transition bound was hit), no later submission can succeed, so the session
// fails here instead of burning the remaining attempts.
func (s *Session) repairMusic(ctx context.Context, record *types.AdRecord) error {
	attachment := s.music.Resolve(ctx, record.Objective)
	record.Creative.MusicID = attachment.ID

	if record.Objective.RequiresMusic() && !attachment.Attached() {
		err := types.NewError(types.CodeMissingMusicForConversions,
			"Music dialogue ended without an attachment",
			"Start a new session and attach music to the Conversions campaign", false)
		s.console.Say(s.advisor.Explain(ctx, apiExpertPrompt,
			"Music repair failed: "+err.Format()))
		return err
	}
	return nil
}

// finish emits the success epilogue: an advisor summary of the payload and
// the final record as indented JSON.
func (s *Session) finish(ctx context.Context, record *types.AdRecord) {
	s.console.Say("Ad submitted successfully!")

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		// MarshalIndent cannot fail on this struct shape; keep the session
		// alive regardless.
		payload = []byte("{}")
	}

	s.console.Say(s.advisor.Explain(ctx, summaryPrompt,
		"Explain this final ad payload in simple words:\n"+string(payload)))

	s.console.Say(strings.Repeat("_", 50))
	s.console.Say("FINAL AD PAYLOAD")
	s.console.Say(string(payload))

	s.logger.Info("Session completed",
		zap.String("campaign", record.CampaignName),
		zap.String("objective", string(record.Objective)))
}
