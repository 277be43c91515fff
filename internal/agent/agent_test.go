package agent

import (
	"fmt"
	"strings"
	"testing"

	"adpilot/internal/types"
)

// scriptConsole replays a fixed list of user answers and records everything
// the agent said. Running out of answers fails the test: every prompt in a
// scenario must be accounted for.
type scriptConsole struct {
	t       *testing.T
	answers []string
	next    int
	said    []string
	asked   []string
}

func newScriptConsole(t *testing.T, answers ...string) *scriptConsole {
	return &scriptConsole{t: t, answers: answers}
}

func (c *scriptConsole) Say(msg string) {
	c.said = append(c.said, msg)
}

func (c *scriptConsole) Ask(prompt string) string {
	c.asked = append(c.asked, prompt)
	if c.next >= len(c.answers) {
		c.t.Fatalf("unexpected prompt %q after the script was exhausted (asked: %v)", prompt, c.asked)
	}
	answer := c.answers[c.next]
	c.next++
	return answer
}

func (c *scriptConsole) saidContaining(substr string) bool {
	for _, msg := range c.said {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// loopConsole answers every prompt identically. Used to drive dialogues into
// their transition bounds.
type loopConsole struct {
	answer string
	asks   int
	said   []string
}

func (c *loopConsole) Say(msg string) { c.said = append(c.said, msg) }

func (c *loopConsole) Ask(prompt string) string {
	c.asks++
	return c.answer
}

// fakeMusic mimics the platform music rules without the real client. With
// brokenUploads set the uploader produces ids its validator rejects, which
// the real platform never does; tests use it to reach the failure menus.
type fakeMusic struct {
	uploads       int
	brokenUploads bool
}

func (f *fakeMusic) ValidateMusicID(id string) (bool, *types.Error) {
	if id == "" {
		return false, types.NewError(types.CodeMissingMusicID, "Music ID missing", "Provide one", true)
	}
	if !strings.HasPrefix(id, "music_") {
		return false, types.NewError(types.CodeInvalidMusicID, "Music ID not found", "Check it", true)
	}
	return true, nil
}

func (f *fakeMusic) UploadMusic() string {
	f.uploads++
	if f.brokenUploads {
		return fmt.Sprintf("rejected_%d", f.uploads)
	}
	return fmt.Sprintf("music_up_%d", f.uploads)
}

// fakePlatform returns a scripted error (or success on nil) per Submit call.
type fakePlatform struct {
	fakeMusic
	errs   []*types.Error
	calls  int
	tokens []string
}

func (f *fakePlatform) Submit(record *types.AdRecord, token string) (bool, *types.Error) {
	f.tokens = append(f.tokens, token)
	var err *types.Error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	if err != nil {
		return false, err
	}
	return true, nil
}

// fakeTokens issues sequentially numbered tokens and accepts them all.
type fakeTokens struct {
	issued int
}

func (f *fakeTokens) Issue(userName string) (string, *types.Error) {
	f.issued++
	return fmt.Sprintf("tok_%d_%s", f.issued, userName), nil
}

func (f *fakeTokens) Validate(token string) (bool, *types.Error) {
	return true, nil
}
