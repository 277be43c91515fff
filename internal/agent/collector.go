package agent

import (
	"fmt"
	"strings"

	"adpilot/internal/types"
)

// maxFieldAttempts bounds how often a single field is re-prompted before the
// session gives up on it.
const maxFieldAttempts = 5

// Collector interactively obtains and validates the required ad fields.
type Collector struct {
	console Console
}

// NewCollector creates a Collector speaking through console.
func NewCollector(console Console) *Collector {
	return &Collector{console: console}
}

// promptUntil asks for a value until validate accepts it, re-prompting with
// errMsg on each rejection. Fails after maxFieldAttempts rejected inputs.
func (c *Collector) promptUntil(prompt string, validate func(string) bool, errMsg string) (string, error) {
	for attempt := 0; attempt < maxFieldAttempts; attempt++ {
		val := c.console.Ask(prompt)
		if validate(val) {
			return val, nil
		}
		c.console.Say(errMsg)
	}
	return "", fmt.Errorf("failed to get valid input for %q", prompt)
}

// CampaignName collects the campaign name (min 3 chars after trim).
func (c *Collector) CampaignName() (string, error) {
	return c.promptUntil(
		"Campaign name (min 3 chars)",
		func(v string) bool { return len(strings.TrimSpace(v)) >= types.MinCampaignNameLen },
		"Campaign name must be at least 3 characters.",
	)
}

// Objective collects and normalizes the campaign objective.
func (c *Collector) Objective() (types.Objective, error) {
	raw, err := c.promptUntil(
		"Objective (Traffic / Conversions)",
		func(v string) bool { _, ok := types.ParseObjective(v); return ok },
		"Objective must be 'Traffic' or 'Conversions' (case-insensitive).",
	)
	if err != nil {
		return types.ObjectiveNone, err
	}
	obj, _ := types.ParseObjective(raw)
	return obj, nil
}

// AdText collects the creative text (non-empty, max 100 chars).
func (c *Collector) AdText() (string, error) {
	return c.promptUntil(
		"Ad text (max 100 chars)",
		func(v string) bool { return v != "" && len(v) <= types.MaxAdTextLen },
		"Ad text is required and must be 100 characters or fewer.",
	)
}

// CTA collects the call-to-action text (non-empty after trim).
func (c *Collector) CTA() (string, error) {
	return c.promptUntil(
		"CTA",
		func(v string) bool { return strings.TrimSpace(v) != "" },
		"CTA is required. Provide a short CTA text.",
	)
}

// Fill collects all four required fields into record, in order.
func (c *Collector) Fill(record *types.AdRecord) error {
	name, err := c.CampaignName()
	if err != nil {
		return err
	}
	record.CampaignName = name

	obj, err := c.Objective()
	if err != nil {
		return err
	}
	record.Objective = obj

	text, err := c.AdText()
	if err != nil {
		return err
	}
	record.Creative.Text = text

	cta, err := c.CTA()
	if err != nil {
		return err
	}
	record.Creative.CTA = cta

	return nil
}
