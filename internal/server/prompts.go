package server

import (
	"fmt"
	"strings"

	"github.com/lumenfield/clientintel/internal/intel"
)

const assistantPromptHeader = `You are the sales assistant for a commercial LED lighting supplier. You help facility managers, contractors, engineers, and buyers choose fixtures, retrofit kits, and controls for commercial and industrial projects.

PRODUCT KNOWLEDGE:
- Catalog covers high bays, troffers, wall packs, area lights, vapor tights, and retrofit kits.
- Most fixtures are DLC listed, which qualifies them for utility rebates.
- Common spec questions involve lumens, wattage, CCT (correlated color temperature), CRI, voltage, and dimming.
- Typical selling points: energy savings vs HID/fluorescent, 50,000+ hour lifetimes, 5-10 year warranties, utility rebates, 179D tax deduction.

RULES:
- Stay on commercial lighting topics. Politely redirect anything else.
- Never invent prices or stock levels; offer to prepare a quote instead.
- Ask for project details (square footage, mounting height, fixture count) when sizing matters.
- Keep answers concise enough to read in a chat window.`

const apologyReply = "I'm sorry - I'm having trouble responding right now. Please try again in a moment, or email our sales team and we'll get right back to you."

// buildSystemPrompt folds the strategy, role, and company records into the
// instructions for the primary completion call.
func buildSystemPrompt(role intel.RoleProfile, strategy intel.Strategy, company *intel.CompanyIntelligence, profile *intel.ClientProfile) string {
	var b strings.Builder
	b.WriteString(assistantPromptHeader)

	b.WriteString("\n\nCOMMUNICATION STRATEGY:\n")
	fmt.Fprintf(&b, "- Tone: %s\n", strategy.Tone)
	fmt.Fprintf(&b, "- Approach: %s\n", strategy.Approach)
	if len(strategy.Priorities) > 0 {
		fmt.Fprintf(&b, "- Emphasize, in order: %s\n", strings.Join(strategy.Priorities, ", "))
	}
	if len(strategy.Tactics) > 0 {
		fmt.Fprintf(&b, "- Tactics: %s\n", strings.Join(strategy.Tactics, ", "))
	}

	fmt.Fprintf(&b, "\nBUYER ROLE:\n- Approach: %s\n", role.Approach)
	if len(role.Priorities) > 0 {
		fmt.Fprintf(&b, "- They care about: %s\n", strings.Join(role.Priorities, ", "))
	}
	if len(role.Concerns) > 0 {
		fmt.Fprintf(&b, "- Likely concerns: %s\n", strings.Join(role.Concerns, ", "))
	}

	if company != nil && company.Name != "" {
		fmt.Fprintf(&b, "\nCOMPANY CONTEXT (%s):\n", company.Name)
		if company.Industry != "" && company.Industry != "unknown" {
			fmt.Fprintf(&b, "- Industry: %s\n", company.Industry)
		}
		if company.Size != "" {
			fmt.Fprintf(&b, "- Size: %s\n", company.Size)
		}
		if company.Description != "" {
			fmt.Fprintf(&b, "- About: %s\n", company.Description)
		}
		if len(company.PainPoints) > 0 {
			fmt.Fprintf(&b, "- Likely pain points: %s\n", strings.Join(company.PainPoints, ", "))
		}
	}

	if profile != nil {
		var notes []string
		if profile.Name != "" {
			notes = append(notes, "the visitor's name is "+profile.Name)
		}
		if profile.PriceSensitivity == "high" {
			notes = append(notes, "they are price sensitive; lead with savings and rebates")
		}
		if len(profile.ConcernsRaised) > 0 {
			notes = append(notes, "they have raised concerns earlier in the conversation; acknowledge before selling")
		}
		if len(notes) > 0 {
			fmt.Fprintf(&b, "\nVISITOR NOTES: %s.\n", strings.Join(notes, "; "))
		}
	}

	return b.String()
}

const transcriptMaxTurns = 20

// buildConversationInput renders recent history plus the current message as
// the model input.
func buildConversationInput(history []intel.Message, current string) string {
	start := 0
	if len(history) > transcriptMaxTurns {
		start = len(history) - transcriptMaxTurns
	}
	var b strings.Builder
	for _, m := range history[start:] {
		switch m.Role {
		case "assistant":
			fmt.Fprintf(&b, "Assistant: %s\n", m.Content)
		default:
			fmt.Fprintf(&b, "Customer: %s\n", m.Content)
		}
	}
	fmt.Fprintf(&b, "Customer: %s\nAssistant:", current)
	return b.String()
}
