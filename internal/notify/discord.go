package notify

import (
	"fmt"
	"strings"

	"solana-keyword-sniper/internal/domain"
)

// Discord webhook payload shapes. Only the fields we emit.
type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

const embedColorGreen = 0x2ecc71

// platformLabel returns the human-facing platform tag for an embed. Each
// platform gets its own emoji so matches are tellable apart at a glance.
func platformLabel(p domain.Platform) string {
	switch p {
	case domain.PlatformPumpFun:
		return "💊 Pump.fun"
	case domain.PlatformLetsBonk:
		return "🔥 LetsBonk"
	default:
		return "❔ Other"
	}
}

// tradeLink returns the platform's own trade page for the mint.
func tradeLink(p domain.Platform, address string) string {
	switch p {
	case domain.PlatformLetsBonk:
		return "https://letsbonk.fun/token/" + address
	default:
		return "https://pump.fun/coin/" + address
	}
}

// buildPayload renders a keyword match as a Discord webhook message. The
// content line mentions the keyword owner so the ping lands on the user
// who added the keyword, never a system identity.
func buildPayload(m domain.Match) discordPayload {
	event := m.Event
	links := strings.Join([]string{
		fmt.Sprintf("[Trade](%s)", tradeLink(event.Platform, event.Address)),
		fmt.Sprintf("[DexScreener](https://dexscreener.com/solana/%s)", event.Address),
		fmt.Sprintf("[Solscan](https://solscan.io/token/%s)", event.Address),
	}, " | ")

	return discordPayload{
		Content: fmt.Sprintf("🎯 Keyword match: **%s** <@%s>", m.Keyword.Text, m.Keyword.OwnerID),
		Embeds: []discordEmbed{{
			Title: event.DisplayName(),
			Color: embedColorGreen,
			Fields: []discordField{
				{Name: "Platform", Value: platformLabel(event.Platform), Inline: true},
				{Name: "Keyword", Value: m.Keyword.Text, Inline: true},
				{Name: "Address", Value: "`" + event.Address + "`"},
				{Name: "Links", Value: links},
			},
		}},
	}
}
