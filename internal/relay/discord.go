package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/bwmarrin/discordgo"
)

// maxDiscordContent is Discord's message length limit
const maxDiscordContent = 2000

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type discordWebhook struct {
	session   webhookExecutor
	webhookID string
	token     string
}

// DiscordWebhookConfig configures a relay that posts through a Discord webhook
type DiscordWebhookConfig struct {
	// URL is the webhook URL as copied from Discord
	URL string
	// Session is optional; webhooks need no bot token so an anonymous
	// session is created when nil
	Session *discordgo.Session
}

// NewDiscordWebhook creates a relay for one Discord webhook
func NewDiscordWebhook(cfg *DiscordWebhookConfig) (Relay, error) {
	if cfg == nil {
		return nil, vtterr.InvalidArgument("discord webhook config cannot be nil")
	}

	webhookID, token, err := ParseWebhookURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	session := cfg.Session
	if session == nil {
		session, err = discordgo.New("")
		if err != nil {
			return nil, fmt.Errorf("failed to create discord session: %w", err)
		}
	}

	return newDiscordWebhook(session, webhookID, token), nil
}

func newDiscordWebhook(session webhookExecutor, webhookID, token string) *discordWebhook {
	return &discordWebhook{
		session:   session,
		webhookID: webhookID,
		token:     token,
	}
}

// Post sends the content through the webhook, truncated to Discord's limit
func (d *discordWebhook) Post(ctx context.Context, post *Post) error {
	if post == nil {
		return vtterr.InvalidArgument("post cannot be nil")
	}
	if strings.TrimSpace(post.Content) == "" {
		return vtterr.InvalidArgument("post content is required")
	}

	params := &discordgo.WebhookParams{
		Content:  truncate(post.Content, maxDiscordContent),
		Username: post.Username,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}

	_, err := d.session.WebhookExecute(d.webhookID, d.token, false, params, discordgo.WithContext(ctx))
	if err != nil {
		return vtterr.WrapWithCode(err, vtterr.CodeUnavailable, "failed to execute webhook").
			WithMeta("webhook_id", d.webhookID)
	}
	return nil
}

// ParseWebhookURL extracts the webhook ID and token from a URL of the form
// https://discord.com/api/webhooks/<id>/<token>
func ParseWebhookURL(raw string) (webhookID, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", "", vtterr.InvalidArgumentf("invalid webhook URL %q", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", vtterr.InvalidArgumentf("webhook URL %q has no webhook ID and token", raw)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
