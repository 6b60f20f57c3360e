package discord

import (
	"github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/bwmarrin/discordgo"
)

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func (o options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (o options) Int(name string) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}
	return 0
}

func (o options) Bool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// interactionAuthor maps the invoking user and channel to a roll author
func interactionAuthor(i *discordgo.InteractionCreate) roll.Author {
	author := roll.Author{CampaignID: i.ChannelID}

	var user *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		user = i.Member.User
		author.Name = i.Member.Nick
	case i.User != nil:
		user = i.User
	}
	if user != nil {
		author.UserID = user.ID
		if author.Name == "" {
			author.Name = user.GlobalName
		}
		if author.Name == "" {
			author.Name = user.Username
		}
	}
	return author
}
