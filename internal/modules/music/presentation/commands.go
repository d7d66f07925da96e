package presentation

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the music module.
func Commands() []*discordgo.ApplicationCommand {
	var (
		minZero float64 = 0
		minOne  float64 = 1
	)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a track from a URL or search query",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "URL or search term",
					Required:    true,
				},
			},
		},
		{
			Name:        "pause",
			Description: "Pause playback",
		},
		{
			Name:        "resume",
			Description: "Resume paused playback",
		},
		{
			Name:        "skip",
			Description: "Skip the current track",
		},
		{
			Name:        "stop",
			Description: "Stop playback and leave the voice channel",
		},
		{
			Name:        "queue",
			Description: "Show the current queue",
		},
		{
			Name:        "nowplaying",
			Description: "Show the currently playing track",
		},
		{
			Name:        "shuffle",
			Description: "Shuffle the queue",
		},
		{
			Name:        "loop",
			Description: "Set the loop mode",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Loop mode",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "off", Value: "off"},
						{Name: "track", Value: "track"},
						{Name: "queue", Value: "queue"},
					},
				},
			},
		},
		{
			Name:        "remove",
			Description: "Remove a track from the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "position",
					Description: "Queue position to remove (1 = next track)",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "move",
			Description: "Move a track to another queue position",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "from",
					Description: "Current position",
					Required:    true,
					MinValue:    &minOne,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "to",
					Description: "New position",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:        "clearqueue",
			Description: "Remove every pending track from the queue",
		},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume from 0 to 100",
					Required:    true,
					MinValue:    &minZero,
					MaxValue:    100,
				},
			},
		},
		{
			Name:        "247",
			Description: "Toggle 24/7 mode (stay in voice when the queue ends)",
		},
		{
			Name:        "help",
			Description: "Show the command list",
		},
		{
			Name:        "invite",
			Description: "Get the bot invite link",
		},
		{
			Name:        "ping",
			Description: "Check the bot latency",
		},
		{
			Name:        "stats",
			Description: "Show bot statistics",
		},
		{
			Name:        "support",
			Description: "Get the support server link",
		},
	}
}
