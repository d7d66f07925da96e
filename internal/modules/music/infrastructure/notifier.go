package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// DiscordNotifier sends notifications to Discord channels as embeds.
type DiscordNotifier struct {
	session    *discordgo.Session
	httpClient *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{
		session: session,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Send delivers a plain notification embed.
func (n *DiscordNotifier) Send(channelID snowflake.ID, notification domain.Notification) error {
	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), buildEmbed(notification))
	return err
}

// SendNowPlaying delivers the now-playing embed with playback control
// buttons and returns a reference to the sent message.
func (n *DiscordNotifier) SendNowPlaying(
	channelID snowflake.ID,
	track *domain.Track,
	paused bool,
) (*domain.MessageRef, error) {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title: track.Title,
		URL:   track.URI,
		Color: 0x1DB954,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  track.Artist,
				Inline: true,
			},
			{
				Name:   "Duration",
				Value:  track.FormattedDuration(),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Requested by %s", track.Requester.Name),
			IconURL: track.Requester.AvatarURL,
		},
	}

	if thumbnailURL := n.bestThumbnail(track); thumbnailURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: thumbnailURL}
	}

	msg, err := n.session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: controlButtons(paused),
	})
	if err != nil {
		return nil, err
	}

	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return nil, err
	}
	return &domain.MessageRef{ChannelID: channelID, MessageID: messageID}, nil
}

// DisableControls strips the control buttons from a previously sent
// now-playing message.
func (n *DiscordNotifier) DisableControls(ref domain.MessageRef) error {
	edit := discordgo.NewMessageEdit(ref.ChannelID.String(), ref.MessageID.String())
	edit.Components = &[]discordgo.MessageComponent{}
	_, err := n.session.ChannelMessageEditComplex(edit)
	return err
}

func buildEmbed(notification domain.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       notification.Title,
		Description: notification.Description,
		Color:       notification.Color,
	}
	if notification.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: notification.ThumbnailURL}
	}
	for _, field := range notification.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	if notification.FooterText != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    notification.FooterText,
			IconURL: notification.FooterIcon,
		}
	}
	return embed
}

func controlButtons(paused bool) []discordgo.MessageComponent {
	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    pauseLabel,
					Style:    discordgo.PrimaryButton,
					CustomID: domain.ControlPause,
				},
				discordgo.Button{
					Label:    "Skip",
					Style:    discordgo.SecondaryButton,
					CustomID: domain.ControlSkip,
				},
				discordgo.Button{
					Label:    "Stop",
					Style:    discordgo.DangerButton,
					CustomID: domain.ControlStop,
				},
				discordgo.Button{
					Label:    "Loop",
					Style:    discordgo.SecondaryButton,
					CustomID: domain.ControlLoop,
				},
				discordgo.Button{
					Label:    "Queue",
					Style:    discordgo.SecondaryButton,
					CustomID: domain.ControlQueue,
				},
			},
		},
	}
}

// bestThumbnail tries to upgrade YouTube artwork to the highest quality
// variant actually available; other sources keep their artwork as-is.
func (n *DiscordNotifier) bestThumbnail(track *domain.Track) string {
	if track.SourceName != "youtube" || track.ArtworkURL == "" {
		return track.ArtworkURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, quality := range []string{"maxresdefault", "sddefault"} {
		url := replaceThumbnailQuality(track.ArtworkURL, quality)
		if url != track.ArtworkURL && n.urlExists(ctx, url) {
			return url
		}
	}
	return track.ArtworkURL
}

func replaceThumbnailQuality(artworkURL, quality string) string {
	for _, current := range []string{"hqdefault", "mqdefault", "default"} {
		if strings.Contains(artworkURL, current+".jpg") {
			return strings.Replace(artworkURL, current+".jpg", quality+".jpg", 1)
		}
	}
	return artworkURL
}

// urlExists checks if a URL responds successfully to a HEAD request.
func (n *DiscordNotifier) urlExists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Ensure DiscordNotifier implements the notifier contract.
var _ domain.Notifier = (*DiscordNotifier)(nil)
