package presentation

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/unknownzop/musicbot/internal/modules/music/application"
	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// Embed colors.
const (
	colorSuccess = 0x1DB954
	colorError   = 0xE74C3C
	colorInfo    = 0x3498DB
)

// queuePageSize is the number of pending tracks shown in the queue
// embed.
const queuePageSize = 10

func playReplyNotification(out *application.PlayOutput) domain.Notification {
	if out.LoadType == domain.LoadTypePlaylist {
		return domain.Notification{
			Title:       "Playlist Added",
			Description: fmt.Sprintf("Added **%d** tracks from **%s** to the queue.", len(out.Tracks), out.PlaylistName),
			Color:       colorSuccess,
		}
	}

	track := out.Tracks[0]
	if out.Started {
		return domain.Notification{
			Description: fmt.Sprintf("Playing **%s** now.", track.Title),
			Color:       colorSuccess,
		}
	}
	return domain.Notification{
		Title:        "Added to Queue",
		Description:  fmt.Sprintf("**%s** by %s (%s)", track.Title, track.Artist, track.FormattedDuration()),
		Color:        colorSuccess,
		ThumbnailURL: track.ArtworkURL,
		Fields: []domain.NotificationField{
			{Name: "Position", Value: fmt.Sprintf("%d", out.Position), Inline: true},
		},
	}
}

func queueNotification(snap *domain.Snapshot) domain.Notification {
	var b strings.Builder

	if snap.Current != nil {
		fmt.Fprintf(&b, "**Now playing:** %s (%s)\n\n", snap.Current.Title, snap.Current.FormattedDuration())
	}

	if len(snap.Pending) == 0 {
		b.WriteString("The queue is empty.")
	} else {
		shown := snap.Pending
		if len(shown) > queuePageSize {
			shown = shown[:queuePageSize]
		}
		for i, track := range shown {
			fmt.Fprintf(&b, "`%d.` %s (%s) requested by %s\n", i+1, track.Title, track.FormattedDuration(), track.Requester.Name)
		}
		if remaining := len(snap.Pending) - len(shown); remaining > 0 {
			fmt.Fprintf(&b, "\n…and %d more track(s).", remaining)
		}
	}

	return domain.Notification{
		Title:       "Queue",
		Description: b.String(),
		Color:       colorInfo,
		FooterText: fmt.Sprintf("Loop: %s | Volume: %d%% | 24/7: %s",
			snap.LoopMode, snap.Volume, onOff(snap.AlwaysOn)),
	}
}

func nowPlayingNotification(snap *domain.Snapshot) domain.Notification {
	track := snap.Current
	return domain.Notification{
		Title:        "Now Playing",
		Description:  fmt.Sprintf("**%s** by %s", track.Title, track.Artist),
		Color:        colorSuccess,
		ThumbnailURL: track.ArtworkURL,
		Fields: []domain.NotificationField{
			{Name: "Duration", Value: track.FormattedDuration(), Inline: true},
			{Name: "Loop", Value: snap.LoopMode.String(), Inline: true},
			{Name: "Volume", Value: fmt.Sprintf("%d%%", snap.Volume), Inline: true},
		},
		FooterText: fmt.Sprintf("Requested by %s", track.Requester.Name),
		FooterIcon: track.Requester.AvatarURL,
	}
}

func helpNotification(prefix string) domain.Notification {
	return domain.Notification{
		Title: "Help",
		Description: fmt.Sprintf(
			"Use slash commands or the `%s` prefix. Aliases: `np`, `vol`, `clear`.", prefix),
		Color: colorInfo,
		Fields: []domain.NotificationField{
			{
				Name:  "Playback",
				Value: "`play <query>` `pause` `resume` `skip` `stop` `volume <0-100>` `loop <off|track|queue>` `247`",
			},
			{
				Name:  "Queue",
				Value: "`queue` `nowplaying` `shuffle` `remove <pos>` `move <from> <to>` `clearqueue`",
			},
			{
				Name:  "Misc",
				Value: "`help` `invite` `ping` `stats` `support`",
			},
		},
	}
}

func inviteNotification(links Links) domain.Notification {
	return domain.Notification{
		Title:       "Invite",
		Description: fmt.Sprintf("[Add me to your server](%s)", links.Invite),
		Color:       colorInfo,
	}
}

func supportNotification(links Links) domain.Notification {
	description := fmt.Sprintf("[Join the support server](%s)", links.Support)
	if links.GitHub != "" {
		description += fmt.Sprintf("\n[Source code](%s)", links.GitHub)
	}
	return domain.Notification{
		Title:       "Support",
		Description: description,
		Color:       colorInfo,
	}
}

func pingNotification(latency time.Duration) domain.Notification {
	rating := "Excellent"
	switch {
	case latency > 500*time.Millisecond:
		rating = "Poor"
	case latency > 200*time.Millisecond:
		rating = "Fair"
	case latency > 100*time.Millisecond:
		rating = "Good"
	}

	return domain.Notification{
		Title:       "Pong!",
		Description: fmt.Sprintf("Gateway latency: **%dms** (%s)", latency.Milliseconds(), rating),
		Color:       colorInfo,
	}
}

func statsNotification(registry domain.SessionRegistry, uptime time.Duration) domain.Notification {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	playing := 0
	for _, session := range registry.All() {
		if session.State() == domain.StatePlaying {
			playing++
		}
	}

	return domain.Notification{
		Title: "Stats",
		Color: colorInfo,
		Fields: []domain.NotificationField{
			{Name: "Uptime", Value: formatUptime(uptime), Inline: true},
			{Name: "Sessions", Value: fmt.Sprintf("%d (%d playing)", registry.Count(), playing), Inline: true},
			{Name: "Memory", Value: humanize.IBytes(mem.Alloc), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Go", Value: runtime.Version(), Inline: true},
		},
	}
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, int(d.Seconds())%60)
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
