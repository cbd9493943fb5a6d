package presence

import (
	"fmt"
	"time"

	"github.com/Krex381/krexdll/internal/discord"
	"github.com/Krex381/krexdll/internal/lanyard"
)

type statusStyle struct {
	label string
	color string
}

var statuses = map[string]statusStyle{
	"online":  {"Online", "#23a55a"},
	"idle":    {"Away", "#f0b232"},
	"dnd":     {"Do Not Disturb", "#f23f43"},
	"offline": {"Offline", "#80848e"},
}

// View is the display model of a presence.
type View struct {
	Status       string         `json:"status"`
	StatusLabel  string         `json:"status_label"`
	StatusColor  string         `json:"status_color"`
	DisplayName  string         `json:"display_name"`
	Username     string         `json:"username"`
	ProfileURL   string         `json:"profile_url"`
	AvatarURL    string         `json:"avatar_url,omitempty"`
	BannerURL    string         `json:"banner_url,omitempty"`
	BannerColor  string         `json:"banner_color,omitempty"`
	Guild        *GuildView     `json:"guild,omitempty"`
	CustomStatus string         `json:"custom_status,omitempty"`
	Platforms    []string       `json:"platforms"`
	Spotify      *SpotifyView   `json:"spotify,omitempty"`
	Activities   []ActivityView `json:"activities"`
	Idle         bool           `json:"idle"`
}

type GuildView struct {
	Tag             string `json:"tag"`
	BadgeURL        string `json:"badge_url,omitempty"`
	IdentityEnabled bool   `json:"identity_enabled"`
}

type SpotifyView struct {
	Song        string `json:"song"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	AlbumArtURL string `json:"album_art_url"`
	TrackURL    string `json:"track_url,omitempty"`
}

type ActivityView struct {
	Name      string `json:"name"`
	Details   string `json:"details,omitempty"`
	State     string `json:"state,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	ImageText string `json:"image_text,omitempty"`
	Elapsed   string `json:"elapsed,omitempty"`
}

// NormalizeStatus maps anything Discord may add later to "offline".
func NormalizeStatus(status string) string {
	if _, ok := statuses[status]; ok {
		return status
	}
	return "offline"
}

// NewView builds the display model. fallbackBanner is used when the user has
// no banner of their own.
func NewView(p lanyard.Presence, fallbackBanner string, now time.Time) View {
	u := p.DiscordUser

	status := NormalizeStatus(p.DiscordStatus)
	style := statuses[status]

	name := u.DisplayName
	if name == "" {
		name = u.GlobalName
	}
	if name == "" {
		name = u.Username
	}

	id := p.OwnerID()
	v := View{
		Status:      status,
		StatusLabel: style.label,
		StatusColor: style.color,
		DisplayName: name,
		Username:    u.Username,
		ProfileURL:  discord.ProfileURL(id),
		AvatarURL:   discord.AvatarURL(id, u.Avatar),
		BannerURL:   discord.BannerURL(id, u.Banner, fallbackBanner),
		BannerColor: u.BannerColor,
		Platforms:   platforms(p),
		Activities:  []ActivityView{},
	}

	if g := u.PrimaryGuild; g != nil && g.Tag != "" {
		v.Guild = &GuildView{
			Tag:             g.Tag,
			BadgeURL:        discord.GuildBadgeURL(g.IdentityGuildID, g.Badge),
			IdentityEnabled: g.IdentityEnabled,
		}
	}

	for _, a := range p.Activities {
		if a.Type == lanyard.ActivityCustom && a.State != "" && v.CustomStatus == "" {
			v.CustomStatus = a.State
		}
		if a.Type == lanyard.ActivityListening || a.Type == lanyard.ActivityCustom {
			continue
		}
		v.Activities = append(v.Activities, activityView(a, now))
	}

	if p.ListeningToSpotify && p.Spotify != nil {
		v.Spotify = &SpotifyView{
			Song:        p.Spotify.Song,
			Artist:      p.Spotify.Artist,
			Album:       p.Spotify.Album,
			AlbumArtURL: p.Spotify.AlbumArtURL,
		}
		if p.Spotify.TrackID != "" {
			v.Spotify.TrackURL = "https://open.spotify.com/track/" + p.Spotify.TrackID
		}
	}

	v.Idle = len(p.Activities) == 0 && !p.ListeningToSpotify
	return v
}

func activityView(a lanyard.Activity, now time.Time) ActivityView {
	av := ActivityView{
		Name:    a.Name,
		Details: a.Details,
		State:   a.State,
	}
	if a.Assets != nil && a.Assets.LargeImage != "" {
		av.ImageURL = discord.ActivityImageURL(a.Assets.LargeImage)
		av.ImageText = a.Assets.LargeText
		if av.ImageText == "" {
			av.ImageText = a.Name
		}
	}
	if a.Timestamps != nil && a.Timestamps.Start > 0 {
		av.Elapsed = FormatElapsed(a.Timestamps.Start, now)
	}
	return av
}

func platforms(p lanyard.Presence) []string {
	out := []string{}
	if p.ActiveOnDiscordDesktop {
		out = append(out, "desktop")
	}
	if p.ActiveOnDiscordWeb {
		out = append(out, "web")
	}
	if p.ActiveOnDiscordMobile {
		out = append(out, "mobile")
	}
	if p.ActiveOnDiscordEmbedded {
		out = append(out, "embedded")
	}
	return out
}

// FormatElapsed renders the time since startMillis as "3h 12m" or "12m".
// Starts in the future render as "0m".
func FormatElapsed(startMillis int64, now time.Time) string {
	elapsed := now.Sub(time.UnixMilli(startMillis))
	if elapsed < 0 {
		elapsed = 0
	}
	minutes := int64(elapsed / time.Minute)
	hours := minutes / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}
