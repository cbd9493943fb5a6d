package lanyard

// Discord activity types.
const (
	ActivityPlaying   = 0
	ActivityStreaming = 1
	ActivityListening = 2
	ActivityWatching  = 3
	ActivityCustom    = 4
	ActivityCompeting = 5
)

// Presence is the payload Lanyard sends for one user.
type Presence struct {
	UserID                  string            `json:"user_id,omitempty"`
	DiscordUser             DiscordUser       `json:"discord_user"`
	Activities              []Activity        `json:"activities"`
	DiscordStatus           string            `json:"discord_status"`
	ActiveOnDiscordWeb      bool              `json:"active_on_discord_web"`
	ActiveOnDiscordDesktop  bool              `json:"active_on_discord_desktop"`
	ActiveOnDiscordMobile   bool              `json:"active_on_discord_mobile"`
	ActiveOnDiscordEmbedded bool              `json:"active_on_discord_embedded"`
	ListeningToSpotify      bool              `json:"listening_to_spotify"`
	Spotify                 *Spotify          `json:"spotify"`
	KV                      map[string]string `json:"kv,omitempty"`
}

// OwnerID is the id of the user the presence belongs to.
func (p Presence) OwnerID() string {
	if p.DiscordUser.ID != "" {
		return p.DiscordUser.ID
	}
	return p.UserID
}

type DiscordUser struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Avatar        string        `json:"avatar"`
	Banner        string        `json:"banner,omitempty"`
	BannerColor   string        `json:"banner_color,omitempty"`
	Discriminator string        `json:"discriminator"`
	GlobalName    string        `json:"global_name"`
	DisplayName   string        `json:"display_name"`
	PublicFlags   int           `json:"public_flags"`
	Bot           bool          `json:"bot"`
	PrimaryGuild  *PrimaryGuild `json:"primary_guild,omitempty"`
}

type PrimaryGuild struct {
	Tag             string `json:"tag"`
	IdentityGuildID string `json:"identity_guild_id"`
	Badge           string `json:"badge"`
	IdentityEnabled bool   `json:"identity_enabled"`
}

type Activity struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          int         `json:"type"`
	State         string      `json:"state,omitempty"`
	Details       string      `json:"details,omitempty"`
	Timestamps    *Timestamps `json:"timestamps,omitempty"`
	Assets        *Assets     `json:"assets,omitempty"`
	ApplicationID string      `json:"application_id,omitempty"`
	Buttons       []string    `json:"buttons,omitempty"`
	Platform      string      `json:"platform,omitempty"`
	Flags         int         `json:"flags"`
}

// Timestamps are unix milliseconds.
type Timestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

type Assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type Spotify struct {
	TrackID     string     `json:"track_id"`
	Timestamps  Timestamps `json:"timestamps"`
	Song        string     `json:"song"`
	Artist      string     `json:"artist"`
	AlbumArtURL string     `json:"album_art_url"`
	Album       string     `json:"album"`
}
