// Package discord builds Discord CDN and profile URLs.
package discord

import (
	"fmt"
	"strings"
)

const (
	CDNBase      = "https://cdn.discordapp.com"
	MediaProxy   = "https://media.discordapp.net/external/"
	externalPref = "mp:external/"
)

// Animated assets carry an "a_" prefix and are served as gif.
func ext(hash string) string {
	if strings.HasPrefix(hash, "a_") {
		return "gif"
	}
	return "png"
}

func AvatarURL(userID, hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s/avatars/%s/%s.%s?size=256", CDNBase, userID, hash, ext(hash))
}

// BannerURL returns fallback when the user has no banner.
func BannerURL(userID, hash, fallback string) string {
	if hash == "" {
		return fallback
	}
	return fmt.Sprintf("%s/banners/%s/%s.%s?size=512", CDNBase, userID, hash, ext(hash))
}

func GuildBadgeURL(guildID, badge string) string {
	if badge == "" || guildID == "" {
		return ""
	}
	return fmt.Sprintf("%s/clan-badges/%s/%s.png?size=64", CDNBase, guildID, badge)
}

// ActivityImageURL resolves a rich presence asset key. External images are
// routed through the media proxy, everything else is an application asset.
func ActivityImageURL(image string) string {
	if image == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(image, externalPref); ok {
		return MediaProxy + rest
	}
	return CDNBase + "/app-assets/" + image
}

func ProfileURL(userID string) string {
	return "https://discord.com/users/" + userID
}
