// Package content holds the static portfolio sections and the navigation
// over them.
package content

import (
	"github.com/Krex381/krexdll/internal/discord"
)

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon"`
}

type SkillCategory struct {
	Name  string  `json:"category"`
	Items []Skill `json:"items"`
}

type EducationEntry struct {
	Degree      string   `json:"degree"`
	School      string   `json:"school"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Courses     []string `json:"courses"`
	Icon        string   `json:"icon"`
}

type ContactMethod struct {
	Platform    string `json:"platform"`
	Handle      string `json:"handle"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type Profile struct {
	Name        string   `json:"name"`
	Handle      string   `json:"handle"`
	Tagline     string   `json:"tagline"`
	About       string   `json:"about"`
	Skills      []string `json:"skills"`
	GitHubURL   string   `json:"github_url"`
	PublicRepos int      `json:"public_repos"`
}

// Site is everything the page shows apart from live presence.
type Site struct {
	Profile   Profile
	Skills    []SkillCategory
	Education []EducationEntry
	Contact   []ContactMethod
}

// Default returns the site for the given Discord user and GitHub handle.
func Default(discordUserID, githubHandle string) Site {
	return Site{
		Profile: Profile{
			Name:      "Krex38",
			Handle:    "krex.dll",
			Tagline:   Tagline,
			About:     AboutMe,
			Skills:    PreviewSkills,
			GitHubURL: "https://github.com/" + githubHandle,
		},
		Skills:    Skills,
		Education: Education,
		Contact: []ContactMethod{
			{
				Platform:    "Discord",
				Handle:      "krex_dll",
				Link:        discord.ProfileURL(discordUserID),
				Description: "Gaming and chat",
			},
			{
				Platform:    "Instagram",
				Handle:      "@werzy381",
				Link:        "https://instagram.com/werzy381",
				Description: "Projects and daily posts",
			},
			{
				Platform:    "E-mail",
				Handle:      "krexdll@proton.me",
				Link:        "mailto:krexdll@proton.me",
				Description: "Business offers and official matters",
			},
		},
	}
}
