package content

import "strings"

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

var sections = []Section{
	{ID: "hero", Title: "Home"},
	{ID: "about", Title: "About Me"},
	{ID: "skills", Title: "Capabilities"},
	{ID: "education", Title: "Education"},
	{ID: "discord", Title: "Discord"},
	{ID: "contact", Title: "Contact"},
}

func init() {
	for i := range sections {
		sections[i].Index = i
	}
}

func Sections() []Section {
	return append([]Section(nil), sections...)
}

// SectionAt clamps i to the section list. Page navigation stops at the
// first and last section instead of wrapping.
func SectionAt(i int) Section {
	return sections[max(0, min(i, len(sections)-1))]
}

// Next and Prev step through the sections, staying put at either end.
func Next(current int) Section { return SectionAt(current + 1) }
func Prev(current int) Section { return SectionAt(current - 1) }

func SectionByID(id string) (Section, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Rotate advances a carousel of n items by one and wraps at the end.
// n <= 0 yields 0.
func Rotate(current, n int) int {
	if n <= 0 {
		return 0
	}
	return ((current+1)%n + n) % n
}
