package pagination

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
)

// Footer selects what the paginator writes into each page footer.
type Footer int

const (
	FooterNone       Footer = 0
	FooterPageNumber Footer = 1 << 0
	FooterUsers      Footer = 1 << 1
)

// Has reports whether every bit of flag is set.
func (f Footer) Has(flag Footer) bool {
	return f&flag == flag
}

// BuildFooter renders the footer of the page at index for a paginator
// whose last page is maxIndex. It returns nil for FooterNone.
func BuildFooter(footer Footer, index, maxIndex int, users []discord.User) *discord.EmbedFooter {
	if footer == FooterNone {
		return nil
	}

	var (
		lines []string
		icon  string
	)

	if footer.Has(FooterUsers) {
		switch len(users) {
		case 0:
			lines = append(lines, "Interactors : Everyone")
		case 1:
			icon = users[0].EffectiveAvatarURL()
			lines = append(lines, "Interactors : "+users[0].Username)
		default:
			names := make([]string, len(users))
			for i, user := range users {
				names[i] = user.Username
			}
			lines = append(lines, "Interactors : "+strings.Join(names, ", "))
		}
	}

	if footer.Has(FooterPageNumber) {
		lines = append(lines, fmt.Sprintf("Page %d/%d", index+1, maxIndex+1))
	}

	return &discord.EmbedFooter{
		Text:    strings.Join(lines, "\n"),
		IconURL: icon,
	}
}
