package pagination

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
)

const (
	// DefaultColor is the embed colour of pages that do not set one.
	DefaultColor = 0x2ECC71

	// MaxFields is the number of fields Discord accepts in one embed.
	MaxFields = 25
)

// ErrTooManyFields is returned when a page holds more than MaxFields fields.
var ErrTooManyFields = errors.New("page has too many fields")

// Page is a rendered paginator page.
type Page struct {
	Text  string         `json:"text,omitempty"`
	Embed *discord.Embed `json:"embed,omitempty"`
}

// MessageCreate returns the message sending the page.
func (p Page) MessageCreate() discord.MessageCreate {
	b := discord.NewMessageCreateBuilder().SetContent(p.Text)
	if p.Embed != nil {
		b.SetEmbeds(*p.Embed)
	}
	return b.Build()
}

// MessageUpdate returns the edit replacing a message with the page.
func (p Page) MessageUpdate() discord.MessageUpdate {
	b := discord.NewMessageUpdateBuilder().SetContent(p.Text)
	if p.Embed != nil {
		b.SetEmbeds(*p.Embed)
	} else {
		b.ClearEmbeds()
	}
	return b.Build()
}

// PageBuilder assembles a page. Empty fields fall back to the defaults of
// the paginator builder it is added to.
type PageBuilder struct {
	Text         string
	Title        string
	Description  string
	ThumbnailURL string
	ImageURL     string
	Color        int
	Fields       []discord.EmbedField
}

// NewPageBuilder creates an empty page.
func NewPageBuilder() *PageBuilder {
	return &PageBuilder{}
}

// PageFromEmbed creates a page builder holding the content of embed.
func PageFromEmbed(embed discord.Embed) *PageBuilder {
	b := &PageBuilder{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Fields:      append([]discord.EmbedField(nil), embed.Fields...),
	}
	if embed.Thumbnail != nil {
		b.ThumbnailURL = embed.Thumbnail.URL
	}
	if embed.Image != nil {
		b.ImageURL = embed.Image.URL
	}
	return b
}

// WithText sets the message content shown above the embed.
func (b *PageBuilder) WithText(text string) *PageBuilder {
	b.Text = text
	return b
}

// WithTitle sets the embed title.
func (b *PageBuilder) WithTitle(title string) *PageBuilder {
	b.Title = title
	return b
}

// WithDescription sets the embed description.
func (b *PageBuilder) WithDescription(description string) *PageBuilder {
	b.Description = description
	return b
}

// WithThumbnailURL sets the embed thumbnail.
func (b *PageBuilder) WithThumbnailURL(url string) *PageBuilder {
	b.ThumbnailURL = url
	return b
}

// WithImageURL sets the embed image.
func (b *PageBuilder) WithImageURL(url string) *PageBuilder {
	b.ImageURL = url
	return b
}

// WithColor sets the embed color.
func (b *PageBuilder) WithColor(color int) *PageBuilder {
	b.Color = color
	return b
}

// AddField appends an embed field.
func (b *PageBuilder) AddField(name, value string, inline bool) *PageBuilder {
	b.Fields = append(b.Fields, discord.EmbedField{Name: name, Value: value, Inline: &inline})
	return b
}

// withDefaults returns a copy where every empty value is taken from defaults.
func (b *PageBuilder) withDefaults(defaults *PageBuilder) *PageBuilder {
	merged := *b
	if defaults == nil {
		return &merged
	}

	if merged.Text == "" {
		merged.Text = defaults.Text
	}
	if merged.Title == "" {
		merged.Title = defaults.Title
	}
	if merged.Description == "" {
		merged.Description = defaults.Description
	}
	if merged.ThumbnailURL == "" {
		merged.ThumbnailURL = defaults.ThumbnailURL
	}
	if merged.ImageURL == "" {
		merged.ImageURL = defaults.ImageURL
	}
	if merged.Color == 0 {
		merged.Color = defaults.Color
	}
	if len(merged.Fields) == 0 {
		merged.Fields = defaults.Fields
	}
	return &merged
}

// Build renders the page with the given footer.
func (b *PageBuilder) Build(footer *discord.EmbedFooter) (Page, error) {
	if len(b.Fields) > MaxFields {
		return Page{}, fmt.Errorf("%w: %d > %d", ErrTooManyFields, len(b.Fields), MaxFields)
	}

	color := b.Color
	if color == 0 {
		color = DefaultColor
	}

	eb := discord.NewEmbedBuilder().
		SetTitle(b.Title).
		SetDescription(b.Description).
		SetColor(color)
	if b.ThumbnailURL != "" {
		eb.SetThumbnail(b.ThumbnailURL)
	}
	if b.ImageURL != "" {
		eb.SetImage(b.ImageURL)
	}

	embed := eb.Build()
	embed.Fields = append([]discord.EmbedField(nil), b.Fields...)
	embed.Footer = footer

	return Page{Text: b.Text, Embed: &embed}, nil
}
