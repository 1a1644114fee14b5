package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/interactivity/pkg/interactivity/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNoPageFactory is returned when building a lazy paginator without a
// page factory.
var ErrNoPageFactory = errors.New("lazy paginator needs a page factory")

// PageFactory loads the page at index.
type PageFactory func(ctx context.Context, index int) (*PageBuilder, error)

// LazyPaginator loads its pages on demand and caches them.
type LazyPaginator struct {
	*Base
	builder Builder
	factory PageFactory
	cache   PageCache
	group   singleflight.Group
	logger  *zap.Logger
}

var _ Paginator = (*LazyPaginator)(nil)

// Page implements Paginator. Concurrent loads of the same page share a
// single factory call.
func (p *LazyPaginator) Page(ctx context.Context, index int) (Page, error) {
	if index < 0 || index > p.MaxPageIndex() {
		return Page{}, fmt.Errorf("page %d out of range [0, %d]", index, p.MaxPageIndex())
	}

	page, ok, err := p.cache.Get(ctx, index)
	if err != nil {
		p.logger.Warn("Failed to read page from cache", zap.Int("index", index), zap.Error(err))
	} else if ok {
		return page, nil
	}

	v, err, _ := p.group.Do(strconv.Itoa(index), func() (any, error) {
		pb, err := p.factory(ctx, index)
		if err != nil {
			return Page{}, fmt.Errorf("failed to load page %d: %w", index, err)
		}
		if pb == nil {
			pb = NewPageBuilder()
		}

		page, err := pb.withDefaults(p.builder.Defaults).Build(p.builder.footer(index, p.MaxPageIndex()))
		if err != nil {
			return Page{}, fmt.Errorf("failed to build page %d: %w", index, err)
		}

		if err := p.cache.Set(ctx, index, page); err != nil {
			p.logger.Warn("Failed to store page in cache", zap.Int("index", index), zap.Error(err))
		}
		return page, nil
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

// LazyBuilder builds a LazyPaginator.
type LazyBuilder struct {
	Builder
	MaxPageIndex int
	Factory      PageFactory
	Cache        PageCache
	Logger       *zap.Logger
}

// NewLazyBuilder creates a builder with the default embeds and footer and
// an in-memory page cache.
func NewLazyBuilder() *LazyBuilder {
	return &LazyBuilder{Builder: newBuilder()}
}

// WithUsers restricts navigation to users. Everyone may navigate when none is set.
func (b *LazyBuilder) WithUsers(users ...discord.User) *LazyBuilder {
	b.Users = users
	return b
}

// WithEmotes replaces the default emotes.
func (b *LazyBuilder) WithEmotes(emotes ...Emote) *LazyBuilder {
	b.Emotes = emotes
	return b
}

// AddEmote binds an additional emoji to an action.
func (b *LazyBuilder) AddEmote(emoji types.Emoji, action Action) *LazyBuilder {
	b.Emotes = append(b.Emotes, Emote{Emoji: emoji, Action: action})
	return b
}

// WithCancelledEmbed sets the embed shown after exiting.
func (b *LazyBuilder) WithCancelledEmbed(embed *discord.Embed) *LazyBuilder {
	b.CancelledEmbed = embed
	return b
}

// WithTimedOutEmbed sets the embed shown after the timeout.
func (b *LazyBuilder) WithTimedOutEmbed(embed *discord.Embed) *LazyBuilder {
	b.TimedOutEmbed = embed
	return b
}

// WithDeletion sets which messages and reactions get deleted.
func (b *LazyBuilder) WithDeletion(deletion types.DeletionOptions) *LazyBuilder {
	b.Deletion = deletion
	return b
}

// WithFooter sets the footer stamped on every loaded page.
func (b *LazyBuilder) WithFooter(footer Footer) *LazyBuilder {
	b.Footer = footer
	return b
}

// WithStartPage sets the page loaded first.
func (b *LazyBuilder) WithStartPage(index int) *LazyBuilder {
	b.StartPage = index
	return b
}

// WithDefaults sets the values loaded pages fall back to.
func (b *LazyBuilder) WithDefaults(defaults *PageBuilder) *LazyBuilder {
	b.Defaults = defaults
	return b
}

// WithMaxPageIndex sets the index of the last page.
func (b *LazyBuilder) WithMaxPageIndex(index int) *LazyBuilder {
	b.MaxPageIndex = index
	return b
}

// WithPageFactory sets the function loading a page on demand.
func (b *LazyBuilder) WithPageFactory(factory PageFactory) *LazyBuilder {
	b.Factory = factory
	return b
}

// WithCache replaces the in-memory page cache, for example with a RedisCache.
func (b *LazyBuilder) WithCache(cache PageCache) *LazyBuilder {
	b.Cache = cache
	return b
}

// WithLogger sets the logger reporting cache failures.
func (b *LazyBuilder) WithLogger(logger *zap.Logger) *LazyBuilder {
	b.Logger = logger
	return b
}

// Build creates the paginator. No page is loaded until it is requested.
func (b *LazyBuilder) Build() (*LazyPaginator, error) {
	if b.Factory == nil {
		return nil, ErrNoPageFactory
	}
	if b.MaxPageIndex < 0 {
		return nil, ErrNoPages
	}

	cache := b.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LazyPaginator{
		Base:    newBase(&b.Builder, b.MaxPageIndex),
		builder: b.Builder,
		factory: b.Factory,
		cache:   cache,
		logger:  logger.Named("lazy_paginator"),
	}, nil
}
