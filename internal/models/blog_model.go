package models

import (
	"time"

	"github.com/maheshrc27/foodblog-api/internal/media"
)

const MaxBlogMedia = 7

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type Media struct {
	ID      string `db:"id" json:"id"`
	Type    string `db:"type" json:"type"` // image, video
	URL     string `db:"url" json:"url"`
	Caption string `db:"caption" json:"caption"`
}

type Comment struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user,omitempty"`
	Author    string    `db:"author" json:"author"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Blog struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	Author      string    `db:"author" json:"author"`
	LegacyImage string    `db:"legacy_image" json:"-"`
	Image       string    `json:"image,omitempty"`
	Media       []Media   `json:"media"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Project canonicalizes every stored URL and derives the legacy image field:
// the explicitly stored legacy value when present, otherwise the first image
// in the media list.
func (b *Blog) Project() *Blog {
	b.LegacyImage = media.Canonicalize(b.LegacyImage)
	for i := range b.Media {
		b.Media[i].URL = media.Canonicalize(b.Media[i].URL)
	}

	b.Image = b.LegacyImage
	if b.Image == "" {
		for _, m := range b.Media {
			if m.Type == MediaTypeImage {
				b.Image = m.URL
				break
			}
		}
	}

	if b.Media == nil {
		b.Media = []Media{}
	}
	if b.Likes == nil {
		b.Likes = []string{}
	}
	if b.Comments == nil {
		b.Comments = []Comment{}
	}
	return b
}

// MediaURLs returns every file URL the blog references.
func (b *Blog) MediaURLs() []string {
	urls := make([]string, 0, len(b.Media)+1)
	for _, m := range b.Media {
		urls = append(urls, m.URL)
	}
	if b.LegacyImage != "" {
		urls = append(urls, b.LegacyImage)
	}
	return urls
}

type BlogFilter struct {
	Search string // case-insensitive regular expression over title, content and author
	Author string // exact author match
	From   *time.Time
	To     *time.Time
}

// UserComment is a comment listed together with the post it was left on.
type UserComment struct {
	Comment
	BlogID    string `json:"blogId"`
	BlogTitle string `json:"blogTitle"`
}
