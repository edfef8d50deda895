package models

import "time"

const MaxHeroImages = 7

type Hero struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Images   []string `json:"images"`
	Video    string   `json:"video,omitempty"`
	CtaText  string   `json:"ctaText"`
	CtaLink  string   `json:"ctaLink"`
}

type FeaturedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Link  string `json:"link"`
}

type FeaturedContent struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Items       []FeaturedItem `json:"items"`
}

type About struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Avatar  string `json:"avatar"`
}

type Reel struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	VideoURL  string    `json:"videoUrl"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Reels struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Items       []Reel `json:"items"`
}

type LandingPage struct {
	Hero            Hero            `json:"hero"`
	FeaturedContent FeaturedContent `json:"featuredContent"`
	About           About           `json:"about"`
	Testimonials    []Testimonial   `json:"testimonials"`
	Reels           Reels           `json:"reels"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func DefaultLandingPage() *LandingPage {
	return &LandingPage{
		Hero: Hero{
			Title:    "Welcome to Delicious Bites",
			Subtitle: "Discover amazing recipes and cooking tips",
			Images:   []string{},
			CtaText:  "Explore Recipes",
			CtaLink:  "/blogs",
		},
		FeaturedContent: FeaturedContent{
			Title:       "Featured Recipes",
			Description: "Our most popular and delicious recipes",
			Items:       []FeaturedItem{},
		},
		About: About{
			Title:   "About Delicious Bites",
			Content: "A food blog dedicated to sharing delicious recipes and cooking tips from around the world.",
		},
		Testimonials: []Testimonial{},
		Reels: Reels{
			Title:       "Food Reels",
			Description: "Watch our latest food reels and get inspired",
			Items:       []Reel{},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

// MediaURLs returns every file URL referenced by the landing page.
func (l *LandingPage) MediaURLs() []string {
	urls := append([]string{}, l.Hero.Images...)
	for _, u := range []string{l.Hero.Video, l.About.Image} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	for _, item := range l.FeaturedContent.Items {
		if item.Image != "" {
			urls = append(urls, item.Image)
		}
	}
	for _, t := range l.Testimonials {
		if t.Avatar != "" {
			urls = append(urls, t.Avatar)
		}
	}
	for _, r := range l.Reels.Items {
		urls = append(urls, r.VideoURL)
		if r.Thumbnail != "" {
			urls = append(urls, r.Thumbnail)
		}
	}
	return urls
}
