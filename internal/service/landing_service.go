package service

import (
	"context"
	"strings"
	"time"

	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/maheshrc27/foodblog-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type LandingService interface {
	Get(ctx context.Context) (*models.LandingPage, error)
	Update(ctx context.Context, patch []byte) (*models.LandingPage, error)
	UploadHero(ctx context.Context, files []File) ([]string, *models.LandingPage, error)
	Upload(ctx context.Context, files []File) ([]string, error)
	AddReel(ctx context.Context, title string, files []File) (*models.Reel, *models.LandingPage, error)
	DeleteReel(ctx context.Context, reelID string) (*models.LandingPage, error)
	UpdateReelsSection(ctx context.Context, in transfer.ReelsSectionUpdate) (*models.LandingPage, error)
}

type landingService struct {
	doc     singleton[models.LandingPage]
	uploads UploadService
	cleaner MediaCleaner
}

func NewLandingService(docs repository.DocumentRepository, uploads UploadService, cleaner MediaCleaner) LandingService {
	return &landingService{
		doc: singleton[models.LandingPage]{
			repo:     docs,
			kind:     repository.DocumentLandingPage,
			label:    "landing page",
			defaults: models.DefaultLandingPage,
		},
		uploads: uploads,
		cleaner: cleaner,
	}
}

func canonicalizeLanding(l *models.LandingPage) *models.LandingPage {
	for i, u := range l.Hero.Images {
		l.Hero.Images[i] = media.Canonicalize(u)
	}
	l.Hero.Video = media.Canonicalize(l.Hero.Video)
	l.About.Image = media.Canonicalize(l.About.Image)
	for i := range l.Reels.Items {
		l.Reels.Items[i].VideoURL = media.Canonicalize(l.Reels.Items[i].VideoURL)
		l.Reels.Items[i].Thumbnail = media.Canonicalize(l.Reels.Items[i].Thumbnail)
	}
	if l.Hero.Images == nil {
		l.Hero.Images = []string{}
	}
	if l.Reels.Items == nil {
		l.Reels.Items = []models.Reel{}
	}
	return l
}

func (s *landingService) Get(ctx context.Context) (*models.LandingPage, error) {
	page, err := s.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	return canonicalizeLanding(page), nil
}

func (s *landingService) Update(ctx context.Context, patch []byte) (*models.LandingPage, error) {
	page, err := s.doc.patch(ctx, patch, func(doc *models.LandingPage) error {
		if len(doc.Hero.Images) > models.MaxHeroImages {
			return ValidationError("The hero takes at most %d images", models.MaxHeroImages)
		}
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canonicalizeLanding(page), nil
}

func (s *landingService) UploadHero(ctx context.Context, files []File) ([]string, *models.LandingPage, error) {
	if len(files) == 0 {
		return nil, nil, ValidationError("No files uploaded")
	}

	current, err := s.doc.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.uploads.Handle(ctx, HeroTarget, files, len(current.Hero.Images))
	if err != nil {
		return nil, nil, err
	}

	var replaced []string
	page, err := s.doc.update(ctx, func(doc *models.LandingPage) error {
		replaced = nil
		images := 0
		for _, f := range result.Stored {
			if f.Kind == media.KindImage {
				images++
			}
		}
		// Another upload may have landed since the pre-check.
		if len(doc.Hero.Images)+images > models.MaxHeroImages {
			return ValidationError("Too many files: at most %d allowed, %d already attached", models.MaxHeroImages, len(doc.Hero.Images))
		}

		for _, f := range result.Stored {
			switch f.Kind {
			case media.KindImage:
				doc.Hero.Images = append(doc.Hero.Images, f.URL)
			case media.KindVideo:
				// The last video of the batch wins.
				replaced = append(replaced, doc.Hero.Video)
				doc.Hero.Video = f.URL
			}
		}
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		scheduleCleanup(ctx, s.cleaner, result.URLs()...)
		return nil, nil, err
	}
	scheduleCleanup(ctx, s.cleaner, replaced...)

	return result.URLs(), canonicalizeLanding(page), nil
}

func (s *landingService) Upload(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, ValidationError("No files uploaded")
	}
	result, err := s.uploads.Handle(ctx, LandingTarget, files, 0)
	if err != nil {
		return nil, err
	}
	return result.URLs(), nil
}

func (s *landingService) AddReel(ctx context.Context, title string, files []File) (*models.Reel, *models.LandingPage, error) {
	if len(files) == 0 {
		return nil, nil, ValidationError("No video file uploaded")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, ValidationError("Title is required")
	}

	result, err := s.uploads.Handle(ctx, ReelTarget, files, 0)
	if err != nil {
		return nil, nil, err
	}

	video, _ := result.First(media.KindVideo)
	thumbnail, _ := result.First(media.KindImage)

	id, err := gonanoid.New()
	if err != nil {
		scheduleCleanup(ctx, s.cleaner, result.URLs()...)
		return nil, nil, UpstreamError(err, "Error adding reel")
	}
	reel := models.Reel{
		ID:        id,
		Title:     title,
		VideoURL:  video.URL,
		Thumbnail: thumbnail.URL,
		CreatedAt: time.Now().UTC(),
	}

	page, err := s.doc.update(ctx, func(doc *models.LandingPage) error {
		doc.Reels.Items = append(doc.Reels.Items, reel)
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		scheduleCleanup(ctx, s.cleaner, result.URLs()...)
		return nil, nil, err
	}

	return &reel, canonicalizeLanding(page), nil
}

func (s *landingService) DeleteReel(ctx context.Context, reelID string) (*models.LandingPage, error) {
	var removed []string
	page, err := s.doc.update(ctx, func(doc *models.LandingPage) error {
		removed = nil
		kept := doc.Reels.Items[:0]
		for _, r := range doc.Reels.Items {
			if r.ID == reelID {
				removed = append(removed, r.VideoURL, r.Thumbnail)
				continue
			}
			kept = append(kept, r)
		}
		doc.Reels.Items = kept
		if len(removed) > 0 {
			doc.UpdatedAt = time.Now().UTC()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	scheduleCleanup(ctx, s.cleaner, removed...)
	return canonicalizeLanding(page), nil
}

func (s *landingService) UpdateReelsSection(ctx context.Context, in transfer.ReelsSectionUpdate) (*models.LandingPage, error) {
	page, err := s.doc.update(ctx, func(doc *models.LandingPage) error {
		if t := strings.TrimSpace(in.Title); t != "" {
			doc.Reels.Title = t
		}
		if d := strings.TrimSpace(in.Description); d != "" {
			doc.Reels.Description = d
		}
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canonicalizeLanding(page), nil
}
