package service

import (
	"context"
	"strings"
	"time"

	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
)

const (
	AssetLogo    = "logo"
	AssetFavicon = "favicon"
)

type SiteSettingsService interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, patch []byte) (*models.SiteSettings, error)
	// UploadAsset stores an image under the site folder. Logo and favicon
	// uploads also replace the corresponding setting.
	UploadAsset(ctx context.Context, assetType string, file File) (string, *models.SiteSettings, error)
}

type siteSettingsService struct {
	doc     singleton[models.SiteSettings]
	uploads UploadService
	cleaner MediaCleaner
}

func NewSiteSettingsService(docs repository.DocumentRepository, uploads UploadService, cleaner MediaCleaner) SiteSettingsService {
	return &siteSettingsService{
		doc: singleton[models.SiteSettings]{
			repo:     docs,
			kind:     repository.DocumentSiteSettings,
			label:    "site settings",
			defaults: models.DefaultSiteSettings,
		},
		uploads: uploads,
		cleaner: cleaner,
	}
}

func canonicalizeSettings(s *models.SiteSettings) *models.SiteSettings {
	s.Logo = media.Canonicalize(s.Logo)
	s.Favicon = media.Canonicalize(s.Favicon)
	return s
}

func (s *siteSettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := s.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	return canonicalizeSettings(settings), nil
}

func (s *siteSettingsService) Update(ctx context.Context, patch []byte) (*models.SiteSettings, error) {
	settings, err := s.doc.patch(ctx, patch, func(doc *models.SiteSettings) error {
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canonicalizeSettings(settings), nil
}

func (s *siteSettingsService) UploadAsset(ctx context.Context, assetType string, file File) (string, *models.SiteSettings, error) {
	assetType = strings.ToLower(strings.TrimSpace(assetType))

	result, err := s.uploads.Handle(ctx, SiteTarget, []File{file}, 0)
	if err != nil {
		return "", nil, err
	}
	if len(result.Stored) == 0 {
		return "", nil, StorageError(result.Failures[0].Err, "Error uploading image")
	}
	url := result.Stored[0].URL

	if assetType != AssetLogo && assetType != AssetFavicon {
		settings, err := s.Get(ctx)
		if err != nil {
			return "", nil, err
		}
		return url, settings, nil
	}

	var previous string
	settings, err := s.doc.update(ctx, func(doc *models.SiteSettings) error {
		if assetType == AssetLogo {
			previous, doc.Logo = doc.Logo, url
		} else {
			previous, doc.Favicon = doc.Favicon, url
		}
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		scheduleCleanup(ctx, s.cleaner, url)
		return "", nil, err
	}
	if replacedAsset(previous, url) {
		scheduleCleanup(ctx, s.cleaner, media.Canonicalize(previous))
	}
	return url, canonicalizeSettings(settings), nil
}

// replacedAsset reports whether previous is an uploaded file that url
// superseded. The shipped default assets are never removed.
func replacedAsset(previous, url string) bool {
	if previous == "" {
		return false
	}
	previous = media.Canonicalize(previous)
	defaults := models.DefaultSiteSettings()
	return previous != url && previous != defaults.Logo && previous != defaults.Favicon
}
