package service

import (
	"context"
	"strings"
	"time"

	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type NavigationService interface {
	Get(ctx context.Context) ([]models.NavigationItem, error)
	Replace(ctx context.Context, items []models.NavigationItem) ([]models.NavigationItem, error)
}

type navigationService struct {
	doc singleton[models.Navigation]
}

func NewNavigationService(docs repository.DocumentRepository) NavigationService {
	return &navigationService{
		doc: singleton[models.Navigation]{
			repo:     docs,
			kind:     repository.DocumentNavigation,
			label:    "navigation menu",
			defaults: models.DefaultNavigation,
		},
	}
}

func (s *navigationService) Get(ctx context.Context) ([]models.NavigationItem, error) {
	nav, err := s.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	if nav.Items == nil {
		return []models.NavigationItem{}, nil
	}
	return nav.Items, nil
}

func (s *navigationService) Replace(ctx context.Context, items []models.NavigationItem) ([]models.NavigationItem, error) {
	cleaned := make([]models.NavigationItem, 0, len(items))
	for i, item := range items {
		item.Label = strings.TrimSpace(item.Label)
		item.URL = strings.TrimSpace(item.URL)
		if item.Label == "" || item.URL == "" {
			return nil, ValidationError("Navigation item %d needs a label and a url", i+1)
		}
		if item.ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return nil, UpstreamError(err, "Error updating navigation menu")
			}
			item.ID = id
		}
		cleaned = append(cleaned, item)
	}

	nav, err := s.doc.update(ctx, func(doc *models.Navigation) error {
		doc.Items = cleaned
		doc.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nav.Items, nil
}
