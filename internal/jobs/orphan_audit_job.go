package job

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/repository"
)

const auditTimeout = 5 * time.Minute

// OrphanAuditJob reports stored files that no document references. It only
// logs what it finds; removal stays a manual decision.
type OrphanAuditJob struct {
	store media.Store
	blogs repository.BlogRepository
	users repository.UserRepository
	docs  repository.DocumentRepository
}

func NewOrphanAuditJob(
	store media.Store,
	blogs repository.BlogRepository,
	users repository.UserRepository,
	docs repository.DocumentRepository) *OrphanAuditJob {
	return &OrphanAuditJob{
		store: store,
		blogs: blogs,
		users: users,
		docs:  docs,
	}
}

func (j *OrphanAuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	orphans, err := j.Audit(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	for _, url := range orphans {
		slog.Warn("unreferenced media file", "url", url)
	}
	slog.Info("orphan audit finished", "orphans", len(orphans))
}

// Audit returns the sorted URLs of stored files that are not referenced.
func (j *OrphanAuditJob) Audit(ctx context.Context) ([]string, error) {
	referenced, err := j.referenced(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := j.store.List(ctx)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var orphans []string
	for _, url := range stored {
		if _, ok := referenced[media.Canonicalize(url)]; !ok {
			orphans = append(orphans, url)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

func (j *OrphanAuditJob) referenced(ctx context.Context) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	add := func(urls ...string) {
		for _, u := range urls {
			if u != "" {
				set[media.Canonicalize(u)] = struct{}{}
			}
		}
	}

	blogURLs, err := j.blogs.ListMediaURLs(ctx)
	if err != nil {
		return nil, err
	}
	add(blogURLs...)

	users, err := j.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		add(u.ProfilePicture)
	}

	landing := models.DefaultLandingPage()
	if err := j.loadDocument(ctx, repository.DocumentLandingPage, landing); err != nil {
		return nil, err
	}
	add(landing.MediaURLs()...)

	defaults := models.DefaultSiteSettings()
	add(defaults.Logo, defaults.Favicon)

	settings := models.DefaultSiteSettings()
	if err := j.loadDocument(ctx, repository.DocumentSiteSettings, settings); err != nil {
		return nil, err
	}
	add(settings.Logo, settings.Favicon)

	return set, nil
}

// loadDocument decodes the stored document into v, leaving v untouched when
// the document was never created.
func (j *OrphanAuditJob) loadDocument(ctx context.Context, kind string, v any) error {
	raw, found, err := j.docs.LoadExisting(ctx, kind)
	if err != nil || !found {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
