package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/models"
)

const (
	MB = 1 << 20

	MediaMaxSize = 50 * MB
	SiteMaxSize  = 2 * MB
)

// sniffLen is the number of header bytes filetype needs to recognise a format.
const sniffLen = 261

// File is one part of a multipart upload.
type File struct {
	Filename string
	MIMEType string
	Size     int64
	Caption  string
	Open     func() (io.ReadCloser, error)
}

// BytesFile wraps an in-memory buffer as an upload.
func BytesFile(filename, mimeType string, data []byte) File {
	return File{
		Filename: filename,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Target describes where a batch of uploads goes and what it may contain.
type Target struct {
	Name        string
	Folder      string
	VideoFolder string // defaults to Folder
	MaxSize     int64
	MaxFiles    int
	AllowImages bool
	AllowVideos bool
	Extensions  map[string]struct{} // optional allow-list of filename extensions
	// MaxTotal bounds existing plus new files of CountKind (all kinds when
	// empty). Zero disables the check.
	MaxTotal  int
	CountKind media.Kind
	// Required marks the kind whose storage failure aborts the whole batch.
	Required media.Kind
	// Check validates the composition of the classified batch.
	Check func(kinds []media.Kind) error
}

func (t Target) folderFor(kind media.Kind) string {
	if kind == media.KindVideo && t.VideoFolder != "" {
		return t.VideoFolder
	}
	return t.Folder
}

var (
	BlogTarget = Target{
		Name: "blog", Folder: "blogs", MaxSize: MediaMaxSize, MaxFiles: models.MaxBlogMedia,
		AllowImages: true, AllowVideos: true,
	}
	HeroTarget = Target{
		Name: "hero", Folder: "landing-page/hero", MaxSize: MediaMaxSize, MaxFiles: models.MaxHeroImages,
		AllowImages: true, AllowVideos: true, MaxTotal: models.MaxHeroImages, CountKind: media.KindImage,
	}
	LandingTarget = Target{
		Name: "landing", Folder: "landing-page", MaxSize: MediaMaxSize, MaxFiles: 7,
		AllowImages: true, AllowVideos: true,
	}
	ReelTarget = Target{
		Name: "reel", Folder: "landing-page/reels/thumbnails", VideoFolder: "landing-page/reels",
		MaxSize: MediaMaxSize, MaxFiles: 2, AllowImages: true, AllowVideos: true,
		Required: media.KindVideo, Check: checkReel,
	}
	SiteTarget = Target{
		Name: "site", Folder: "site", MaxSize: SiteMaxSize, MaxFiles: 1, AllowImages: true,
		Extensions: map[string]struct{}{"jpeg": {}, "jpg": {}, "png": {}, "gif": {}, "svg": {}, "ico": {}},
	}
	ProfileTarget = Target{
		Name: "profile", Folder: "profiles", MaxSize: MediaMaxSize, MaxFiles: 1, AllowImages: true,
	}
)

func checkReel(kinds []media.Kind) error {
	var videos, images int
	for _, k := range kinds {
		switch k {
		case media.KindVideo:
			videos++
		case media.KindImage:
			images++
		}
	}
	if videos == 0 {
		return ValidationError("No valid video file found. Please upload a video file.")
	}
	if videos > 1 {
		return ValidationError("A reel takes exactly one video")
	}
	if images > 1 {
		return ValidationError("A reel takes at most one thumbnail")
	}
	return nil
}

type StoredFile struct {
	Filename string
	Caption  string
	Kind     media.Kind
	URL      string
}

type UploadFailure struct {
	Filename string
	Err      error
}

type UploadResult struct {
	Stored   []StoredFile
	Failures []UploadFailure
}

// Assets converts the stored files into media list entries.
func (r *UploadResult) Assets() []models.Media {
	assets := make([]models.Media, 0, len(r.Stored))
	for _, f := range r.Stored {
		assets = append(assets, models.Media{Type: string(f.Kind), URL: f.URL, Caption: f.Caption})
	}
	return assets
}

func (r *UploadResult) URLs() []string {
	urls := make([]string, 0, len(r.Stored))
	for _, f := range r.Stored {
		urls = append(urls, f.URL)
	}
	return urls
}

// First returns the first stored file of kind.
func (r *UploadResult) First(kind media.Kind) (StoredFile, bool) {
	for _, f := range r.Stored {
		if f.Kind == kind {
			return f, true
		}
	}
	return StoredFile{}, false
}

type UploadService interface {
	// Handle validates the whole batch before any file is stored, then stores
	// each file. existing is the number of items already associated with the
	// target document.
	Handle(ctx context.Context, target Target, files []File, existing int) (*UploadResult, error)
}

type uploadService struct {
	store    media.Store
	observer media.Observer
}

func NewUploadService(store media.Store, observer media.Observer) UploadService {
	if observer == nil {
		observer = media.NopObserver()
	}
	return &uploadService{store: store, observer: observer}
}

func (s *uploadService) Handle(ctx context.Context, target Target, files []File, existing int) (*UploadResult, error) {
	files = slices.Clone(files)
	kinds, err := s.validate(target, files, existing)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	result := &UploadResult{}
	stored := make([]*StoredFile, len(files))

	// Files of the required kind go first so an abort never leaves siblings behind.
	order := make([]int, 0, len(files))
	for i, k := range kinds {
		if target.Required != "" && k == target.Required {
			order = append(order, i)
		}
	}
	for i, k := range kinds {
		if target.Required == "" || k != target.Required {
			order = append(order, i)
		}
	}

	for _, i := range order {
		f := files[i]
		url, err := s.save(ctx, target, f, kinds[i])
		if err != nil {
			if kinds[i] == target.Required {
				slog.Error(fmt.Sprintf("store required %s %q: %v", kinds[i], f.Filename, err))
				return nil, StorageError(err, "Error processing files: %s", f.Filename)
			}
			slog.Error(fmt.Sprintf("store %q: %v", f.Filename, err))
			result.Failures = append(result.Failures, UploadFailure{Filename: f.Filename, Err: err})
			continue
		}
		stored[i] = &StoredFile{Filename: f.Filename, Caption: f.Caption, Kind: kinds[i], URL: url}
	}

	for _, sf := range stored {
		if sf != nil {
			result.Stored = append(result.Stored, *sf)
		}
	}
	return result, nil
}

func (s *uploadService) validate(target Target, files []File, existing int) ([]media.Kind, error) {
	if target.MaxFiles > 0 && len(files) > target.MaxFiles {
		s.observer.RecordRejected("count")
		return nil, ValidationError("Too many files: at most %d allowed", target.MaxFiles)
	}

	kinds := make([]media.Kind, len(files))
	for i := range files {
		f := &files[i]
		if f.Size > target.MaxSize {
			s.observer.RecordRejected("size")
			return nil, ValidationError("File %s exceeds the %d MB limit", f.Filename, target.MaxSize/MB)
		}
		if f.Size == 0 {
			s.observer.RecordRejected("empty")
			return nil, ValidationError("File %s is empty", f.Filename)
		}

		if media.IsGenericMIME(f.MIMEType) {
			if sniffed := sniff(f); sniffed != "" {
				f.MIMEType = sniffed
			}
		}

		kind := media.Classify(f.MIMEType, f.Filename)
		allowed := (kind == media.KindImage && target.AllowImages) || (kind == media.KindVideo && target.AllowVideos)
		if allowed && target.Extensions != nil {
			_, allowed = target.Extensions[media.Extension(f.Filename)]
		}
		if !allowed {
			s.observer.RecordRejected("type")
			if target.AllowVideos {
				return nil, ValidationError("File %s is not an image or video", f.Filename)
			}
			return nil, ValidationError("Only image files are allowed! (%s)", f.Filename)
		}
		kinds[i] = kind
	}

	if target.MaxTotal > 0 {
		total := existing
		for _, k := range kinds {
			if target.CountKind == "" || k == target.CountKind {
				total++
			}
		}
		if total > target.MaxTotal {
			s.observer.RecordRejected("count")
			return nil, ValidationError("Too many files: at most %d allowed, %d already attached", target.MaxTotal, existing)
		}
	}

	if target.Check != nil {
		if err := target.Check(kinds); err != nil {
			s.observer.RecordRejected("composition")
			return nil, err
		}
	}
	return kinds, nil
}

func sniff(f *File) string {
	if f.Open == nil {
		return ""
	}
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(rc, head)
	return media.Sniff(head[:n])
}

func (s *uploadService) save(ctx context.Context, target Target, f File, kind media.Kind) (string, error) {
	if f.Open == nil {
		return "", media.ErrEmptyContent
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, target.MaxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > target.MaxSize {
		return "", fmt.Errorf("%s grew past the size limit while reading", f.Filename)
	}

	return s.store.Save(ctx, data, f.Filename, f.MIMEType, target.folderFor(kind))
}
