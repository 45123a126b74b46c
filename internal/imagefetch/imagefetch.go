// Package imagefetch downloads and decodes the photos that go into room ads.
package imagefetch

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxImages bounds how many refs a single Fetch call resolves.
	MaxImages      = 6
	maxImageBytes  = 20 << 20
	defaultTimeout = 15 * time.Second
)

// photoGetter is the subset of photostore.PhotoStore that Fetcher requires.
type photoGetter interface {
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
}

// Fetcher resolves photo refs to decoded images. Refs starting with http://
// or https:// are downloaded; anything else is a photo store key.
type Fetcher struct {
	client *http.Client
	photos photoGetter
	logger *slog.Logger
}

type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// New returns a Fetcher. photos may be nil when only URLs are expected.
func New(photos photoGetter, logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		photos: photos,
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves up to MaxImages refs concurrently and returns the decoded
// images in ref order. Refs that fail are logged and left out.
func (f *Fetcher) Fetch(ctx context.Context, refs []string) []image.Image {
	if len(refs) > MaxImages {
		refs = refs[:MaxImages]
	}
	slots := make([]image.Image, len(refs))

	var g errgroup.Group
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			img, err := f.fetchOne(ctx, ref)
			if err != nil {
				f.logger.Warn("skipping photo", "ref", ref, "error", err)
				return nil
			}
			slots[i] = img
			return nil
		})
	}
	_ = g.Wait()

	images := make([]image.Image, 0, len(slots))
	for _, img := range slots {
		if img != nil {
			images = append(images, img)
		}
	}
	return images
}

func (f *Fetcher) fetchOne(ctx context.Context, ref string) (image.Image, error) {
	rc, err := f.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	img, format, err := image.Decode(io.LimitReader(rc, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	f.logger.Debug("photo fetched", "ref", ref, "format", format, "bounds", img.Bounds().String())
	return img, nil
}

func (f *Fetcher) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download photo: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	if f.photos == nil {
		return nil, fmt.Errorf("no photo store configured")
	}
	rc, _, err := f.photos.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored photo: %w", err)
	}
	return rc, nil
}
