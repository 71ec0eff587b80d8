package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/flashdeck/flashdeck/internal/pages"
	"github.com/flashdeck/flashdeck/internal/raster"
)

var (
	// ErrInvalidSelection means a non-blank page selection resolved to
	// zero valid pages.
	ErrInvalidSelection = errors.New("page selection matches no pages")
	// ErrCancelled means the run was cancelled cooperatively. Callers
	// should treat it as a neutral outcome, not a failure.
	ErrCancelled = errors.New("run cancelled")
)

// Document is the paged-document capability the pipeline drives.
// *raster.Document satisfies it.
type Document interface {
	PageCount() int
	RenderPage(page int) (raster.PageImage, error)
	PageText(page int) (string, error)
	Close() error
}

// OpenFunc parses raw bytes into a Document.
type OpenFunc func(data []byte) (Document, error)

// Runner executes one load-parse-render pipeline at a time. Runs are
// all-or-nothing: a failed or cancelled run never yields a partial
// batch.
type Runner struct {
	open OpenFunc
}

func New(open OpenFunc) *Runner {
	return &Runner{open: open}
}

// Run loads the document, resolves the page selection and renders every
// selected page in ascending order. onProgress, if non-nil, is invoked
// once per completed page with a 0-100 percentage, non-decreasing and
// ending at 100. Cancellation is polled at entry and at every page
// boundary; a page render already underway is allowed to finish.
func (r *Runner) Run(ctx context.Context, data []byte, selection string, onProgress func(int)) ([]raster.PageImage, error) {
	var batch []raster.PageImage
	err := r.eachPage(ctx, data, selection, onProgress, func(doc Document, page int) error {
		img, err := doc.RenderPage(page)
		if err != nil {
			return err
		}
		batch = append(batch, img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// RunText is the text-mode counterpart of Run: instead of rasterizing,
// it extracts each selected page's plain text and concatenates the
// pages in order. Selection, progress and cancellation semantics are
// identical.
func (r *Runner) RunText(ctx context.Context, data []byte, selection string, onProgress func(int)) (string, error) {
	var b strings.Builder
	err := r.eachPage(ctx, data, selection, onProgress, func(doc Document, page int) error {
		text, err := doc.PageText(page)
		if err != nil {
			return err
		}
		b.WriteString(text)
		b.WriteString("\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Runner) eachPage(ctx context.Context, data []byte, selection string, onProgress func(int), visit func(Document, int) error) error {
	if err := cancelled(ctx); err != nil {
		return err
	}

	doc, err := r.open(data)
	if err != nil {
		return err
	}
	defer doc.Close()

	selected := pages.Parse(selection, doc.PageCount())
	if len(selected) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidSelection, selection)
	}

	total := len(selected)
	for i, page := range selected {
		if err := cancelled(ctx); err != nil {
			return err
		}
		if err := visit(doc, page); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(percent(i+1, total))
		}
	}
	return nil
}

func cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	default:
		return nil
	}
}

func percent(done, total int) int {
	return int(math.Round(float64(done) / float64(total) * 100))
}
