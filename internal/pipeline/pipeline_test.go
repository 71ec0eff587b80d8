package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck/internal/raster"
)

type fakeDoc struct {
	pages    int
	rendered []int
	failPage int
	onRender func(page int)
	closed   bool
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) RenderPage(page int) (raster.PageImage, error) {
	if d.onRender != nil {
		d.onRender(page)
	}
	if page == d.failPage {
		return raster.PageImage{}, fmt.Errorf("%w %d", raster.ErrPageRender, page)
	}
	d.rendered = append(d.rendered, page)
	return raster.PageImage{Page: page, MIMEType: "image/png", Data: []byte{0x89}}, nil
}

func (d *fakeDoc) PageText(page int) (string, error) {
	return fmt.Sprintf("text of page %d\n", page), nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

func openerFor(doc *fakeDoc) OpenFunc {
	return func(data []byte) (Document, error) { return doc, nil }
}

func TestRunAllPages(t *testing.T) {
	doc := &fakeDoc{pages: 3}
	r := New(openerFor(doc))

	var progress []int
	batch, err := r.Run(context.Background(), nil, "", func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)

	require.Len(t, batch, 3)
	for i, img := range batch {
		assert.Equal(t, i+1, img.Page)
		assert.Equal(t, "image/png", img.MIMEType)
	}
	assert.Equal(t, []int{33, 67, 100}, progress)
	assert.True(t, doc.closed)
}

func TestRunSelection(t *testing.T) {
	doc := &fakeDoc{pages: 10}
	r := New(openerFor(doc))

	var progress []int
	batch, err := r.Run(context.Background(), nil, "2, 5-7", func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 5, 6, 7}, doc.rendered)
	require.Len(t, batch, 4)
	assert.Equal(t, []int{25, 50, 75, 100}, progress)
}

func TestProgressMonotonicEndsAt100(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 100} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			doc := &fakeDoc{pages: n}
			r := New(openerFor(doc))

			var progress []int
			_, err := r.Run(context.Background(), nil, "", func(pct int) {
				progress = append(progress, pct)
			})
			require.NoError(t, err)

			require.Len(t, progress, n)
			prev := 0
			for _, pct := range progress {
				assert.GreaterOrEqual(t, pct, prev)
				assert.LessOrEqual(t, pct, 100)
				prev = pct
			}
			assert.Equal(t, 100, progress[n-1])
		})
	}
}

func TestRunInvalidSelection(t *testing.T) {
	doc := &fakeDoc{pages: 5}
	r := New(openerFor(doc))

	_, err := r.Run(context.Background(), nil, "10", nil)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Empty(t, doc.rendered)
	assert.True(t, doc.closed)
}

func TestRunOpenFailure(t *testing.T) {
	loadErr := fmt.Errorf("%w: bad bytes", raster.ErrDocumentLoad)
	r := New(func(data []byte) (Document, error) { return nil, loadErr })

	_, err := r.Run(context.Background(), nil, "", nil)
	assert.ErrorIs(t, err, raster.ErrDocumentLoad)
}

func TestRunPageRenderFailure(t *testing.T) {
	doc := &fakeDoc{pages: 5, failPage: 3}
	r := New(openerFor(doc))

	var progress []int
	batch, err := r.Run(context.Background(), nil, "", func(pct int) {
		progress = append(progress, pct)
	})
	assert.ErrorIs(t, err, raster.ErrPageRender)
	assert.Nil(t, batch)
	// Pages 1 and 2 completed before the failure; nothing after it.
	assert.Equal(t, []int{1, 2}, doc.rendered)
	assert.Equal(t, []int{20, 40}, progress)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	opened := false
	r := New(func(data []byte) (Document, error) {
		opened = true
		return &fakeDoc{pages: 3}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := r.Run(ctx, nil, "", nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, batch)
	assert.False(t, opened)
}

func TestRunCancelledMidFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	doc := &fakeDoc{pages: 5}
	// Cancel while page 2 is rendering; the page in flight finishes but
	// no later page is started.
	doc.onRender = func(page int) {
		if page == 2 {
			cancel()
		}
	}
	r := New(openerFor(doc))

	var progress []int
	batch, err := r.Run(ctx, nil, "", func(pct int) {
		progress = append(progress, pct)
	})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, batch)
	assert.Equal(t, []int{1, 2}, doc.rendered)
	assert.Equal(t, []int{20, 40}, progress)
	assert.True(t, doc.closed)
}

func TestRunCancelledIsDistinct(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(openerFor(&fakeDoc{pages: 1}))

	_, err := r.Run(ctx, nil, "", nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.False(t, errors.Is(err, ErrInvalidSelection))
	assert.False(t, errors.Is(err, raster.ErrDocumentLoad))
}

func TestRunText(t *testing.T) {
	doc := &fakeDoc{pages: 4}
	r := New(openerFor(doc))

	var progress []int
	text, err := r.RunText(context.Background(), nil, "1,3", func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)
	assert.Equal(t, "text of page 1\n\ntext of page 3\n\n", text)
	assert.Equal(t, []int{50, 100}, progress)
}
