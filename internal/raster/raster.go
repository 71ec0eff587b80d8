package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

var (
	// ErrDocumentLoad means the source bytes are not a readable document.
	ErrDocumentLoad = errors.New("cannot load document")
	// ErrPageRender means a specific page failed to rasterize.
	ErrPageRender = errors.New("cannot render page")
)

// PDF user space is 72 points per inch; rendering at 108 DPI gives the
// fixed 1.5x scale that keeps pages legible without bloating the
// payload sent to the generation service.
const renderDPI = 72 * 1.5

const imageMIMEType = "image/png"

// PageImage is one rendered page. Data is PNG-encoded and immutable
// once produced; batches are ordered by Page ascending.
type PageImage struct {
	Page     int    `json:"page"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Document wraps an open paged-document handle. It is not safe for
// concurrent use; pages are rendered one at a time.
type Document struct {
	doc *fitz.Document
}

// Open parses an in-memory document. The caller owns the returned
// handle and must Close it.
func Open(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentLoad, err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// RenderPage rasterizes one 1-based page to PNG at the fixed scale.
func (d *Document) RenderPage(page int) (PageImage, error) {
	img, err := d.doc.ImageDPI(page-1, renderDPI)
	if err != nil {
		return PageImage{}, fmt.Errorf("%w %d: %v", ErrPageRender, page, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return PageImage{}, fmt.Errorf("%w %d: %v", ErrPageRender, page, err)
	}
	return PageImage{Page: page, MIMEType: imageMIMEType, Data: buf.Bytes()}, nil
}

// PageText extracts the plain text of one 1-based page.
func (d *Document) PageText(page int) (string, error) {
	text, err := d.doc.Text(page - 1)
	if err != nil {
		return "", fmt.Errorf("%w %d: %v", ErrPageRender, page, err)
	}
	return text, nil
}

func (d *Document) Close() error {
	return d.doc.Close()
}
