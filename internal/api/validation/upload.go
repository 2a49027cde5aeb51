package validation

import (
	"fmt"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// Upload describes an uploaded file by its size and sniffed content type.
type Upload struct {
	Header    *multipart.FileHeader
	Size      int64
	MIME      string // detected from content, not the client header
	Extension string // with leading dot, e.g. ".png"

	detected *mimetype.MIME
}

// IsA reports whether the detected type is mime or a subtype of it, so an
// animated PNG counts as image/png.
func (u *Upload) IsA(mime string) bool {
	for m := u.detected; m != nil; m = m.Parent() {
		if m.Is(mime) {
			return true
		}
	}
	return false
}

// Inspect opens fh and detects its content type.
func Inspect(fh *multipart.FileHeader) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detecting upload type %q: %w", fh.Filename, err)
	}

	return &Upload{
		Header:    fh,
		Size:      fh.Size,
		MIME:      mt.String(),
		Extension: mt.Extension(),
		detected:  mt,
	}, nil
}
