package photos

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"finstagram/apperrors"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxUploadBytes is the photo size ceiling (7MB).
const MaxUploadBytes = 7 << 20

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

// Ingested is the stored photo reference handed back to the post layer.
type Ingested struct {
	Photo  string // URL path the router serves the image under
	Width  int
	Height int
}

// Ingestor decodes uploaded images, re-encodes them as JPEG, and stores
// them under Dir. URLPrefix is the public path the stored file is served at.
type Ingestor struct {
	Dir       string
	URLPrefix string
}

func NewIngestor(dir string) *Ingestor {
	return &Ingestor{Dir: dir, URLPrefix: "/img/posts"}
}

// Ingest validates and stores one photo. Non-image payloads and payloads
// over the size ceiling fail with a validation error.
func (ing *Ingestor) Ingest(file io.Reader, declaredType string, size int64, ownerID string) (*Ingested, error) {
	if size > MaxUploadBytes {
		return nil, apperrors.Validationf("Image exceeds the %dMB size limit.", MaxUploadBytes>>20)
	}
	if declaredType != "" && !supportedImageTypes[declaredType] {
		return nil, apperrors.Validationf("Please upload images only!")
	}

	img, err := imaging.Decode(io.LimitReader(file, MaxUploadBytes+1), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.Validationf("Please upload images only!")
	}

	if err := os.MkdirAll(ing.Dir, 0755); err != nil {
		return nil, apperrors.Internal("Failed to store image", err)
	}

	name := fmt.Sprintf("post-%s-%s.jpg", ownerID, uuid.NewString())
	if err := imaging.Save(img, filepath.Join(ing.Dir, name), imaging.JPEGQuality(90)); err != nil {
		return nil, apperrors.Internal("Failed to store image", err)
	}

	bounds := img.Bounds()
	return &Ingested{
		Photo:  ing.URLPrefix + "/" + name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// IngestFromRequest pulls the "photo" multipart field off a request and
// ingests it.
func (ing *Ingestor) IngestFromRequest(r *http.Request, ownerID string) (*Ingested, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil, apperrors.Validationf("Please provide an image.")
	}
	defer file.Close()

	return ing.Ingest(file, header.Header.Get("Content-Type"), header.Size, ownerID)
}
