package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoImage              = errors.New("no image provided")
	ErrImageTooLarge        = errors.New("image too large")
	ErrImageTypeUnsupported = errors.New("unsupported image type, only JPEG and PNG are accepted")
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// ImageValidator checks an uploaded avatar image against the type
// whitelist and the size ceiling. The Content-Type header is checked
// first as a fast reject, then the real bytes are sniffed since the
// header is trivial to spoof.
func ImageValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoImage
	}

	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return http.StatusBadRequest, nil, ErrImageTypeUnsupported
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, nil, ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	if !slices.Contains(allowedImageTypes, mime.String()) {
		f.Close()
		return http.StatusBadRequest, nil, ErrImageTypeUnsupported
	}

	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	return 0, f, nil
}
