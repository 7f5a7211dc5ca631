package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/commutelog/api/internal/service"
	"github.com/commutelog/api/internal/validation"
)

// Multipart parts beyond this stay on disk while parsing.
const multipartMemory = 32 << 20

var errNoFile = errors.New("no file uploaded")

// imageUploader parses a multipart request, validates its "image" part
// and stores it through the file service.
type imageUploader struct {
	files       *service.FileService
	constraints validation.FileConstraints
}

// parse reads the request form. A request that is not multipart is not an
// error; its file part is simply absent.
func (u imageUploader) parse(w http.ResponseWriter, r *http.Request) error {
	if u.constraints.MaxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, u.constraints.MaxSize+multipartMemory)
	}

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	return nil
}

// store saves the "image" part of a parsed form. errNoFile means the
// request carried none.
func (u imageUploader) store(ctx context.Context, r *http.Request) (string, *multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return "", nil, errNoFile
	}
	header := r.MultipartForm.File["image"][0]

	err := validation.ValidateFile(header, u.constraints)
	if err != nil {
		return "", nil, err
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	filename, err := u.files.Upload(ctx, file, header)
	if err != nil {
		return "", nil, err
	}

	return filename, header, nil
}

// cleanup removes temporary files created while parsing the form.
func cleanup(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
