package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/vidtube/vidtube-api/internal/services"
)

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger files spill to temp files.
const maxMultipartMemory = 32 << 20 // 32 MiB

// fileFromForm extracts one uploaded file from the multipart form.
// Returns (nil, nil, nil) when the field is absent so optional files
// need no special casing at the call site. The caller must invoke the
// returned close func when done.
func fileFromForm(r *http.Request, field string) (*services.FileUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	return &services.FileUpload{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Content:     file,
	}, func() { file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
