package api

import (
	"errors"
	"net/http"

	"github.com/garnizeh/techstaff/internal/storage"
	"github.com/garnizeh/techstaff/pkg/apperr"
)

// cvField is the multipart field carrying the file.
const cvField = "file"

type UploadsHandler struct {
	uploader storage.Uploader
	maxBytes int64
}

func NewUploadsHandler(uploader storage.Uploader, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{uploader: uploader, maxBytes: maxBytes}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadCV stores a CV and returns the URL to put in an application's cvUrl.
func (h *UploadsHandler) UploadCV(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		// room for the multipart envelope around the file
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)
	}
	f, hdr, err := r.FormFile(cvField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, apperr.Validation("file too large"))
			return
		}
		writeError(w, r, apperr.Wrap(apperr.KindValidation, "multipart field \"file\" is required", err))
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(r.Context(), hdr.Filename, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, uploadResponse{URL: url}, http.StatusCreated)
}
