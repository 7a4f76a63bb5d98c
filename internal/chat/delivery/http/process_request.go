package http

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cyber-doctor/internal/chat"
)

const (
	defaultMaxBytes = 20 << 20
	filesRoute      = "/files"
	formFiles       = "files"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

// processAskReq binds a JSON or multipart chat request. Uploaded files are
// saved under UploadDir and split into images and attachments. A missing
// session id gets a fresh one.
func (h *handler) processAskReq(c *gin.Context) (askReq, error) {
	var req askReq
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			return req, bindError(err)
		}
		form, err := c.MultipartForm()
		if err != nil {
			return req, bindError(err)
		}
		for _, fh := range form.File[formFiles] {
			if err := h.saveUpload(c, fh, &req); err != nil {
				return req, err
			}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, bindError(err)
		}
		if err := req.checkImageURLs(); err != nil {
			return req, err
		}
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	return req, req.validate()
}

func (h *handler) saveUpload(c *gin.Context, fh *multipart.FileHeader, req *askReq) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(h.cfg.UploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return err
	}

	if isImage(ext, fh.Header.Get("Content-Type")) {
		req.Images = append(req.Images, dst)
		return nil
	}
	req.attachments = append(req.attachments, chat.Attachment{Name: filepath.Base(fh.Filename), Path: dst})
	return nil
}

func isImage(ext, contentType string) bool {
	if imageExts[ext] {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mt, "image/")
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errTooLarge
	}
	return errBadUpload
}
