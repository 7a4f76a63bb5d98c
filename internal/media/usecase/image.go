package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cyber-doctor/internal/media"
	"cyber-doctor/internal/model"
)

func (uc *implUseCase) GenerateImage(ctx context.Context, prompt string) (string, error) {
	url, err := uc.zhipu.GenerateImage(ctx, prompt)
	if err != nil {
		uc.l.Errorf(ctx, "media.GenerateImage: %v", err)
		return "", fmt.Errorf("media.GenerateImage: %w", err)
	}
	return url, nil
}

func (uc *implUseCase) DescribeImage(ctx context.Context, input media.DescribeInput) (media.DescribeOutput, error) {
	if len(input.Images) == 0 {
		return media.DescribeOutput{}, media.ErrNoImages
	}

	question := input.Question
	if question == model.EmptyQuestion || strings.TrimSpace(question) == "" {
		question = describeDefault
	}

	refs := make([]string, 0, len(input.Images))
	var shown []string
	for _, img := range input.Images {
		if isRemote(img) {
			refs = append(refs, img)
			shown = append(shown, img)
			continue
		}

		img, err := uc.uploadedFile(img)
		if err != nil {
			uc.l.Warnf(ctx, "media.DescribeImage: rejected image reference: %v", err)
			return media.DescribeOutput{}, fmt.Errorf("media.DescribeImage: %w", err)
		}

		dataURL, err := toDataURL(img)
		if err != nil {
			return media.DescribeOutput{}, fmt.Errorf("media.DescribeImage: %w", err)
		}
		refs = append(refs, dataURL)

		if uc.uploader == nil {
			continue
		}
		public, err := uc.uploader.Upload(ctx, img)
		if err != nil {
			uc.l.Warnf(ctx, "media.DescribeImage: upload %s: %v", filepath.Base(img), err)
			continue
		}
		shown = append(shown, public)
	}

	text, err := uc.zhipu.DescribeImage(ctx, refs, question)
	if err != nil {
		uc.l.Errorf(ctx, "media.DescribeImage: %v", err)
		return media.DescribeOutput{}, fmt.Errorf("media.DescribeImage: %w", err)
	}
	return media.DescribeOutput{Text: text, ImageURLs: shown}, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:image/")
}

// uploadedFile resolves ref, symlinks included, and accepts it only when it
// is a regular file inside the upload directory.
func (uc *implUseCase) uploadedFile(ref string) (string, error) {
	if uc.opts.UploadDir == "" {
		return "", media.ErrInvalidImage
	}
	root, err := filepath.Abs(uc.opts.UploadDir)
	if err != nil {
		return "", media.ErrInvalidImage
	}
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}

	path, err := filepath.Abs(ref)
	if err != nil {
		return "", media.ErrInvalidImage
	}
	path, err = filepath.EvalSymlinks(path)
	if err != nil {
		return "", media.ErrInvalidImage
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", media.ErrInvalidImage
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", media.ErrInvalidImage
	}
	return path, nil
}

func toDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
