package usecase

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log/slog"
	"strings"

	"golang.org/x/image/draw"

	"go-profile-builder/internal/domain"
	"go-profile-builder/pkg/apperror"
	"go-profile-builder/pkg/security"

	_ "image/png"
)

type resumeUsecase struct {
	gateway     domain.ProfileGateway
	wizard      domain.WizardUsecase
	maxSize     int64
	maxImageDim int
}

// NewResumeUsecase builds the resume intake usecase. maxSize caps the upload in
// bytes, maxImageDim bounds the long edge of scanned-resume images before they
// are forwarded upstream.
func NewResumeUsecase(gateway domain.ProfileGateway, wizard domain.WizardUsecase, maxSize int64, maxImageDim int) domain.ResumeUsecase {
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	if maxImageDim <= 0 {
		maxImageDim = 2000
	}
	return &resumeUsecase{
		gateway:     gateway,
		wizard:      wizard,
		maxSize:     maxSize,
		maxImageDim: maxImageDim,
	}
}

func (u *resumeUsecase) ParseAndApply(ctx context.Context, userID, filename string, data []byte, detectedMIME string) (*domain.WizardState, *domain.ResumeData, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, nil, err
	}

	if len(data) == 0 {
		return nil, nil, apperror.BadRequest("Resume file is empty")
	}
	if int64(len(data)) > u.maxSize {
		return nil, nil, apperror.BadRequest("Resume file exceeds the maximum allowed size")
	}

	validation := security.ValidateUpload(filename, data, detectedMIME)
	if !validation.Valid {
		return nil, nil, apperror.BadRequest("Invalid resume file: " + validation.Error)
	}

	// Scanned resumes arrive as photos. Downscale before shipping them to
	// the parser to keep upstream payloads small.
	if validation.IsImage {
		compressed, err := compressImage(data, u.maxImageDim, 85)
		if err != nil {
			slog.Warn("Resume image compression failed, using original",
				"user_id", userID, "error", err)
		} else {
			slog.Info("Resume image compressed",
				"user_id", userID,
				"original_bytes", len(data),
				"compressed_bytes", len(compressed))
			data = compressed
			filename = replaceExtension(filename, ".jpg")
		}
	}

	resume, err := u.gateway.ParseResume(ctx, userID, filename, data)
	if err != nil {
		slog.Error("Upstream resume parsing failed", "user_id", userID, "error", err)
		return nil, nil, apperror.Unavailable("Resume parsing is temporarily unavailable, please fill in your details manually")
	}

	state, err := u.wizard.ApplyResume(ctx, userID, resume)
	if err != nil {
		return nil, nil, err
	}

	return state, resume, nil
}

// compressImage downscales an image so its longest edge is at most maxDimension
// and re-encodes it as JPEG.
func compressImage(data []byte, maxDimension, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width >= height && width > maxDimension {
		newWidth = maxDimension
		newHeight = int(float64(height) * float64(maxDimension) / float64(width))
	} else if height > width && height > maxDimension {
		newHeight = maxDimension
		newWidth = int(float64(width) * float64(maxDimension) / float64(height))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func replaceExtension(filename, ext string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[:idx] + ext
	}
	return filename + ext
}
