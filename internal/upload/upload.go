// Package upload sends product and material images to POST /upload. When
// the endpoint is missing or failing, the image is kept as a local,
// ephemeral preview instead, so the surrounding form can still be saved.
package upload

import (
	"context"
	"net/http"
	"strings"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/notice"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("upload")

const (
	// Path is the backend upload endpoint.
	Path = "/upload"

	fallbackNoticeKey = "upload-fallback"
	// MsgFallback is shown once per process when uploads fall back to previews.
	MsgFallback = "Image upload is unavailable; showing a local preview that will not be stored"
)

// OnceNotifier posts a notice the first time a key is seen.
type OnceNotifier interface {
	Once(key string, level notice.Level, msg string) bool
}

// Preview is an image held locally after a failed upload.
type Preview struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Result is where the uploaded image can be read from.
type Result struct {
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// Uploader uploads files, falling back to local previews.
type Uploader struct {
	api         port.Requester
	previews    port.Cache[Preview]
	previewBase string
	notifier    OnceNotifier
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// New creates an uploader. previewBase is the URL prefix the shell serves
// previews under; the preview ID is appended to it.
func New(api port.Requester, previews port.Cache[Preview], previewBase string, notifier OnceNotifier, metrics *observability.Metrics, logger *zap.Logger) *Uploader {
	return &Uploader{
		api:         api,
		previews:    previews,
		previewBase: strings.TrimRight(previewBase, "/") + "/",
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Upload sends file as the single "file" field. Only an empty file is an
// error; every backend failure yields a preview URL instead.
func (u *Uploader) Upload(ctx context.Context, file client.Multipart) (Result, error) {
	ctx, span := tracer.Start(ctx, "Uploader.Upload")
	defer span.End()
	span.SetAttributes(
		attribute.String("file.name", file.FileName),
		attribute.Int("file.size", len(file.Content)),
	)

	if len(file.Content) == 0 {
		return Result{}, domain.NewValidation("file", "choose a file to upload")
	}
	file.FieldName = "file"

	env, err := u.api.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   Path,
		Body:   &file,
	})
	if err == nil {
		res, decErr := client.DecodeData[domain.UploadResult](env)
		if decErr == nil {
			if url := firstNonEmpty(res.URL, res.Path); url != "" {
				return Result{URL: url}, nil
			}
		}
		err = decErr
	}

	span.SetAttributes(attribute.Bool("upload.preview", true))
	return u.fallback(file, err), nil
}

// Preview returns the locally held image with id.
func (u *Uploader) Preview(id string) (Preview, bool) {
	return u.previews.Get(id)
}

func (u *Uploader) fallback(file client.Multipart, cause error) Result {
	id := uuid.New().String()
	u.previews.Set(id, Preview{
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Content:     file.Content,
	})
	u.metrics.IncrUploadFallback()

	u.logger.Warn("upload unavailable, keeping local preview",
		zap.String("file", file.FileName),
		zap.String("preview_id", id),
		zap.Error(cause),
	)
	u.notifier.Once(fallbackNoticeKey, notice.LevelWarn, MsgFallback)

	return Result{URL: u.previewBase + id, Preview: true}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
