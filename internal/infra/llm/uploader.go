package llm

import (
	"context"
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"

	"github.com/cloudwego/eino/schema"
	"github.com/cockroachdb/errors"

	"github.com/osa030/duetgen/internal/domain/track"
)

// MediaHandle is an opaque reference to uploaded media, usable as a content
// part in later model calls.
type MediaHandle struct {
	URL      string
	MIMEType string
	Modality track.Modality
}

func (h *MediaHandle) messagePart() schema.ChatMessagePart {
	switch h.Modality {
	case track.ModalityAudio:
		return schema.ChatMessagePart{
			Type:     schema.ChatMessagePartTypeAudioURL,
			AudioURL: &schema.ChatMessageAudioURL{URL: h.URL, MIMEType: h.MIMEType},
		}
	default:
		return schema.ChatMessagePart{
			Type:     schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{URL: h.URL, MIMEType: h.MIMEType},
		}
	}
}

// Uploader turns a local media file into a handle usable in model calls.
type Uploader interface {
	Upload(ctx context.Context, path string, modality track.Modality) (*MediaHandle, error)
}

// DataURLUploader inlines file content as a base64 data URL. Works with any
// OpenAI-compatible backend that accepts data URLs for media parts.
type DataURLUploader struct{}

// Upload reads the file and encodes it as a data URL handle.
func (DataURLUploader) Upload(ctx context.Context, path string, modality track.Modality) (*MediaHandle, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(ErrTimeout, "upload")
		}
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read media file %s", path)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		switch modality {
		case track.ModalityAudio:
			mimeType = "audio/mpeg"
		default:
			mimeType = "image/jpeg"
		}
	}

	return &MediaHandle{
		URL:      "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
		Modality: modality,
	}, nil
}
