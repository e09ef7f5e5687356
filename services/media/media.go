// Package media resolves profile photos and welcome videos for therapists
// from Cloudinary, keyed by the therapist's email.
package media

import (
	"context"
	"strings"

	"carematch/config"
	"carematch/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// Enricher fills media URLs on therapist projections.
type Enricher interface {
	// Enrich fills in the photo and welcome video URLs where the roster left
	// them blank. It never fails; missing assets fall back to defaults.
	Enrich(ctx context.Context, t *models.TherapistPublic)
}

// CloudinaryEnricher implements Enricher against a Cloudinary account. Media
// assets are stored under therapists/<email-slug>/photo and
// therapists/<email-slug>/welcome.
type CloudinaryEnricher struct {
	cld          *cloudinary.Cloudinary
	defaultVideo string
}

// NewCloudinaryEnricher builds an enricher from the configured Cloudinary URL.
func NewCloudinaryEnricher() (*CloudinaryEnricher, error) {
	cld, err := cloudinary.NewFromURL(config.AppConfig.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryEnricher{
		cld:          cld,
		defaultVideo: config.AppConfig.DefaultWelcomeVideo,
	}, nil
}

// emailSlug converts an email into the folder key used when assets were
// uploaded.
func emailSlug(email string) string {
	slug := strings.ToLower(strings.TrimSpace(email))
	slug = strings.ReplaceAll(slug, "@", "_at_")
	return strings.ReplaceAll(slug, ".", "_")
}

func (e *CloudinaryEnricher) assetURL(kind, email string, video bool) string {
	publicID := "therapists/" + emailSlug(email) + "/" + kind
	var (
		url string
		err error
	)
	if video {
		asset, aerr := e.cld.Video(publicID)
		if aerr != nil {
			return ""
		}
		url, err = asset.String()
	} else {
		asset, aerr := e.cld.Image(publicID)
		if aerr != nil {
			return ""
		}
		url, err = asset.String()
	}
	if err != nil {
		zap.L().Debug("failed to build media URL", zap.String("publicID", publicID), zap.Error(err))
		return ""
	}
	return url
}

// Enrich fills missing photo and video links and guarantees a welcome video.
func (e *CloudinaryEnricher) Enrich(ctx context.Context, t *models.TherapistPublic) {
	if t.Email == "" {
		if t.WelcomeVideo == "" {
			t.WelcomeVideo = e.defaultVideo
		}
		return
	}

	if t.PhotoURL == "" {
		t.PhotoURL = e.assetURL("photo", t.Email, false)
	}
	if t.WelcomeVideo == "" {
		t.WelcomeVideo = e.assetURL("welcome", t.Email, true)
	}
	if t.WelcomeVideo == "" {
		t.WelcomeVideo = e.defaultVideo
	}
}

// NoopEnricher only applies the default welcome video. Used when Cloudinary
// is not configured.
type NoopEnricher struct {
	DefaultVideo string
}

func (e *NoopEnricher) Enrich(ctx context.Context, t *models.TherapistPublic) {
	if t.WelcomeVideo == "" {
		t.WelcomeVideo = e.DefaultVideo
	}
}
