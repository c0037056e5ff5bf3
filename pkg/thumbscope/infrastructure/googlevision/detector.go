package googlevision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"thumbscope/pkg/common"
	"thumbscope/pkg/thumbscope/domain"
)

const backendName = "google-vision"

const (
	// ConfigKeyCredentialsFile path to a Google service account JSON file.
	// Falls back to the GOOGLE_APPLICATION_CREDENTIALS environment variable.
	ConfigKeyCredentialsFile = "googleCredentialsFile"
	// ConfigKeyAPIKey a plain API key, used when no credentials file is set.
	// Falls back to the GOOGLE_API_KEY environment variable.
	ConfigKeyAPIKey = "googleAPIKey"
	// ConfigKeyMaxResults how many results per detection category to request
	ConfigKeyMaxResults = "googleVisionMaxResults"
)

// Detector implements domain.FeatureDetector on top of the Google Vision API.
// All five detection categories are requested in a single BatchAnnotateImages round trip,
// so the whole call either yields a complete FeatureSet or fails as one unit.
type Detector struct {
	service    *vision.Service
	maxResults int64
}

// NewDetector fails with BackendError{Unauthorized} when no credentials are configured
// at all, matching the contract that adapter construction itself is fallible.
func NewDetector(ctx context.Context, config *common.Config) (*Detector, error) {
	credentialsFile := config.GetStringOrEnv(ConfigKeyCredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	apiKey := config.GetStringOrEnv(ConfigKeyAPIKey, "GOOGLE_API_KEY")
	var opts []option.ClientOption
	switch {
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	default:
		return nil, domain.NewBackendError(backendName, domain.BackendUnauthorized,
			errors.New("no Google credentials configured"))
	}
	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, domain.NewBackendError(backendName, domain.BackendUnauthorized, err)
	}
	return &Detector{
		service:    service,
		maxResults: int64(config.GetIntOrDefault(ConfigKeyMaxResults, 10)),
	}, nil
}

// Detect sends the raw image bytes and converts the backend's response shape into the
// domain FeatureSet. Empty categories stay empty; they are valid results, not errors.
func (d *Detector) Detect(ctx context.Context, image *domain.ImagePayload) (*domain.FeatureSet, error) {
	request := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{Content: base64.StdEncoding.EncodeToString(image.Content())},
				Features: []*vision.Feature{
					{Type: "LABEL_DETECTION", MaxResults: d.maxResults},
					{Type: "TEXT_DETECTION"},
					{Type: "FACE_DETECTION", MaxResults: d.maxResults},
					{Type: "LOGO_DETECTION", MaxResults: d.maxResults},
					{Type: "IMAGE_PROPERTIES"},
				},
			},
		},
	}
	response, err := d.service.Images.Annotate(request).Context(ctx).Do()
	if err != nil {
		return nil, mapError(err)
	}
	if len(response.Responses) == 0 {
		return nil, domain.NewBackendError(backendName, domain.BackendUnavailable,
			errors.New("empty batch response"))
	}
	annotated := response.Responses[0]
	if annotated.Error != nil {
		return nil, mapStatus(annotated.Error)
	}
	return convertResponse(annotated), nil
}

// convertResponse maps the backend's per-category annotations into domain detections:
// only the first text annotation (the full-text block) is kept, and face emotion enums
// become the domain's ordinal likelihood set.
func convertResponse(response *vision.AnnotateImageResponse) *domain.FeatureSet {
	features := &domain.FeatureSet{
		Labels: make([]domain.Label, 0, len(response.LabelAnnotations)),
		Faces:  make([]domain.FaceAttributes, 0, len(response.FaceAnnotations)),
		Logos:  make([]domain.Logo, 0, len(response.LogoAnnotations)),
	}
	for _, label := range response.LabelAnnotations {
		features.Labels = append(features.Labels, domain.Label{
			Name:       label.Description,
			Confidence: label.Score,
		})
	}
	// The first text annotation aggregates the whole recognized text; the rest are
	// per-word sub-annotations which we discard.
	if len(response.TextAnnotations) > 0 {
		features.Text = &domain.TextBlock{Content: response.TextAnnotations[0].Description}
	}
	for _, face := range response.FaceAnnotations {
		features.Faces = append(features.Faces, domain.FaceAttributes{
			Emotions: map[string]domain.Likelihood{
				domain.EmotionJoy:      mapLikelihood(face.JoyLikelihood),
				domain.EmotionSorrow:   mapLikelihood(face.SorrowLikelihood),
				domain.EmotionAnger:    mapLikelihood(face.AngerLikelihood),
				domain.EmotionSurprise: mapLikelihood(face.SurpriseLikelihood),
			},
		})
	}
	for _, logo := range response.LogoAnnotations {
		features.Logos = append(features.Logos, domain.Logo{Name: logo.Description})
	}
	if response.ImagePropertiesAnnotation != nil && response.ImagePropertiesAnnotation.DominantColors != nil {
		colors := response.ImagePropertiesAnnotation.DominantColors.Colors
		features.Colors = make([]domain.DominantColor, 0, len(colors))
		for _, color := range colors {
			converted := domain.DominantColor{
				Score:         color.Score,
				PixelFraction: color.PixelFraction,
			}
			if color.Color != nil {
				converted.Color = domain.RGB{
					Red:   int(color.Color.Red),
					Green: int(color.Color.Green),
					Blue:  int(color.Color.Blue),
				}
			}
			features.Colors = append(features.Colors, converted)
		}
	}
	return features
}

func mapLikelihood(likelihood string) domain.Likelihood {
	mapped := domain.Likelihood(likelihood)
	if !mapped.IsValid() {
		return domain.LikelihoodUnknown
	}
	return mapped
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.NewBackendError(backendName, domain.BackendUnavailable, err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewBackendError(backendName, domain.BackendUnauthorized, err)
		case http.StatusBadRequest:
			return domain.NewBackendError(backendName, domain.BackendInvalidInput, err)
		}
	}
	return domain.NewBackendError(backendName, domain.BackendUnavailable, err)
}

// mapStatus handles per-image errors embedded in an otherwise successful batch response.
// The codes are gRPC canonical codes.
func mapStatus(status *vision.Status) error {
	err := fmt.Errorf("annotation failed: %s (code %d)", status.Message, status.Code)
	switch status.Code {
	case 7, 16: // PERMISSION_DENIED, UNAUTHENTICATED
		return domain.NewBackendError(backendName, domain.BackendUnauthorized, err)
	case 3: // INVALID_ARGUMENT
		return domain.NewBackendError(backendName, domain.BackendInvalidInput, err)
	}
	return domain.NewBackendError(backendName, domain.BackendUnavailable, err)
}
