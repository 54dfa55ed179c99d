package wizard

import (
	"context"

	"github.com/google/uuid"

	"plania-client/internal/api"
	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/common/logger"
	"plania-client/internal/common/metrics"
	"plania-client/internal/common/validation"
	"plania-client/internal/models"
)

// MaxStaffSlots is how many staff avatars the configuration form offers.
const MaxStaffSlots = 2

// Employee-count bounds accepted by the profile form.
const (
	MinEmployees = 1
	MaxEmployees = 100
)

// Destination tells the caller which screen follows a wizard step.
type Destination string

const (
	DestStaffSetup   Destination = "StaffSetup"
	DestBusinessHome Destination = "BusinessHome"
)

// BusinessConfigForm is the profile configuration input. Image fields accept
// either a remote URL or a local file path; local paths are uploaded and
// replaced before submission.
type BusinessConfigForm struct {
	BusinessID    string
	UserID        string
	Name          string
	Description   string
	EmployeeCount int
	AvatarURI     string
	BannerURI     string
	StaffAvatars  [MaxStaffSlots]string
}

// BusinessConfigOutcome is the routing decision after a successful submit.
// Drafts is non-empty only when Dest is StaffSetup.
type BusinessConfigOutcome struct {
	Dest       Destination
	BusinessID int
	Drafts     []models.StaffDraft
}

// BusinessConfigStep submits the business profile.
type BusinessConfigStep struct {
	api *api.Client
	log logger.Logger
}

func NewBusinessConfigStep(client *api.Client, log logger.Logger) *BusinessConfigStep {
	return &BusinessConfigStep{
		api: client,
		log: log.WithFields(map[string]interface{}{"component": "wizard.config"}),
	}
}

var configSchema = validation.Schema{
	Fields:   map[string]validation.Field{"name": {MaxLength: validation.Ptr(120)}},
	Required: []string{"name"},
}

// Submit validates the form, resolves every image to a remote URL and posts
// the profile. The business id must be a positive integer before anything
// touches the network.
func (s *BusinessConfigStep) Submit(ctx context.Context, form BusinessConfigForm) (*BusinessConfigOutcome, error) {
	businessID := models.FlexID(form.BusinessID).Int()
	if businessID <= 0 {
		return nil, apperrors.NewMissingBusinessIDError(form.BusinessID)
	}

	// userId falls back to the business id when registration never echoed
	// one; an explicitly provided value must still be a positive number.
	if form.UserID != "" && models.FlexID(form.UserID).Int() <= 0 {
		return nil, apperrors.NewValidationError("userId", "No viene un userId válido en los parámetros")
	}

	if result := validation.Validate(map[string]string{"name": form.Name}, configSchema); !result.Valid {
		return nil, apperrors.NewValidationError("name", "Por favor ingresa el nombre de tu negocio")
	}
	if form.EmployeeCount < MinEmployees || form.EmployeeCount > MaxEmployees {
		return nil, apperrors.NewValidationError("employees", "El número de empleados debe estar entre 1 y 100")
	}

	avatarURL, err := s.resolveImage(ctx, form.AvatarURI, businessID)
	if err != nil {
		return nil, err
	}
	bannerURL, err := s.resolveImage(ctx, form.BannerURI, businessID)
	if err != nil {
		return nil, err
	}

	staff := make([]api.StaffPayload, 0, MaxStaffSlots)
	for _, uri := range form.StaffAvatars {
		if uri == "" {
			continue
		}
		url, err := s.resolveImage(ctx, uri, businessID)
		if err != nil {
			return nil, err
		}
		// Names and credentials are collected later, in staff setup.
		staff = append(staff, api.StaffPayload{Avatar: url})
	}

	resp, err := s.api.ConfigureBusiness(ctx, api.ConfigureBusinessRequest{
		ID:          businessID,
		BusinessID:  models.FlexID(form.BusinessID).String(),
		Name:        form.Name,
		Description: form.Description,
		AvatarURL:   avatarURL,
		BannerURL:   bannerURL,
		Staff:       staff,
	})
	if err != nil {
		return nil, err
	}

	drafts := bindEchoedStaff(resp.EchoedStaff())
	if len(drafts) == 0 {
		// No usable staff came back; the business is configured either way.
		metrics.FlowTransitionsTotal.WithLabelValues("wizard", "config_done").Inc()
		return &BusinessConfigOutcome{Dest: DestBusinessHome, BusinessID: businessID}, nil
	}

	metrics.FlowTransitionsTotal.WithLabelValues("wizard", "config_to_staff").Inc()
	return &BusinessConfigOutcome{Dest: DestStaffSetup, BusinessID: businessID, Drafts: drafts}, nil
}

// resolveImage turns a form image value into a remote URL: remote URLs pass
// through untouched, local paths are uploaded first. The submission payload
// never carries a local URI.
func (s *BusinessConfigStep) resolveImage(ctx context.Context, uri string, id int) (string, error) {
	if uri == "" {
		return "", nil
	}
	if api.IsRemoteURL(uri) {
		return uri, nil
	}
	return s.api.UploadAvatarFile(ctx, uri, id)
}

// bindEchoedStaff keeps only echoed entries that carry both a positive
// numeric id and an avatar; anything else cannot be edited in staff setup.
func bindEchoedStaff(records []models.StaffRecord) []models.StaffDraft {
	drafts := make([]models.StaffDraft, 0, len(records))
	for _, r := range records {
		if !r.ID.Valid() || r.Image() == "" {
			continue
		}
		drafts = append(drafts, models.StaffDraft{
			LocalID:   uuid.NewString(),
			BoundID:   r.ID,
			AvatarURI: r.Image(),
			Nombre:    r.Nombre,
			Apellido:  r.Apellido,
			Numero:    r.Numero,
		})
	}
	return drafts
}
