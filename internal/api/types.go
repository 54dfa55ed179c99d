package api

import "plania-client/internal/models"

// Request and response bodies follow the backend wire format, which mixes
// Spanish and English field names.

type LoginRequest struct {
	Numero   string `json:"numero"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Business *models.Business `json:"business"`
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Correo   string `json:"correo"`
	Numero   string `json:"numero"`
	Password string `json:"password"`
	Terms    bool   `json:"terms"`
}

// RegisterResponse tolerates the several places the backend has put the user
// id over time.
type RegisterResponse struct {
	Business *models.Business `json:"business"`
	Token    string           `json:"token"`
	User     *struct {
		ID models.FlexID `json:"id"`
	} `json:"user"`
	UserID    models.FlexID `json:"userId"`
	UserIDAlt models.FlexID `json:"userid"`
}

// ResolveUserID returns the echoed user id, trying each known location.
func (r *RegisterResponse) ResolveUserID() models.FlexID {
	if r.User != nil && r.User.ID != "" {
		return r.User.ID
	}
	if r.UserID != "" {
		return r.UserID
	}
	return r.UserIDAlt
}

type VerifyRequest struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type ResendRequest struct {
	ID string `json:"id"`
}

type ResetPasswordRequest struct {
	Correo string `json:"correo"`
}

type StaffPayload struct {
	Nombre   string `json:"nombre"`
	Numero   string `json:"numero"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type ConfigureBusinessRequest struct {
	ID          int            `json:"id"`
	BusinessID  string         `json:"businessId"` // alias kept for backend compatibility
	Name        string         `json:"name"`
	Description string         `json:"description"`
	AvatarURL   string         `json:"avatarUrl"`
	BannerURL   string         `json:"bannerUrl"`
	Staff       []StaffPayload `json:"staff"`
}

// ConfigureBusinessResponse tolerates the staff list under "staff",
// "business.staff" or "data.staff".
type ConfigureBusinessResponse struct {
	Staff    []models.StaffRecord `json:"staff"`
	Business *struct {
		Staff []models.StaffRecord `json:"staff"`
	} `json:"business"`
	Data *struct {
		Staff []models.StaffRecord `json:"staff"`
	} `json:"data"`
}

// EchoedStaff returns the staff list from whichever location the backend
// used, or nil.
func (r *ConfigureBusinessResponse) EchoedStaff() []models.StaffRecord {
	if len(r.Staff) > 0 {
		return r.Staff
	}
	if r.Business != nil && len(r.Business.Staff) > 0 {
		return r.Business.Staff
	}
	if r.Data != nil && len(r.Data.Staff) > 0 {
		return r.Data.Staff
	}
	return nil
}

type GetBusinessResponse struct {
	Business *models.Business `json:"business"`
}

type AppointmentsResponse struct {
	Appointments []models.Appointment `json:"appointments"`
}

type StaffIDsResponse struct {
	StaffIDs []models.FlexID `json:"staffIds"`
}

type UpdateStaffRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
	Nombre   string `json:"nombre,omitempty"`
	Apellido string `json:"apellido,omitempty"`
	Telefono string `json:"telefono,omitempty"`
}

// uploadResponse covers the url field names the image host has used.
type uploadResponse struct {
	URL       string `json:"url"`
	Location  string `json:"location"`
	SecureURL string `json:"secure_url"`
}

func (r *uploadResponse) resolvedURL() string {
	if r.URL != "" {
		return r.URL
	}
	if r.Location != "" {
		return r.Location
	}
	return r.SecureURL
}

// errorBody is the backend's error envelope; either field may carry the
// message.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (b *errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Err
}
