package models

// Business is the tenant record returned by the backend. Field names follow
// the wire format, which mixes Spanish and English.
type Business struct {
	ID                     FlexID        `json:"id"`
	Nombre                 string        `json:"nombre,omitempty"`
	Name                   string        `json:"name,omitempty"`
	Correo                 string        `json:"correo,omitempty"`
	Numero                 string        `json:"numero,omitempty"`
	Description            string        `json:"description,omitempty"`
	AvatarURL              string        `json:"avatarUrl,omitempty"`
	BannerURL              string        `json:"bannerUrl,omitempty"`
	IsInitialSetupComplete FlexBool      `json:"isInitialSetupComplete"`
	Staff                  []StaffRecord `json:"staff,omitempty"`
}

// DisplayName prefers the configured name over the registration name.
func (b *Business) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Nombre
}

// StaffRecord is a professional belonging to a business. The backend echoes
// the avatar under either "avatar" or "avatarUrl".
type StaffRecord struct {
	ID        FlexID `json:"id"`
	Avatar    string `json:"avatar,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Nombre    string `json:"nombre,omitempty"`
	Apellido  string `json:"apellido,omitempty"`
	Numero    string `json:"numero,omitempty"`
	Password  string `json:"password,omitempty"`
}

// Image returns whichever avatar field the backend populated.
func (s *StaffRecord) Image() string {
	if s.Avatar != "" {
		return s.Avatar
	}
	return s.AvatarURL
}

// StaffDraft is an in-memory staff entry assembled during business setup,
// before the backend has assigned a durable id. LocalID identifies the draft
// until binding; AvatarURI may still be a local device path.
type StaffDraft struct {
	LocalID   string
	BoundID   FlexID
	AvatarURI string
	Nombre    string
	Apellido  string
	Numero    string
	Password  string
}

// EffectiveID returns the durable id when the draft has been bound, falling
// back to the draft's own id.
func (d *StaffDraft) EffectiveID() string {
	if d.BoundID != "" {
		return d.BoundID.String()
	}
	return d.LocalID
}

// Appointment is an agenda entry shown on the business home screen.
type Appointment struct {
	ID        FlexID `json:"id"`
	Cliente   string `json:"cliente,omitempty"`
	Servicio  string `json:"servicio,omitempty"`
	Fecha     string `json:"fecha,omitempty"`
	Hora      string `json:"hora,omitempty"`
	StaffID   FlexID `json:"staffId,omitempty"`
	StaffName string `json:"staffName,omitempty"`
}
