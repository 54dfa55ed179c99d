package wizard

import (
	"context"
	"sync"

	"plania-client/internal/api"
	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/common/logger"
	"plania-client/internal/common/metrics"
	"plania-client/internal/common/validation"
	"plania-client/internal/models"
)

// StaffForm is the editable portion of the current staff record.
type StaffForm struct {
	Nombre   string
	Apellido string
	Numero   string
	Password string
}

// StaffOutcome is returned when the flow finishes. Reset signals that
// navigation must replace the stack, leaving no way back into the wizard.
type StaffOutcome struct {
	Dest  Destination
	Reset bool
}

// StaffSetup walks the bound staff drafts one by one, sending exactly one
// update per forward transition. Bind runs off the event loop, so the state
// behind mu is shared between it and the screen's reads.
type StaffSetup struct {
	api        *api.Client
	log        logger.Logger
	businessID int

	mu     sync.Mutex
	drafts []models.StaffDraft
	cursor *Cursor
	bound  bool
}

func NewStaffSetup(client *api.Client, log logger.Logger, businessID int, drafts []models.StaffDraft) *StaffSetup {
	return &StaffSetup{
		api:        client,
		log:        log.WithFields(map[string]interface{}{"component": "wizard.staff"}),
		businessID: businessID,
		drafts:     drafts,
		cursor:     NewCursor(len(drafts)),
	}
}

// Bind fetches the durable staff ids and attaches them to the drafts by
// position. A fetch failure or a short list leaves the affected drafts on
// their own ids; binding never blocks the flow.
func (f *StaffSetup) Bind(ctx context.Context) {
	f.mu.Lock()
	if f.bound || len(f.drafts) == 0 {
		f.mu.Unlock()
		return
	}
	f.bound = true
	f.mu.Unlock()

	ids, err := f.api.StaffIDs(ctx, f.businessID)
	if err != nil {
		f.log.Warn("staff id fetch failed, keeping draft ids", map[string]interface{}{"error": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.drafts {
		if i < len(ids) && ids[i].Valid() {
			f.drafts[i].BoundID = ids[i]
		}
	}
}

// Current returns the record under the cursor plus its position.
func (f *StaffSetup) Current() (models.StaffDraft, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.drafts) == 0 {
		return models.StaffDraft{}, 0, 0
	}
	return f.drafts[f.cursor.Index()], f.cursor.Index(), f.cursor.Total()
}

// IsLast reports whether the cursor is on the final record.
func (f *StaffSetup) IsLast() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor.IsLast()
}

var staffSchema = validation.Schema{
	Fields:   map[string]validation.Field{},
	Required: []string{"nombre", "apellido", "numero", "password"},
}

// Submit saves the current record and advances. Every field must be present,
// the draft must resolve to a positive numeric id, and the update call must
// succeed before the cursor moves. Finishing the last record yields the
// BusinessHome outcome with a stack reset.
func (f *StaffSetup) Submit(ctx context.Context, form StaffForm) (*StaffOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.drafts) == 0 {
		return &StaffOutcome{Dest: DestBusinessHome, Reset: true}, nil
	}

	if result := validation.Validate(map[string]string{
		"nombre":   form.Nombre,
		"apellido": form.Apellido,
		"numero":   form.Numero,
		"password": form.Password,
	}, staffSchema); !result.Valid {
		return nil, apperrors.NewValidationError(result.Errors[0].Field, "Completa todos los campos del profesional")
	}

	draft := &f.drafts[f.cursor.Index()]
	id := models.FlexID(draft.EffectiveID())
	if !id.Valid() {
		return nil, apperrors.NewMissingStaffIDError(f.cursor.Index())
	}

	if err := f.api.UpdateStaff(ctx, api.UpdateStaffRequest{
		ID:       id.String(),
		Password: form.Password,
		Nombre:   form.Nombre,
		Apellido: form.Apellido,
		Telefono: form.Numero,
	}); err != nil {
		return nil, err
	}

	draft.Nombre = form.Nombre
	draft.Apellido = form.Apellido
	draft.Numero = form.Numero
	draft.Password = form.Password

	if f.cursor.Next() {
		metrics.FlowTransitionsTotal.WithLabelValues("wizard", "staff_next").Inc()
		return nil, nil
	}

	metrics.FlowTransitionsTotal.WithLabelValues("wizard", "staff_done").Inc()
	return &StaffOutcome{Dest: DestBusinessHome, Reset: true}, nil
}

// Back steps to the previous record without touching the network. It returns
// true when the flow should exit, which happens at the first record.
func (f *StaffSetup) Back() (exit bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.cursor.Back()
}
