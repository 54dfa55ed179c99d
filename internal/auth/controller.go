// Package auth orchestrates login, registration, verification and password
// reset against the backend, and owns the session state the router reads.
package auth

import (
	"context"
	"strings"
	"sync"

	"plania-client/internal/api"
	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/common/logger"
	"plania-client/internal/common/metrics"
	"plania-client/internal/common/validation"
	"plania-client/internal/models"
)

// State is the controller's coarse flow state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is the immutable view handed to subscribers.
//
// Session.IsAuthenticated is true only when a user is logged in AND initial
// setup is complete: the router switches to the Main root on that flag, and a
// login with pending setup must stay inside the auth stack to reach the
// wizard. The session itself is persisted in both cases.
type Snapshot struct {
	State   State
	Session models.Session
	Message string
}

// Destination tells the caller where the flow goes after an operation.
type Destination string

const (
	DestMainApp        Destination = "MainApp"
	DestBusinessConfig Destination = "BusinessConfig"
	DestLogin          Destination = "Login"
)

// BusinessConfigParams are the navigation parameters for the setup wizard.
type BusinessConfigParams struct {
	BusinessID string
	Email      string
	Phone      string
	UserID     string
}

// LoginResult is the routing decision after a successful login.
type LoginResult struct {
	Dest   Destination
	Config *BusinessConfigParams
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Nombre          string
	Correo          string
	Numero          string
	Password        string
	ConfirmPassword string
	Terms           bool
}

// RegisterResult is the routing decision after registration. SuggestLogin is
// set when the account already exists; that path is not a hard failure.
type RegisterResult struct {
	Dest         Destination
	Config       *BusinessConfigParams
	SuggestLogin bool
	Message      string
}

type Controller struct {
	api   *api.Client
	store SessionStore
	log   logger.Logger

	mu          sync.Mutex
	snapshot    Snapshot
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// SessionStore is the persistence surface the controller needs.
type SessionStore interface {
	Load(ctx context.Context) models.Session
	Save(ctx context.Context, user *models.User, token string) error
	Clear(ctx context.Context) error
}

func NewController(apiClient *api.Client, store SessionStore, log logger.Logger) *Controller {
	return &Controller{
		api:         apiClient,
		store:       store,
		log:         log.WithFields(map[string]interface{}{"component": "auth"}),
		snapshot:    Snapshot{State: StateIdle, Session: models.Session{Loading: true}},
		subscribers: map[int]func(Snapshot){},
	}
}

// Restore loads the persisted session at startup.
func (c *Controller) Restore(ctx context.Context) Snapshot {
	sess := c.store.Load(ctx)
	state := StateIdle
	if sess.User != nil {
		// Only a completed setup reaches the Main root.
		sess.IsAuthenticated = sess.User.IsInitialSetupComplete.Bool()
		if sess.IsAuthenticated {
			state = StateAuthenticated
		}
	}
	c.update(Snapshot{State: state, Session: sess})
	return c.Current()
}

// Current returns the latest snapshot.
func (c *Controller) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Subscribe registers a listener called on every state change. The returned
// function unsubscribes.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Controller) update(next Snapshot) {
	c.mu.Lock()
	c.snapshot = next
	listeners := make([]func(Snapshot), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	metrics.FlowTransitionsTotal.WithLabelValues("auth", next.State.String()).Inc()
	for _, fn := range listeners {
		fn(next)
	}
}

var loginSchema = validation.Schema{
	Fields: map[string]validation.Field{
		"numero":   {Pattern: &validation.PhonePattern},
		"password": {},
	},
	Required: []string{"numero", "password"},
}

// Login authenticates by phone and password. On success the session is
// persisted and the result says whether to enter the Main root or the setup
// wizard.
func (c *Controller) Login(ctx context.Context, numero, password string) (*LoginResult, error) {
	numero = normalizePhone(numero)
	if result := validation.Validate(map[string]string{"numero": numero, "password": password}, loginSchema); !result.Valid {
		err := apperrors.NewValidationError(result.Errors[0].Field, "El telefono debe contener al menos 10 digitos")
		if result.Errors[0].Field == "password" {
			err = apperrors.NewValidationError("password", "Por favor ingresa la contraseña")
		}
		c.fail(err)
		return nil, err
	}

	c.update(Snapshot{State: StateLoading, Session: c.Current().Session})

	business, err := c.api.Login(ctx, numero, password)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	user := &models.User{
		ID:                     business.ID,
		Email:                  business.Correo,
		Phone:                  business.Numero,
		Name:                   business.DisplayName(),
		BusinessID:             business.ID,
		IsInitialSetupComplete: business.IsInitialSetupComplete,
	}
	if err := c.store.Save(ctx, user, user.Token); err != nil {
		// Persistence failure falls back to an unauthenticated default;
		// the login itself still succeeded.
		c.log.Warn("failed to persist session", map[string]interface{}{"error": err.Error()})
	}

	if user.IsInitialSetupComplete.Bool() {
		c.update(Snapshot{
			State:   StateAuthenticated,
			Session: models.Session{IsAuthenticated: true, User: user},
		})
		return &LoginResult{Dest: DestMainApp}, nil
	}

	// Setup pending: stay in the auth stack so the wizard is reachable.
	c.update(Snapshot{State: StateIdle, Session: models.Session{User: user}})
	return &LoginResult{
		Dest: DestBusinessConfig,
		Config: &BusinessConfigParams{
			BusinessID: business.ID.String(),
			Email:      business.Correo,
			Phone:      business.Numero,
		},
	}, nil
}

var registerSchema = validation.Schema{
	Fields: map[string]validation.Field{
		"nombre": {},
		"correo": {Pattern: &validation.EmailPattern},
		"numero": {Pattern: &validation.PhonePattern},
	},
	Required: []string{"nombre", "correo", "numero", "password"},
}

// Register creates an account. Success routes to the setup wizard carrying
// the new business id; registration never authenticates by itself.
func (c *Controller) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if !input.Terms {
		err := apperrors.NewValidationError("terms", "Debes aceptar los términos y condiciones para continuar")
		c.fail(err)
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		err := apperrors.NewValidationError("password", "Las contraseñas no coinciden")
		c.fail(err)
		return nil, err
	}
	numero := normalizePhone(input.Numero)
	correo := strings.ToLower(strings.TrimSpace(input.Correo))
	fields := map[string]string{
		"nombre":   strings.TrimSpace(input.Nombre),
		"correo":   correo,
		"numero":   numero,
		"password": input.Password,
	}
	if result := validation.Validate(fields, registerSchema); !result.Valid {
		err := apperrors.NewValidationError(result.Errors[0].Field, "Datos de registro inválidos. Por favor verifica la información.")
		c.fail(err)
		return nil, err
	}

	c.update(Snapshot{State: StateLoading, Session: c.Current().Session})

	resp, err := c.api.Register(ctx, api.RegisterRequest{
		Nombre:   fields["nombre"],
		Correo:   correo,
		Numero:   numero,
		Password: input.Password,
		Terms:    input.Terms,
	})
	if err != nil {
		if dup, msg := isDuplicateAccount(err); dup {
			c.update(Snapshot{State: StateIdle, Session: c.Current().Session, Message: msg})
			return &RegisterResult{Dest: DestLogin, SuggestLogin: true, Message: msg}, nil
		}
		c.fail(err)
		return nil, err
	}

	if resp.Business == nil || !resp.Business.ID.Valid() {
		err := apperrors.NewServerError(200, "Respuesta de registro inválida", nil)
		c.fail(err)
		return nil, err
	}

	if resp.Token != "" {
		c.log.Debug("registration returned a token; authentication still requires login", nil)
	}

	c.update(Snapshot{State: StateIdle, Session: c.Current().Session})
	return &RegisterResult{
		Dest: DestBusinessConfig,
		Config: &BusinessConfigParams{
			BusinessID: resp.Business.ID.String(),
			Email:      correo,
			Phone:      numero,
			UserID:     resp.ResolveUserID().String(),
		},
	}, nil
}

var codeSchema = validation.Schema{
	Fields:   map[string]validation.Field{"code": {Pattern: &validation.CodePattern}},
	Required: []string{"code"},
}

// Verify confirms the account with the emailed 6-digit code. Success routes
// back to Login.
func (c *Controller) Verify(ctx context.Context, businessID, code string) error {
	if result := validation.Validate(map[string]string{"code": code}, codeSchema); !result.Valid {
		err := apperrors.NewValidationError("code", "Por favor ingresa el código de verificación completo")
		c.fail(err)
		return err
	}
	if err := c.api.Verify(ctx, businessID, code); err != nil {
		c.fail(err)
		return err
	}
	c.update(Snapshot{State: StateIdle, Session: c.Current().Session, Message: "Tu cuenta ha sido verificada correctamente. Por favor inicia sesión."})
	return nil
}

// ResendCode requests a new verification code for the business.
func (c *Controller) ResendCode(ctx context.Context, businessID string) error {
	if businessID == "" {
		err := apperrors.NewMissingBusinessIDError(businessID)
		c.fail(err)
		return err
	}
	if err := c.api.ResendCode(ctx, businessID); err != nil {
		c.fail(err)
		return err
	}
	c.update(Snapshot{State: StateIdle, Session: c.Current().Session, Message: "Hemos enviado un nuevo código de verificación a tu correo electrónico."})
	return nil
}

// Logout clears the persisted session. The storage error, if any, is
// surfaced so the caller may retry; state only flips once clearing worked.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		c.fail(err)
		return err
	}
	c.update(Snapshot{State: StateIdle, Session: models.Session{}})
	return nil
}

var resetSchema = validation.Schema{
	Fields:   map[string]validation.Field{"correo": {Pattern: &validation.EmailPattern}},
	Required: []string{"correo"},
}

// ResetPassword fires the reset request. Only a transient message results;
// the flow state is untouched.
func (c *Controller) ResetPassword(ctx context.Context, correo string) (string, error) {
	correo = strings.TrimSpace(correo)
	if result := validation.Validate(map[string]string{"correo": correo}, resetSchema); !result.Valid {
		return "", apperrors.NewValidationError("correo", "Ingresa un correo electrónico válido")
	}
	if err := c.api.ResetPassword(ctx, correo); err != nil {
		return "", err
	}
	return "Password reset email sent successfully. Please check your email.", nil
}

func (c *Controller) fail(err error) {
	c.update(Snapshot{
		State:   StateError,
		Session: c.Current().Session,
		Message: apperrors.UserMessage(err),
	})
}

func isDuplicateAccount(err error) (bool, string) {
	app, ok := apperrors.As(err)
	if !ok || app.Kind != apperrors.KindServer {
		return false, ""
	}
	if app.Status == 409 {
		return true, app.Message
	}
	if app.Status == 400 && strings.Contains(strings.ToLower(app.Message), "existente") {
		return true, app.Message
	}
	return false, ""
}

// normalizePhone strips everything that is not a digit.
func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
