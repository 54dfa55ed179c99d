// Package api is the REST client for the Plania backend. Every call carries
// a fixed per-request timeout and is never retried automatically; failures
// map onto the app error taxonomy.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "plania-client/internal/common/errors"
	commonhttp "plania-client/internal/common/http"
	"plania-client/internal/common/logger"
	"plania-client/internal/common/metrics"
	"plania-client/internal/models"
)

// DefaultTimeout matches the backend's expected per-request budget.
const DefaultTimeout = 15 * time.Second

var remoteURLPattern = regexp.MustCompile(`^https?://`)

// IsRemoteURL reports whether s is already a fully-resolved remote URL.
// Remote URLs pass through the upload step untouched.
func IsRemoteURL(s string) bool {
	return remoteURLPattern.MatchString(s)
}

type Client struct {
	baseURL    string
	httpClient *commonhttp.Client
	log        logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: commonhttp.NewClient(timeout),
		log:        log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Login authenticates a business by phone number.
func (c *Client) Login(ctx context.Context, numero, password string) (*models.Business, error) {
	var resp LoginResponse
	err := c.postJSON(ctx, "/login-business", LoginRequest{Numero: numero, Password: password}, &resp, map[int]string{
		400: "Datos de inicio de sesion invalidos",
		401: "Credenciales incorrectas",
		404: "No se encontro el servidor. Verifica la URL.",
		500: "Error interno del servidor",
	})
	if err != nil {
		return nil, err
	}
	if resp.Business == nil {
		return nil, apperrors.NewServerError(http.StatusOK, "Respuesta de login inválida", nil)
	}
	return resp.Business, nil
}

// Register creates a business account. The response carries the business id
// used by verification and setup; registration does not imply login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := c.postJSON(ctx, "/register-business", req, &resp, map[int]string{
		400: "Datos de registro inválidos. Por favor verifica la información.",
		409: "El correo electrónico ya está registrado. Por favor inicia sesión o usa otro correo.",
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify confirms the account with the emailed code.
func (c *Client) Verify(ctx context.Context, businessID, code string) error {
	return c.postJSON(ctx, "/verify-business", VerifyRequest{ID: businessID, Code: code}, nil, map[int]string{
		400: "Código de verificación inválido",
		404: "No se encontró la solicitud de verificación",
		410: "El código ha expirado. Por favor, solicita un nuevo código.",
	})
}

// ResendCode requests a fresh verification code.
func (c *Client) ResendCode(ctx context.Context, businessID string) error {
	return c.postJSON(ctx, "/resend-business", ResendRequest{ID: businessID}, nil, map[int]string{
		404: "No se encontró una solicitud de verificación para este correo.",
	})
}

// ResetPassword asks the backend to mail a reset link. Fire-and-forget.
func (c *Client) ResetPassword(ctx context.Context, correo string) error {
	return c.postJSON(ctx, "/reset-business-password", ResetPasswordRequest{Correo: correo}, nil, nil)
}

// ConfigureBusiness submits the business profile. The payload must carry
// fully-resolved remote URLs, never local device URIs.
func (c *Client) ConfigureBusiness(ctx context.Context, req ConfigureBusinessRequest) (*ConfigureBusinessResponse, error) {
	var resp ConfigureBusinessResponse
	if err := c.postJSON(ctx, "/configure-business", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBusiness fetches the business profile for the home screen.
func (c *Client) GetBusiness(ctx context.Context, businessID int) (*models.Business, error) {
	var resp GetBusinessResponse
	if err := c.getJSON(ctx, "/get-business/"+strconv.Itoa(businessID), &resp); err != nil {
		return nil, err
	}
	return resp.Business, nil
}

// Appointments fetches the agenda for the home screen.
func (c *Client) Appointments(ctx context.Context, businessID int) ([]models.Appointment, error) {
	var resp AppointmentsResponse
	if err := c.getJSON(ctx, "/appointments/"+strconv.Itoa(businessID), &resp); err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

// StaffIDs fetches the authoritative staff ids for draft binding.
func (c *Client) StaffIDs(ctx context.Context, businessID int) ([]models.FlexID, error) {
	var resp StaffIDsResponse
	if err := c.getJSON(ctx, "/get-staff-ids/"+strconv.Itoa(businessID), &resp); err != nil {
		return nil, err
	}
	return resp.StaffIDs, nil
}

// UpdateStaff updates a single staff record. Only the current record is ever
// sent; optional fields are omitted when blank.
func (c *Client) UpdateStaff(ctx context.Context, req UpdateStaffRequest) error {
	return c.doJSON(ctx, http.MethodPut, "/update-staff", req, nil, nil)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out interface{}, overrides map[int]string) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, out, overrides)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out, nil)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out interface{}, overrides map[int]string) error {
	req, err := commonhttp.NewJSONRequest(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return apperrors.NewNetworkError(err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metricPath := metricEndpoint(endpoint)
	metrics.BackendRequestDuration.WithLabelValues(metricPath).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(metricPath, "transport_error").Inc()
		return c.transportError(endpoint, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(metricPath, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorBody
		_ = json.Unmarshal(raw, &envelope)
		c.log.Warn("backend rejected request", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		})
		return apperrors.NewServerError(resp.StatusCode, envelope.text(), overrides)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.NewServerError(resp.StatusCode, "", map[int]string{
				resp.StatusCode: "Respuesta del servidor inválida",
			})
		}
	}
	return nil
}

func (c *Client) transportError(endpoint string, err error) error {
	c.log.Warn("request transport failure", map[string]interface{}{
		"endpoint": endpoint,
		"error":    err.Error(),
	})
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewTimeoutError(endpoint)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(endpoint)
	}
	return apperrors.NewNetworkError(err)
}

// metricEndpoint strips trailing path ids so label cardinality stays bounded.
func metricEndpoint(endpoint string) string {
	if i := strings.LastIndexByte(endpoint, '/'); i > 0 {
		if _, err := strconv.Atoi(endpoint[i+1:]); err == nil {
			return endpoint[:i]
		}
	}
	return endpoint
}
