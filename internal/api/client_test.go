package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/common/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, DefaultTimeout, logger.NewTestLogger(t)), server
}

func TestLogin_Success(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"business": {"id": 5, "numero": "3001234567", "isInitialSetupComplete": "1"}}`)
	}))

	business, err := client.Login(context.Background(), "3001234567", "secret")

	require.NoError(t, err)
	assert.Equal(t, "/login-business", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "3001234567", gotBody["numero"])
	assert.Equal(t, "secret", gotBody["password"])
	assert.Equal(t, 5, business.ID.Int())
	assert.True(t, business.IsInitialSetupComplete.Bool())
}

func TestLogin_StatusKeyedMessages(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		message string
	}{
		{401, `{}`, "Credenciales incorrectas"},
		{400, `{}`, "Datos de inicio de sesion invalidos"},
		{500, `{}`, "Error interno del servidor"},
		{401, `{"message": "Cuenta bloqueada"}`, "Cuenta bloqueada"},
		{400, `{"error": "Falta numero"}`, "Falta numero"},
	}

	for _, tt := range tests {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			io.WriteString(w, tt.body)
		}))

		_, err := client.Login(context.Background(), "3001234567", "secret")

		require.Error(t, err)
		app, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindServer, app.Kind)
		assert.Equal(t, tt.status, app.Status)
		assert.Equal(t, tt.message, app.Message)
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on
	client := NewClient(server.URL, DefaultTimeout, logger.NewNoOpLogger())

	_, err := client.Login(context.Background(), "3001234567", "secret")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNetwork))
	assert.Equal(t, "No se pudo conectar con el servidor. Verifica tu conexión a internet.", apperrors.UserMessage(err))
}

func TestLogin_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, 50*time.Millisecond, logger.NewNoOpLogger())

	_, err := client.Login(context.Background(), "3001234567", "secret")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNetwork))
}

func TestRegister_ResolvesUserIDFromAnyLocation(t *testing.T) {
	for _, body := range []string{
		`{"business": {"id": 42}, "user": {"id": 9}}`,
		`{"business": {"id": 42}, "userId": 9}`,
		`{"business": {"id": 42}, "userid": "9"}`,
	} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/register-business", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, body)
		}))

		resp, err := client.Register(context.Background(), RegisterRequest{
			Nombre: "Ana", Correo: "ana@example.com", Numero: "3001234567", Password: "pw", Terms: true,
		})

		require.NoError(t, err)
		assert.Equal(t, 42, resp.Business.ID.Int())
		assert.Equal(t, "9", resp.ResolveUserID().String())
	}
}

func TestVerifyAndResend_Paths(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	}))

	require.NoError(t, client.Verify(context.Background(), "42", "123456"))
	require.NoError(t, client.ResendCode(context.Background(), "42"))

	assert.Equal(t, []string{"/verify-business", "/resend-business"}, paths)
}

func TestVerify_ExpiredCode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))

	err := client.Verify(context.Background(), "42", "123456")

	require.Error(t, err)
	app, _ := apperrors.As(err)
	assert.Equal(t, apperrors.ErrCodeCodeExpired, app.Code)
	assert.Equal(t, "El código ha expirado. Por favor, solicita un nuevo código.", app.Message)
}

func TestConfigureBusiness_StaffEchoLocations(t *testing.T) {
	for _, body := range []string{
		`{"staff": [{"id": 1, "avatar": "https://cdn/a.png"}]}`,
		`{"business": {"staff": [{"id": 1, "avatar": "https://cdn/a.png"}]}}`,
		`{"data": {"staff": [{"id": 1, "avatar": "https://cdn/a.png"}]}}`,
	} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		}))

		resp, err := client.ConfigureBusiness(context.Background(), ConfigureBusinessRequest{ID: 42, BusinessID: "42"})

		require.NoError(t, err)
		staff := resp.EchoedStaff()
		require.Len(t, staff, 1)
		assert.Equal(t, 1, staff[0].ID.Int())
	}
}

func TestGets_PathsAndDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get-business/42":
			io.WriteString(w, `{"business": {"id": 42, "name": "Salon Ana"}}`)
		case "/appointments/42":
			io.WriteString(w, `{"appointments": [{"id": 1, "cliente": "Luis"}]}`)
		case "/get-staff-ids/42":
			io.WriteString(w, `{"staffIds": [7, "8"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	business, err := client.GetBusiness(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Salon Ana", business.DisplayName())

	appointments, err := client.Appointments(ctx, 42)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "Luis", appointments[0].Cliente)

	ids, err := client.StaffIDs(ctx, 42)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "7", ids[0].String())
	assert.Equal(t, "8", ids[1].String())
}

func TestUpdateStaff_OmitsBlankOptionals(t *testing.T) {
	var gotMethod string
	var raw []byte
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ = io.ReadAll(r.Body)
	}))

	err := client.UpdateStaff(context.Background(), UpdateStaffRequest{ID: "7", Password: "pw", Nombre: "Ana"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	body := string(raw)
	assert.Contains(t, body, `"nombre":"Ana"`)
	assert.NotContains(t, body, "apellido")
	assert.NotContains(t, body, "telefono")
}

func TestUploadAvatar_ResolvesAnyURLField(t *testing.T) {
	for _, body := range []string{
		`{"url": "https://cdn.example.com/x.png"}`,
		`{"location": "https://cdn.example.com/x.png"}`,
		`{"secure_url": "https://cdn.example.com/x.png"}`,
	} {
		var gotID, gotBusinessID string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotID = r.FormValue("id")
			gotBusinessID = r.FormValue("businessId")
			_, _, err := r.FormFile("image")
			require.NoError(t, err)
			io.WriteString(w, body)
		}))

		url, err := client.UploadAvatar(context.Background(), strings.NewReader("img-bytes"), "photo.png", 42)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/x.png", url)
		assert.Equal(t, "42", gotID)
		assert.Equal(t, "42", gotBusinessID)
	}
}

func TestUploadAvatar_RejectsNonRemoteResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"url": "file:///tmp/x.png"}`)
	}))

	_, err := client.UploadAvatar(context.Background(), strings.NewReader("img"), "photo.jpg", 42)

	require.Error(t, err)
	app, _ := apperrors.As(err)
	assert.Equal(t, apperrors.ErrCodeUploadInvalid, app.Code)
}

func TestIsRemoteURL(t *testing.T) {
	assert.True(t, IsRemoteURL("https://cdn.example.com/a.png"))
	assert.True(t, IsRemoteURL("http://cdn.example.com/a.png"))
	assert.False(t, IsRemoteURL("file:///var/mobile/a.png"))
	assert.False(t, IsRemoteURL("/var/mobile/a.png"))
	assert.False(t, IsRemoteURL(""))
}
