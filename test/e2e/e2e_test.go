package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plania-client/internal/api"
	"plania-client/internal/auth"
	"plania-client/internal/common/logger"
	"plania-client/internal/router"
	"plania-client/internal/session"
	"plania-client/internal/wizard"
)

// fakeBackend is an in-memory Plania backend covering the whole journey:
// registration, verification, login, business configuration and staff setup.
type fakeBackend struct {
	mu         sync.Mutex
	businesses map[string]map[string]interface{} // numero -> business
	nextID     int
	staffIDs   []int
	updates    []map[string]interface{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{businesses: map[string]map[string]interface{}{}, nextID: 100}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/register-business", f.register)
	mux.HandleFunc("/verify-business", f.verify)
	mux.HandleFunc("/login-business", f.login)
	mux.HandleFunc("/configure-business", f.configure)
	mux.HandleFunc("/update-staff", f.updateStaff)
	mux.HandleFunc("/get-staff-ids/", f.getStaffIDs)
	mux.HandleFunc("/get-business/", f.getBusiness)
	mux.HandleFunc("/appointments/", f.appointments)
	return mux
}

func (f *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	numero, _ := body["numero"].(string)
	if _, exists := f.businesses[numero]; exists {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "Cuenta existente"})
		return
	}
	f.nextID++
	business := map[string]interface{}{
		"id":                     f.nextID,
		"nombre":                 body["nombre"],
		"correo":                 body["correo"],
		"numero":                 numero,
		"verified":               false,
		"isInitialSetupComplete": 0,
		"password":               body["password"],
	}
	f.businesses[numero] = business

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"business": map[string]interface{}{"id": f.nextID},
		"userId":   f.nextID,
	})
}

func (f *fakeBackend) verify(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	if body["code"] != "123456" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{})
		return
	}
	f.mu.Lock()
	for _, b := range f.businesses {
		b["verified"] = true
	}
	f.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
}

func (f *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	business, ok := f.businesses[body["numero"]]
	if !ok || business["password"] != body["password"] {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"business": business})
}

func (f *fakeBackend) configure(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	staff, _ := body["staff"].([]interface{})
	echoed := make([]map[string]interface{}, 0, len(staff))
	f.staffIDs = f.staffIDs[:0]
	for i, s := range staff {
		entry, _ := s.(map[string]interface{})
		id := 500 + i
		f.staffIDs = append(f.staffIDs, id)
		echoed = append(echoed, map[string]interface{}{"id": id, "avatar": entry["avatar"]})
	}
	for _, b := range f.businesses {
		b["isInitialSetupComplete"] = "true"
		b["name"] = body["name"]
		b["description"] = body["description"]
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"staff": echoed})
}

func (f *fakeBackend) updateStaff(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.updates = append(f.updates, body)
	f.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]string{})
}

func (f *fakeBackend) getStaffIDs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	ids := append([]int(nil), f.staffIDs...)
	f.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]interface{}{"staffIds": ids})
}

func (f *fakeBackend) getBusiness(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.businesses {
		json.NewEncoder(w).Encode(map[string]interface{}{"business": b})
		return
	}
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{})
}

func (f *fakeBackend) appointments(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": []map[string]interface{}{
			{"id": 1, "cliente": "Marta", "servicio": "Corte", "fecha": "2026-09-01", "hora": "10:00"},
			{"id": 2, "cliente": "Luis", "servicio": "Tinte", "fecha": "2026-09-01", "hora": "12:00"},
		},
	})
}

func TestFullJourney_RegisterToBusinessHome(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	log := logger.NewNoOpLogger()
	client := api.NewClient(server.URL, 0, log)
	store := session.NewStore(session.NewFileKV(filepath.Join(t.TempDir(), "session.json")), log)
	controller := auth.NewController(client, store, log)
	nav := router.New()
	controller.Subscribe(func(s auth.Snapshot) { nav.SetAuthenticated(s.Session.IsAuthenticated) })

	ctx := context.Background()

	// Register.
	regResult, err := controller.Register(ctx, auth.RegisterInput{
		Nombre:          "Salon Bella",
		Correo:          "bella@example.com",
		Numero:          "5512345678",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Terms:           true,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.DestBusinessConfig, regResult.Dest)
	assert.False(t, controller.Current().Session.IsAuthenticated, "registration never authenticates")

	// Verify the account.
	require.Error(t, controller.Verify(ctx, regResult.Config.BusinessID, "000000"))
	require.NoError(t, controller.Verify(ctx, regResult.Config.BusinessID, "123456"))

	// Log in; setup is pending, so the flow routes to the wizard.
	loginResult, err := controller.Login(ctx, "5512345678", "secret123")
	require.NoError(t, err)
	assert.Equal(t, auth.DestBusinessConfig, loginResult.Dest)
	assert.Equal(t, router.RouteLogin, nav.Current().Route, "still in the auth stack")

	// Configure the business with two staff avatars.
	configStep := wizard.NewBusinessConfigStep(client, log)
	outcome, err := configStep.Submit(ctx, wizard.BusinessConfigForm{
		BusinessID:    loginResult.Config.BusinessID,
		UserID:        regResult.Config.UserID,
		Name:          "Salon Bella",
		Description:   "Cortes y color",
		EmployeeCount: 2,
		StaffAvatars: [wizard.MaxStaffSlots]string{
			"https://cdn.example.com/a.png",
			"https://cdn.example.com/b.png",
		},
	})
	require.NoError(t, err)
	require.Equal(t, wizard.DestStaffSetup, outcome.Dest)
	require.Len(t, outcome.Drafts, 2)

	// Walk staff setup: bind, then one update per record.
	staff := wizard.NewStaffSetup(client, log, outcome.BusinessID, outcome.Drafts)
	staff.Bind(ctx)

	done, err := staff.Submit(ctx, wizard.StaffForm{Nombre: "Ana", Apellido: "López", Numero: "5511111111", Password: "clave1"})
	require.NoError(t, err)
	assert.Nil(t, done)

	done, err = staff.Submit(ctx, wizard.StaffForm{Nombre: "Berta", Apellido: "Ríos", Numero: "5522222222", Password: "clave2"})
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, wizard.DestBusinessHome, done.Dest)
	assert.True(t, done.Reset)

	require.Len(t, backend.updates, 2)
	assert.Equal(t, "500", backend.updates[0]["id"])
	assert.Equal(t, "501", backend.updates[1]["id"])

	// Second login now lands on the main root.
	loginResult, err = controller.Login(ctx, "5512345678", "secret123")
	require.NoError(t, err)
	assert.Equal(t, auth.DestMainApp, loginResult.Dest)
	assert.Equal(t, router.RouteMainApp, nav.Current().Route)

	// Home screen data.
	business, err := client.GetBusiness(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Salon Bella", business.DisplayName())

	appointments, err := client.Appointments(ctx, 101)
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, "Marta", appointments[0].Cliente)
}

func TestFullJourney_DuplicateRegistrationSuggestsLogin(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	log := logger.NewNoOpLogger()
	client := api.NewClient(server.URL, 0, log)
	store := session.NewStore(session.NewFileKV(filepath.Join(t.TempDir(), "session.json")), log)
	controller := auth.NewController(client, store, log)
	ctx := context.Background()

	input := auth.RegisterInput{
		Nombre:          "Salon Bella",
		Correo:          "bella@example.com",
		Numero:          "5512345678",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Terms:           true,
	}
	_, err := controller.Register(ctx, input)
	require.NoError(t, err)

	result, err := controller.Register(ctx, input)
	require.NoError(t, err)
	assert.True(t, result.SuggestLogin)
	assert.True(t, strings.Contains(strings.ToLower(result.Message), "existente"))
}

func TestSessionSurvivesRestart(t *testing.T) {
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()

	log := logger.NewNoOpLogger()
	client := api.NewClient(server.URL, 0, log)
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	store := session.NewStore(session.NewFileKV(path), log)
	controller := auth.NewController(client, store, log)

	_, err := controller.Register(ctx, auth.RegisterInput{
		Nombre: "Salon Bella", Correo: "bella@example.com", Numero: "5512345678",
		Password: "secret123", ConfirmPassword: "secret123", Terms: true,
	})
	require.NoError(t, err)

	// Mark setup complete on the backend, then log in.
	configStep := wizard.NewBusinessConfigStep(client, log)
	_, err = configStep.Submit(ctx, wizard.BusinessConfigForm{
		BusinessID: "101", Name: "Salon Bella", EmployeeCount: 1,
	})
	require.NoError(t, err)

	_, err = controller.Login(ctx, "5512345678", "secret123")
	require.NoError(t, err)

	// A fresh process restores the authenticated session from disk.
	restarted := auth.NewController(client, session.NewStore(session.NewFileKV(path), log), log)
	snap := restarted.Restore(ctx)
	assert.True(t, snap.Session.IsAuthenticated)
	require.NotNil(t, snap.Session.User)
	assert.True(t, snap.Session.User.IsInitialSetupComplete.Bool())
}
