// Package tui renders the client flows in the terminal: the first-launch
// walkthrough, the auth screens, the business setup wizard and the signed-in
// home. One bubbletea model hosts every screen; the active one follows the
// navigation stack.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"plania-client/internal/api"
	"plania-client/internal/auth"
	"plania-client/internal/common/logger"
	"plania-client/internal/models"
	"plania-client/internal/onboarding"
	"plania-client/internal/router"
	"plania-client/internal/session"
	"plania-client/internal/wizard"
)

// Deps are the flow objects the UI drives.
type Deps struct {
	Ctx        context.Context
	Log        logger.Logger
	API        *api.Client
	Store      *session.Store
	Auth       *auth.Controller
	Onboarding *onboarding.Flow
	Nav        *router.Router
	Config     *wizard.BusinessConfigStep
}

type homeState struct {
	business     *models.Business
	appointments []models.Appointment
	loaded       bool
}

// Model is the root bubbletea model.
type Model struct {
	deps Deps

	showOnboarding bool
	width          int
	height         int
	busy           bool
	notice         string
	errMsg         string
	quitting       bool

	form         form
	wizardParams auth.BusinessConfigParams
	verification models.VerificationContext
	staff        *wizard.StaffSetup
	home         homeState
}

// NewModel builds the UI. The session decides the starting point: the
// walkthrough on first launch, otherwise whichever root the router selected.
func NewModel(deps Deps) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	m := Model{
		deps:           deps,
		showOnboarding: !deps.Store.OnboardingCompleted(deps.Ctx),
	}
	m.prepareRoute(deps.Nav.Current())
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.showOnboarding && m.deps.Nav.Current().Route == router.RouteMainApp {
		return m.loadHomeCmd()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.showOnboarding {
		return m.updateOnboarding(msg)
	}

	switch m.deps.Nav.Current().Route {
	case router.RouteLogin:
		return m.updateLogin(msg)
	case router.RouteRegister:
		return m.updateRegister(msg)
	case router.RouteForgotPassword:
		return m.updateForgotPassword(msg)
	case router.RouteVerificationCode:
		return m.updateVerification(msg)
	case router.RouteBusinessConfig:
		return m.updateBusinessConfig(msg)
	case router.RouteStaffSetup:
		return m.updateStaffSetup(msg)
	case router.RouteBusinessHome, router.RouteMainApp:
		return m.updateHome(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showOnboarding {
		return m.viewOnboarding()
	}
	switch m.deps.Nav.Current().Route {
	case router.RouteLogin:
		return m.viewLogin()
	case router.RouteRegister:
		return m.viewRegister()
	case router.RouteForgotPassword:
		return m.viewForgotPassword()
	case router.RouteVerificationCode:
		return m.viewVerification()
	case router.RouteBusinessConfig:
		return m.viewBusinessConfig()
	case router.RouteStaffSetup:
		return m.viewStaffSetup()
	case router.RouteBusinessHome, router.RouteMainApp:
		return m.viewHome()
	}
	return ""
}

// goTo pushes a route and prepares its screen state.
func (m *Model) goTo(route router.Route, params map[string]string) tea.Cmd {
	if err := m.deps.Nav.Navigate(route, params); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	return m.enterRoute()
}

// resetTo replaces the stack and prepares the new top.
func (m *Model) resetTo(entries ...router.Entry) tea.Cmd {
	if err := m.deps.Nav.Reset(entries...); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	return m.enterRoute()
}

func (m *Model) goBack() tea.Cmd {
	if m.deps.Nav.GoBack() {
		return m.enterRoute()
	}
	return nil
}

func (m *Model) enterRoute() tea.Cmd {
	entry := m.deps.Nav.Current()
	m.prepareRoute(entry)
	if entry.Route == router.RouteBusinessHome || entry.Route == router.RouteMainApp {
		return m.loadHomeCmd()
	}
	return nil
}

// prepareRoute resets per-screen state for the entry about to render.
func (m *Model) prepareRoute(entry router.Entry) {
	m.busy = false
	m.errMsg = ""
	m.notice = ""

	switch entry.Route {
	case router.RouteLogin:
		m.form = newForm("Teléfono", "Contraseña")
		m.form.markSecret(1)
	case router.RouteRegister:
		m.form = newForm("Nombre del negocio", "Correo", "Teléfono", "Contraseña", "Confirmar contraseña")
		m.form.markSecret(3, 4)
	case router.RouteForgotPassword:
		m.form = newForm("Correo")
	case router.RouteVerificationCode:
		m.form = newForm("Código")
		m.verification = models.VerificationContext{
			Email:      entry.Params["email"],
			BusinessID: models.FlexID(entry.Params["businessId"]),
			Phone:      entry.Params["phone"],
		}
	case router.RouteBusinessConfig:
		m.form = newForm("Nombre", "Descripción", "Empleados", "Avatar (URL o archivo)", "Banner (URL o archivo)", "Staff 1 (imagen)", "Staff 2 (imagen)")
		m.wizardParams = paramsFromEntry(entry)
	case router.RouteStaffSetup:
		m.form = newForm("Nombre", "Apellido", "Teléfono", "Contraseña")
		m.form.markSecret(3)
	case router.RouteBusinessHome, router.RouteMainApp:
		m.home = homeState{}
	}
}

func paramsFromEntry(entry router.Entry) auth.BusinessConfigParams {
	return auth.BusinessConfigParams{
		BusinessID: entry.Params["businessId"],
		Email:      entry.Params["email"],
		Phone:      entry.Params["phone"],
		UserID:     entry.Params["userId"],
	}
}

func configParamsMap(p *auth.BusinessConfigParams) map[string]string {
	if p == nil {
		return nil
	}
	return map[string]string{
		"businessId": p.BusinessID,
		"email":      p.Email,
		"phone":      p.Phone,
		"userId":     p.UserID,
	}
}

func (m Model) footer(help string) string {
	var out string
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg) + "\n"
	}
	if m.notice != "" {
		out += "\n" + noticeStyle.Render(m.notice) + "\n"
	}
	if m.busy {
		out += "\n" + dimStyle.Render("Cargando...") + "\n"
	}
	return out + "\n" + helpStyle.Render(help)
}
