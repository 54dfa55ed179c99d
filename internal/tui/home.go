package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/models"
)

type homeLoadedMsg struct {
	business     *models.Business
	appointments []models.Appointment
	err          error
}

type logoutDoneMsg struct{ err error }

// loadHomeCmd fetches the profile and the agenda. Either call failing keeps
// the screen usable with whatever arrived.
func (m Model) loadHomeCmd() tea.Cmd {
	sess := m.deps.Auth.Current().Session
	entry := m.deps.Nav.Current()

	businessID := models.FlexID(entry.Params["businessId"]).Int()
	if businessID == 0 && sess.User != nil {
		businessID = sess.User.BusinessID.Int()
	}
	if businessID == 0 {
		return nil
	}

	return func() tea.Msg {
		business, err := m.deps.API.GetBusiness(m.deps.Ctx, businessID)
		appointments, apptErr := m.deps.API.Appointments(m.deps.Ctx, businessID)
		if err == nil {
			err = apptErr
		}
		return homeLoadedMsg{business: business, appointments: appointments, err: err}
	}
}

func (m Model) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		m.home.loaded = true
		if msg.business != nil {
			m.home.business = msg.business
		}
		m.home.appointments = msg.appointments
		if msg.err != nil {
			// Non-fatal: show the screen with what we have.
			m.errMsg = apperrors.UserMessage(msg.err)
		}
		return m, nil

	case logoutDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		m.deps.Nav.SetAuthenticated(false)
		return m, m.enterRoute()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.home = homeState{}
			return m, m.loadHomeCmd()
		case "ctrl+l":
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, func() tea.Msg {
				return logoutDoneMsg{err: m.deps.Auth.Logout(m.deps.Ctx)}
			}
		}
	}
	return m, nil
}

func (m Model) viewHome() string {
	var b strings.Builder

	name := "Tu negocio"
	if m.home.business != nil && m.home.business.DisplayName() != "" {
		name = m.home.business.DisplayName()
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	if m.home.business != nil && m.home.business.Description != "" {
		b.WriteString(subtitleStyle.Render(m.home.business.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case !m.home.loaded:
		b.WriteString(dimStyle.Render("Cargando tu agenda..."))
		b.WriteString("\n")
	case len(m.home.appointments) == 0:
		b.WriteString(dimStyle.Render("No tienes citas agendadas todavía."))
		b.WriteString("\n")
	default:
		// The next appointment gets top billing.
		next := m.home.appointments[0]
		b.WriteString(accentStyle.Render("Próxima cita"))
		b.WriteString("\n")
		b.WriteString(appointmentLine(next))
		b.WriteString("\n")
		if len(m.home.appointments) > 1 {
			b.WriteString(subtitleStyle.Render("Agenda"))
			b.WriteString("\n")
			for _, appt := range m.home.appointments[1:] {
				b.WriteString(appointmentLine(appt))
			}
		}
	}

	b.WriteString(m.footer("r recargar · Ctrl+L cerrar sesión · Ctrl+C salir"))
	return boxStyle.Render(b.String())
}

func appointmentLine(a models.Appointment) string {
	parts := []string{}
	if a.Fecha != "" || a.Hora != "" {
		parts = append(parts, strings.TrimSpace(a.Fecha+" "+a.Hora))
	}
	if a.Cliente != "" {
		parts = append(parts, a.Cliente)
	}
	if a.Servicio != "" {
		parts = append(parts, dimStyle.Render(a.Servicio))
	}
	if a.StaffName != "" {
		parts = append(parts, dimStyle.Render("con "+a.StaffName))
	}
	if len(parts) == 0 {
		parts = append(parts, dimStyle.Render("cita sin detalle"))
	}
	return "  • " + strings.Join(parts, " · ") + "\n"
}
