package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/router"
	"plania-client/internal/wizard"
)

type configDoneMsg struct {
	outcome *wizard.BusinessConfigOutcome
	err     error
}

type staffBoundMsg struct{}

type staffDoneMsg struct {
	outcome *wizard.StaffOutcome
	err     error
}

// --- Business configuration ---

func (m Model) updateBusinessConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case configDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		businessID := strconv.Itoa(msg.outcome.BusinessID)
		if msg.outcome.Dest == wizard.DestStaffSetup {
			m.staff = wizard.NewStaffSetup(m.deps.API, m.deps.Log, msg.outcome.BusinessID, msg.outcome.Drafts)
			staff := m.staff
			cmd := m.goTo(router.RouteStaffSetup, map[string]string{"businessId": businessID})
			return m, tea.Batch(cmd, func() tea.Msg {
				staff.Bind(m.deps.Ctx)
				return staffBoundMsg{}
			})
		}
		// No usable staff to set up; the business is ready.
		return m, m.resetTo(router.Entry{Route: router.RouteBusinessHome, Params: map[string]string{"businessId": businessID}})

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			employees, _ := strconv.Atoi(m.form.value(2))
			form := wizard.BusinessConfigForm{
				BusinessID:    m.wizardParams.BusinessID,
				UserID:        m.wizardParams.UserID,
				Name:          m.form.value(0),
				Description:   m.form.value(1),
				EmployeeCount: employees,
				AvatarURI:     m.form.value(3),
				BannerURI:     m.form.value(4),
				StaffAvatars:  [wizard.MaxStaffSlots]string{m.form.value(5), m.form.value(6)},
			}
			return m, func() tea.Msg {
				outcome, err := m.deps.Config.Submit(m.deps.Ctx, form)
				return configDoneMsg{outcome: outcome, err: err}
			}
		case "ctrl+v":
			return m, m.goTo(router.RouteVerificationCode, map[string]string{
				"email":      m.wizardParams.Email,
				"businessId": m.wizardParams.BusinessID,
				"phone":      m.wizardParams.Phone,
			})
		case "esc":
			return m, m.goBack()
		}
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m Model) viewBusinessConfig() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Configura tu negocio"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Cuéntanos de tu negocio para empezar a agendar"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString(m.footer("Enter guardar · Ctrl+V verificar cuenta · Esc volver"))
	return boxStyle.Render(b.String())
}

// --- Staff setup ---

func (m Model) updateStaffSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.staff == nil {
		return m, m.resetTo(router.Entry{Route: router.RouteBusinessHome})
	}

	switch msg := msg.(type) {
	case staffBoundMsg:
		return m, nil

	case staffDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		if msg.outcome != nil {
			// Finished: the wizard is unreachable from here on.
			m.staff = nil
			return m, m.resetTo(router.Entry{
				Route:  router.RouteBusinessHome,
				Params: map[string]string{"businessId": m.wizardParams.BusinessID},
			})
		}
		m.prepareRoute(m.deps.Nav.Current())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			form := wizard.StaffForm{
				Nombre:   m.form.value(0),
				Apellido: m.form.value(1),
				Numero:   m.form.value(2),
				Password: m.form.value(3),
			}
			staff := m.staff
			return m, func() tea.Msg {
				outcome, err := staff.Submit(m.deps.Ctx, form)
				return staffDoneMsg{outcome: outcome, err: err}
			}
		case "esc":
			if m.staff.Back() {
				m.staff = nil
				return m, m.goBack()
			}
			m.prepareRoute(m.deps.Nav.Current())
			return m, nil
		}
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m Model) viewStaffSetup() string {
	if m.staff == nil {
		return ""
	}
	current, idx, total := m.staff.Current()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Tu equipo: profesional %d de %d", idx+1, total)))
	b.WriteString("\n")
	if current.AvatarURI != "" {
		b.WriteString(subtitleStyle.Render(current.AvatarURI))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.form.view())
	label := "Enter guardar y continuar · Esc anterior"
	if m.staff.IsLast() {
		label = "Enter guardar y terminar · Esc anterior"
	}
	b.WriteString(m.footer(label))
	return boxStyle.Render(b.String())
}
