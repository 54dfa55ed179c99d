package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"plania-client/internal/auth"
	apperrors "plania-client/internal/common/errors"
	"plania-client/internal/router"
)

type loginDoneMsg struct {
	result *auth.LoginResult
	err    error
}

type registerDoneMsg struct {
	result *auth.RegisterResult
	err    error
}

type verifyDoneMsg struct{ err error }
type resendDoneMsg struct{ err error }

type resetDoneMsg struct {
	notice string
	err    error
}

// --- Login ---

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		switch msg.result.Dest {
		case auth.DestMainApp:
			m.deps.Nav.SetAuthenticated(true)
			return m, m.enterRoute()
		case auth.DestBusinessConfig:
			return m, m.goTo(router.RouteBusinessConfig, configParamsMap(msg.result.Config))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			numero, password := m.form.value(0), m.form.value(1)
			return m, func() tea.Msg {
				result, err := m.deps.Auth.Login(m.deps.Ctx, numero, password)
				return loginDoneMsg{result: result, err: err}
			}
		case "ctrl+r":
			return m, m.goTo(router.RouteRegister, nil)
		case "ctrl+f":
			return m, m.goTo(router.RouteForgotPassword, nil)
		}
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inicia sesión en Plania"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString(m.footer("Enter entrar · Ctrl+R registrarse · Ctrl+F olvidé mi contraseña"))
	return boxStyle.Render(b.String())
}

// --- Register ---

func (m Model) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		if msg.result.SuggestLogin {
			cmd := m.resetTo(router.Entry{Route: router.RouteLogin})
			m.notice = msg.result.Message
			return m, cmd
		}
		return m, m.goTo(router.RouteBusinessConfig, configParamsMap(msg.result.Config))

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			input := auth.RegisterInput{
				Nombre:          m.form.value(0),
				Correo:          m.form.value(1),
				Numero:          m.form.value(2),
				Password:        m.form.value(3),
				ConfirmPassword: m.form.value(4),
				Terms:           true,
			}
			return m, func() tea.Msg {
				result, err := m.deps.Auth.Register(m.deps.Ctx, input)
				return registerDoneMsg{result: result, err: err}
			}
		case "esc":
			return m, m.goBack()
		}
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m Model) viewRegister() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Crea tu cuenta"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Al continuar aceptas los términos y condiciones"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString(m.footer("Enter registrar · Esc volver"))
	return boxStyle.Render(b.String())
}

// --- Forgot password ---

func (m Model) updateForgotPassword(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resetDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		m.notice = msg.notice
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			correo := m.form.value(0)
			return m, func() tea.Msg {
				notice, err := m.deps.Auth.ResetPassword(m.deps.Ctx, correo)
				return resetDoneMsg{notice: notice, err: err}
			}
		case "esc":
			return m, m.goBack()
		}
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m Model) viewForgotPassword() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recupera tu contraseña"))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString(m.footer("Enter enviar · Esc volver"))
	return boxStyle.Render(b.String())
}

// --- Verification code ---

func (m Model) updateVerification(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case verifyDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		// Verified accounts sign in from scratch.
		cmd := m.resetTo(router.Entry{Route: router.RouteLogin})
		m.notice = "Tu cuenta ha sido verificada correctamente. Por favor inicia sesión."
		return m, cmd

	case resendDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = apperrors.UserMessage(msg.err)
			return m, nil
		}
		m.notice = "Hemos enviado un nuevo código de verificación a tu correo electrónico."
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.errMsg = ""
			businessID, code := m.verification.BusinessID.String(), m.form.value(0)
			return m, func() tea.Msg {
				return verifyDoneMsg{err: m.deps.Auth.Verify(m.deps.Ctx, businessID, code)}
			}
		case "ctrl+n":
			if m.busy {
				return m, nil
			}
			m.busy = true
			businessID := m.verification.BusinessID.String()
			return m, func() tea.Msg {
				return resendDoneMsg{err: m.deps.Auth.ResendCode(m.deps.Ctx, businessID)}
			}
		case "esc":
			return m, m.goBack()
		}
		m.form.handleKey(msg)
	}
	return m, nil
}

func (m Model) viewVerification() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Verifica tu cuenta"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Ingresa el código de 6 dígitos enviado a " + m.verification.Email))
	b.WriteString("\n\n")
	b.WriteString(m.form.view())
	b.WriteString(m.footer("Enter verificar · Ctrl+N reenviar código · Esc volver"))
	return boxStyle.Render(b.String())
}
