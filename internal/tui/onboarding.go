package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"plania-client/internal/onboarding"
)

type onboardingDoneMsg struct{}

// updateOnboarding maps keys to swipe gestures: page-up style keys release
// past the threshold, anything else snaps back.
func (m Model) updateOnboarding(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if _, done := msg.(onboardingDoneMsg); done {
			m.showOnboarding = false
			m.prepareRoute(m.deps.Nav.Current())
			return m, nil
		}
		return m, nil
	}

	switch key.String() {
	case "up", "enter", "pgup", " ":
		return m, func() tea.Msg {
			before := m.deps.Onboarding.Completed()
			m.deps.Onboarding.Release(m.deps.Ctx, -150)
			if !before && m.deps.Onboarding.Completed() {
				return onboardingDoneMsg{}
			}
			return nil
		}
	case "s":
		return m, func() tea.Msg {
			m.deps.Onboarding.Skip(m.deps.Ctx)
			return onboardingDoneMsg{}
		}
	}
	return m, nil
}

func (m Model) viewOnboarding() string {
	slides := onboarding.Slides()
	step := m.deps.Onboarding.Step()
	slide := slides[step]

	var b strings.Builder
	b.WriteString(titleStyle.Render(slide.Title))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render(slide.Subtitle))
	b.WriteString("\n\n")

	dots := make([]string, len(slides))
	for i := range slides {
		if i == step {
			dots[i] = accentStyle.Render("●")
		} else {
			dots[i] = dimStyle.Render("○")
		}
	}
	b.WriteString(strings.Join(dots, " "))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("Paso %d de %d · ↑ para continuar, s para saltar", step+1, len(slides))))
	return boxStyle.Render(b.String())
}
