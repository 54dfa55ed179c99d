package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

const failureNotice = `
  Algo salió mal.

  La aplicación encontró un error inesperado y no puede continuar.
  Vuelve a iniciarla; si el problema persiste, contacta a soporte.
`

// Run starts the terminal program. A panic anywhere in the UI is trapped
// here and replaced by a static failure notice; nothing below this boundary
// is allowed to take the process down silently.
func Run(deps Deps) (err error) {
	defer func() {
		if r := recover(); r != nil {
			deps.Log.Error("ui crashed", map[string]interface{}{"panic": fmt.Sprint(r)})
			fmt.Fprint(os.Stderr, failureNotice)
			err = fmt.Errorf("ui failure: %v", r)
		}
	}()

	program := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
