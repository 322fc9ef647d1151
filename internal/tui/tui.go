// Package tui plays a hot-seat game in the terminal.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/gdamore/tcell/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/rivo/tview"
)

type App struct {
	app      *tview.Application
	table    *tview.Table
	status   *tview.TextView
	game     *model.Game
	savePath string
	message  string
}

func New(game *model.Game, savePath string) *App {
	a := &App{
		app:      tview.NewApplication(),
		table:    tview.NewTable(),
		status:   tview.NewTextView().SetDynamicColors(true),
		game:     game,
		savePath: savePath,
	}

	a.table.SetSelectable(true, true).
		SetSelectedFunc(a.click).
		SetInputCapture(a.handleKey)

	buttons := tview.NewFlex().
		AddItem(tview.NewButton("Undo ^Z").SetSelectedFunc(a.undo), 0, 1, false).
		AddItem(tview.NewButton("Redo ^Y").SetSelectedFunc(a.redo), 0, 1, false).
		AddItem(tview.NewButton("Save ^S").SetSelectedFunc(a.save), 0, 1, false).
		AddItem(tview.NewButton("Load ^O").SetSelectedFunc(a.load), 0, 1, false).
		AddItem(tview.NewButton("Quit ^Q").SetSelectedFunc(a.app.Stop), 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.table, model.Rows, 0, true).
		AddItem(a.status, 2, 0, false).
		AddItem(buttons, 1, 0, false)
	root.SetBorder(true).SetTitle(fmt.Sprintf(" draughts: %s ", game.Name))

	a.app.SetRoot(root, true).EnableMouse(true)
	return a
}

func (a *App) Run() error {
	a.redraw()
	return a.app.Run()
}

// handleKey binds the actions to Ctrl chords; plain keys stay with the table
// so h, j, k and l keep moving the cursor.
func (a *App) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyCtrlZ:
		a.undo()
	case tcell.KeyCtrlY:
		a.redo()
	case tcell.KeyCtrlS:
		a.save()
	case tcell.KeyCtrlO:
		a.load()
	case tcell.KeyCtrlQ:
		a.app.Stop()
	default:
		return ev
	}
	return nil
}

func (a *App) click(row, col int) {
	moved, err := a.game.Select(row, col)
	switch {
	case err != nil:
		a.message = err.Error()
	case moved:
		a.message = ""
	default:
		a.message = "choose a destination"
	}
	a.redraw()
}

func (a *App) undo() {
	a.message = errText(a.game.Undo(), "undone")
	a.redraw()
}

func (a *App) redo() {
	a.message = errText(a.game.Redo(), "redone")
	a.redraw()
}

func (a *App) save() {
	blob, err := a.game.Save()
	if err == nil {
		err = os.WriteFile(a.savePath, blob, 0o644)
	}
	if err != nil {
		log.Errorf("save %s: %v", a.savePath, err)
	}
	a.message = errText(err, "saved to "+a.savePath)
	a.redraw()
}

func (a *App) load() {
	blob, err := os.ReadFile(a.savePath)
	if errors.Is(err, os.ErrNotExist) {
		a.message = "no saved game at " + a.savePath
		a.redraw()
		return
	}
	if err == nil {
		err = a.game.Load(blob)
	}
	if err != nil {
		log.Errorf("load %s: %v", a.savePath, err)
	}
	a.message = errText(err, "loaded "+a.savePath)
	a.redraw()
}

func (a *App) redraw() {
	state := a.game.State()
	targets := make(map[model.Position]bool, len(state.ValidMoves))
	for _, opt := range state.ValidMoves {
		targets[opt.To] = true
	}
	for row := 0; row < model.Rows; row++ {
		for col := 0; col < model.Cols; col++ {
			pos := model.Position{Row: row, Col: col}
			piece := state.Board[row][col]
			fg, bg := cellColors(pos, piece, state.Selected, targets[pos])
			a.table.SetCell(row, col, tview.NewTableCell(cellText(piece)).
				SetTextColor(fg).
				SetBackgroundColor(bg).
				SetAlign(tview.AlignCenter))
		}
	}
	a.status.SetText(statusLine(state, a.message))
}

func cellText(p *model.Piece) string {
	switch {
	case p == nil:
		return "   "
	case p.IsKing():
		return " K "
	default:
		return " o "
	}
}

func cellColors(pos model.Position, p *model.Piece, selected *model.Position, target bool) (fg, bg tcell.Color) {
	fg = tcell.ColorWhite
	if p != nil && p.Color == model.Red {
		fg = tcell.ColorRed
	}
	switch {
	case selected != nil && *selected == pos:
		bg = tcell.ColorYellow
	case target:
		bg = tcell.ColorGreen
	case pos.Dark():
		bg = tcell.ColorGray
	default:
		bg = tcell.ColorSilver
	}
	return fg, bg
}

func statusLine(state model.GameState, message string) string {
	var sb strings.Builder
	if state.Winner != nil {
		fmt.Fprintf(&sb, "[yellow]%s wins![-]", *state.Winner)
	} else {
		fmt.Fprintf(&sb, "%s to move", state.Turn)
	}
	fmt.Fprintf(&sb, "  red %d  white %d", state.Counts.Red, state.Counts.White)
	if message != "" {
		sb.WriteString("\n" + message)
	}
	return sb.String()
}

func errText(err error, ok string) string {
	if err != nil {
		return err.Error()
	}
	return ok
}
