// Package statusview is a live terminal dashboard for the daemon's internal
// state: aggregate agent state, the active mapper profile, and the most
// recent input frame — built with github.com/rivo/tview the same way the
// teacher's debug tooling rendered a device's decoded state as a table.
package statusview

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ds4cc/ds4cc-go/internal/agent"
	"github.com/ds4cc/ds4cc-go/internal/mapper"
	"github.com/ds4cc/ds4cc-go/internal/report"
)

// Snapshot is one rendering of the daemon's observable state.
type Snapshot struct {
	GlobalState agent.State
	Profile     mapper.Profile
	LastInput   report.Input
	HaveInput   bool
	AgentStates map[string]agent.State
}

// View is a live tview table, updated by repeated calls to Update from any
// goroutine.
type View struct {
	app   *tview.Application
	table *tview.Table

	mu       sync.Mutex
	snapshot Snapshot
}

// New builds a View, not yet running.
func New() *View {
	table := tview.NewTable().SetBorders(false)
	table.SetBorder(true).SetTitle(" ds4cc status ").SetTitleAlign(tview.AlignLeft)
	return &View{
		app:   tview.NewApplication(),
		table: table,
	}
}

// Update replaces the displayed snapshot and schedules a redraw.
func (v *View) Update(s Snapshot) {
	v.mu.Lock()
	v.snapshot = s
	v.mu.Unlock()
	v.app.QueueUpdateDraw(func() {
		v.render()
	})
}

// Run blocks until the user quits the view ('q' or Ctrl-C).
func (v *View) Run() error {
	v.app.SetRoot(v.table, true).EnableMouse(true)
	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			v.app.Stop()
			return nil
		}
		return event
	})
	return v.app.Run()
}

// Stop requests the view's event loop to exit.
func (v *View) Stop() {
	v.app.Stop()
}

func (v *View) render() {
	v.mu.Lock()
	snap := v.snapshot
	v.mu.Unlock()

	v.table.Clear()
	row := 0
	setRow := func(label, value string) {
		v.table.SetCell(row, 0, tview.NewTableCell(label).SetAlign(tview.AlignRight))
		v.table.SetCell(row, 1, tview.NewTableCell(value).SetAlign(tview.AlignLeft))
		row++
	}

	setRow("global state", snap.GlobalState.String())
	setRow("profile", snap.Profile.String())

	ids := make([]string, 0, len(snap.AgentStates))
	for id := range snap.AgentStates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		setRow("agent: "+id, snap.AgentStates[id].String())
	}

	if snap.HaveInput {
		reflectFields("input", snap.LastInput, setRow)
	}
}

// reflectFields flattens a struct's exported fields into label/value rows
// via reflection, recursing into nested structs.
func reflectFields(prefix string, v any, setRow func(label, value string)) {
	val := reflect.ValueOf(v)
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		name := typ.Field(i).Name
		field := val.Field(i)
		var value string
		switch field.Kind() {
		case reflect.Bool:
			value = strconv.FormatBool(field.Bool())
		case reflect.Struct:
			reflectFields(prefix+"."+name, field.Interface(), setRow)
			continue
		default:
			value = fmt.Sprintf("%v", field.Interface())
		}
		setRow(prefix+"."+name, value)
	}
}
