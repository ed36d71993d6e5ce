package ui

import (
	"fmt"
	"strconv"

	"github.com/kostyay/hogwatch/internal/model"
	"github.com/kostyay/hogwatch/internal/refresh"
	"github.com/kostyay/hogwatch/internal/users"
)

// Screen layout.
const (
	MinWidth = 60

	headerRow    = 0
	processesRow = 1
	footerGap    = 1

	// Columns used by everything except the program name.
	fixedWidth = 53

	userCol    = 6
	programCol = 15
)

const (
	tooNarrowMsg = "The terminal is too narrow! Please make it wider."
	waitMsg      = "I'll wait..."
)

// Renderer draws ranked lines onto a Screen.
type Renderer struct {
	Users users.Resolver

	// MaxProgWidth caps the width used for layout on very wide screens.
	MaxProgWidth int
}

// NewRenderer returns a renderer resolving user names through resolver.
func NewRenderer(resolver users.Resolver, maxProgWidth int) *Renderer {
	if resolver == nil {
		resolver = users.NewCache(nil)
	}
	return &Renderer{Users: resolver, MaxProgWidth: maxProgWidth}
}

// Draw renders one frame and records the totals row in state. When the
// screen is narrower than MinWidth it prints a notice instead, leaves state
// untouched and returns false.
func (r *Renderer) Draw(scr Screen, lines []model.Line, state *model.ViewState) bool {
	cols, _ := scr.Size()
	if cols < MinWidth {
		scr.ClearLine(headerRow)
		scr.Print(headerRow, 0, AttrWarn, tooNarrowMsg)
		scr.Print(headerRow+1, 0, AttrWarn, waitMsg)
		return false
	}
	if r.MaxProgWidth > 0 && cols > r.MaxProgWidth {
		cols = r.MaxProgWidth
	}
	proglen := cols - fixedWidth

	for row := headerRow; row <= state.LastTotalRow; row++ {
		scr.ClearLine(row)
	}

	scr.Print(headerRow, 0, AttrHeader,
		fmt.Sprintf("  PID USER     %-*.*s  DEV        SENT      RECEIVED       ", proglen, proglen, "PROGRAM"))

	unit := fmt.Sprintf("%-6s", state.Mode.Unit())
	for i, l := range lines {
		r.drawLine(scr, processesRow+i, l, proglen, unit)
	}

	sent, recv := refresh.Totals(lines)
	totalRow := processesRow + len(lines) + footerGap
	scr.Print(totalRow, 0, AttrTotal,
		fmt.Sprintf("  TOTAL        %-*.*s        %10.3f  %10.3f ", proglen, proglen, " ", sent, recv))
	scr.Print(totalRow, cols-7, AttrTotal, fmt.Sprintf("%-7s", state.Mode.Unit()))

	state.LastTotalRow = totalRow
	return true
}

func (r *Renderer) drawLine(scr Screen, row int, l model.Line, proglen int, unit string) {
	pid := "?"
	if l.PID != 0 {
		pid = strconv.Itoa(int(l.PID))
	}
	scr.Print(row, 0, AttrNormal, pid)
	scr.Print(row, userCol, AttrNormal, r.Users.Username(l.UID))
	scr.Print(row, programCol, AttrNormal, truncateName(l.Name, proglen))
	scr.Print(row, programCol+proglen+2, AttrNormal, l.Device)
	scr.Print(row, programCol+proglen+8, AttrNormal, fmt.Sprintf("%10.3f", l.Sent))
	scr.Print(row, programCol+proglen+20, AttrNormal, fmt.Sprintf("%10.3f", l.Recv))
	scr.Print(row, programCol+proglen+31, AttrNormal, unit)
}

// truncateName keeps the last width characters of name, marking the cut
// with "..". Names that fit are returned unchanged.
func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	runes = runes[len(runes)-width:]
	for i := 0; i < 2 && i < len(runes); i++ {
		runes[i] = '.'
	}
	return string(runes)
}
