package render

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rclaunch/internal/state"
	textutil "github.com/kk-code-lab/rclaunch/internal/textutil"
)

// queueColumnWidth is the width of the queue position column, separator included.
const queueColumnWidth = 4

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI from the view model
func (r *Renderer) Render(vm statepkg.ViewModel) {
	r.screen.Clear()

	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	r.drawHeader(vm, w)
	listHeight := h - statepkg.ListChromeLines
	if listHeight > 0 {
		r.drawFileList(vm, w, listHeight)
	}
	if h > 1 {
		r.drawStatusLine(vm, w, h)
	}
	if vm.Running {
		r.drawRunningOverlay(vm, w, h)
	}

	r.screen.Show()
}

// drawHeader renders the top bar with the location title
func (r *Renderer) drawHeader(vm statepkg.ViewModel, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg).Bold(true)

	title := textutil.SanitizeTerminalText(vm.Title)
	title = r.truncateLeft(" "+title, w)
	endX := r.drawTextLine(0, 0, w, title, headerStyle)
	r.fillLine(endX, w, 0, headerStyle)
}

// drawFileList renders the visible window of the listing
func (r *Renderer) drawFileList(vm statepkg.ViewModel, w, listHeight int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	listStartY := 1

	panelWidth := w
	showScrollbar := len(vm.Entries) > listHeight && w > 1
	if showScrollbar {
		panelWidth--
	}

	endIndex := vm.FirstLine + listHeight
	if endIndex > len(vm.Entries) {
		endIndex = len(vm.Entries)
	}

	y := listStartY
	for idx := vm.FirstLine; idx >= 0 && idx < endIndex; idx++ {
		entry := vm.Entries[idx]
		isSelected := idx == vm.Selection

		var rowStyle tcell.Style
		switch {
		case isSelected:
			rowStyle = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		case entry.IsDir:
			rowStyle = baseStyle.Foreground(r.theme.DirectoryFg)
		default:
			rowStyle = baseStyle.Foreground(r.theme.FileFg)
		}

		marker := ""
		if entry.QueuePosition > 0 {
			marker = strconv.Itoa(entry.QueuePosition)
		}
		markerStyle := rowStyle
		if !isSelected {
			markerStyle = rowStyle.Foreground(r.theme.QueueFg)
		}
		x := r.drawTextLine(0, y, panelWidth, fmt.Sprintf("%3s ", marker), markerStyle)

		name := textutil.SanitizeTerminalText(entry.Name)
		if entry.IsDir && entry.Name != ".." {
			name += "/"
		}
		name = r.truncateTextToWidth(name, panelWidth-x)
		x = r.drawTextLine(x, y, panelWidth-x, name, rowStyle)
		r.fillLine(x, panelWidth, y, rowStyle)
		y++
	}

	for ; y < listStartY+listHeight; y++ {
		r.fillLine(0, panelWidth, y, baseStyle)
	}

	if showScrollbar {
		r.drawScrollbar(vm, w-1, listStartY, listHeight)
	}
}

// drawScrollbar draws a proportional thumb in column x.
func (r *Renderer) drawScrollbar(vm statepkg.ViewModel, x, startY, height int) {
	total := len(vm.Entries)
	if total <= height || height <= 0 {
		return
	}
	thumbStart, thumbSize := scrollbarThumb(total, height, vm.FirstLine)

	trackStyle := tcell.StyleDefault.Foreground(r.theme.ScrollbarFg)
	for i := 0; i < height; i++ {
		ch := '│'
		if i >= thumbStart && i < thumbStart+thumbSize {
			ch = '█'
		}
		r.screen.SetContent(x, startY+i, ch, nil, trackStyle)
	}
}

func scrollbarThumb(total, height, firstLine int) (start, size int) {
	size = height * height / total
	if size < 1 {
		size = 1
	}
	maxFirst := total - height
	if firstLine > maxFirst {
		firstLine = maxFirst
	}
	if firstLine < 0 {
		firstLine = 0
	}
	start = firstLine * (height - size) / maxFirst
	return start, size
}

// drawStatusLine renders the bottom line: error or key hints, and position
func (r *Renderer) drawStatusLine(vm statepkg.ViewModel, w, h int) {
	y := h - 1
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	position := ""
	if len(vm.Entries) > 0 {
		position = fmt.Sprintf(" %d/%d ", vm.Selection+1, len(vm.Entries))
	}
	positionWidth := r.measureTextWidth(position)
	if positionWidth > w {
		position = ""
		positionWidth = 0
	}
	leftWidth := w - positionWidth

	text := buildFooterHelpText(vm)
	style := normalStyle
	if vm.Error != "" {
		text = " " + vm.Error
		style = normalStyle.Foreground(r.theme.ErrorFg)
	}
	text = r.truncateTextToWidth(textutil.SanitizeTerminalText(text), leftWidth)

	x := r.drawTextLine(0, y, leftWidth, text, style)
	r.fillLine(x, leftWidth, y, normalStyle)
	r.drawTextLine(leftWidth, y, positionWidth, position, normalStyle)
}

// drawRunningOverlay covers the middle of the list with the running program.
func (r *Renderer) drawRunningOverlay(vm statepkg.ViewModel, w, h int) {
	lines := []string{"Running", vm.RunningLabel}
	if vm.Killable {
		lines = append(lines, "press k to stop")
	}

	boxWidth := 0
	for _, line := range lines {
		if lw := r.measureTextWidth(line); lw > boxWidth {
			boxWidth = lw
		}
	}
	boxWidth += 4
	if boxWidth < 24 {
		boxWidth = 24
	}
	if boxWidth > w {
		boxWidth = w
	}
	boxHeight := len(lines) + 2
	if boxHeight > h {
		boxHeight = h
	}

	startX := (w - boxWidth) / 2
	startY := (h - boxHeight) / 2
	style := tcell.StyleDefault.Background(r.theme.OverlayBg).Foreground(r.theme.OverlayFg)

	for row := 0; row < boxHeight; row++ {
		r.fillLine(startX, startX+boxWidth, startY+row, style)
	}
	for i, line := range lines {
		row := startY + 1 + i
		if row >= startY+boxHeight {
			break
		}
		text := r.truncateTextToWidth(textutil.SanitizeTerminalText(line), boxWidth-2)
		offset := (boxWidth - r.measureTextWidth(text)) / 2
		lineStyle := style
		if i == 1 {
			lineStyle = style.Bold(true)
		}
		r.drawTextLine(startX+offset, row, boxWidth-offset, text, lineStyle)
	}
}
