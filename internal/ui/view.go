package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	viewMarginX = 4
	viewMarginY = 1
	linkWidth   = 44
)

// Fixed decoration of the page.
const (
	decoSubtitle = "デジタル・アーカイブ"
	decoAudio    = "オーディオ"
	decoEnd      = "終了"
	decoOpen     = "開く"
	profileID    = "ID: 0x92-F1-AC"
	footerText   = "EST. 2024 / SYSTEM_CORE"
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == phaseLoading {
		return m.splash.View()
	}
	if m.browsing {
		return lipgloss.NewStyle().Margin(viewMarginY, viewMarginX).Render(m.gallery.View())
	}
	v, _ := m.loadedView()
	return v
}

// loadedView renders the page and reports where the player control landed
// on screen so mouse releases can be hit-tested against it.
func (m Model) loadedView() (string, rect) {
	above := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderLinks(),
		"",
		m.renderFooter(),
		"",
	)

	info := m.renderNowPlaying()
	bars := barFrameStyle.Render(renderBars(m.bridge.Levels()))
	control := controlStyle.Render(m.controlGlyph())
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, info, " ", bars, " ", control)

	body := lipgloss.JoinVertical(lipgloss.Left, above, row, "", m.help.View(m.keys))

	r := rect{
		x: viewMarginX + lipgloss.Width(info) + 1 + lipgloss.Width(bars) + 1,
		y: viewMarginY + lipgloss.Height(above) + lipgloss.Height(row) - lipgloss.Height(control),
		w: lipgloss.Width(control),
		h: lipgloss.Height(control),
	}
	return lipgloss.NewStyle().Margin(viewMarginY, viewMarginX).Render(body), r
}

func (m Model) renderHeader() string {
	first, rest, _ := strings.Cut(m.cfg.Name, " ")
	name := firstNameStyle.Render(first)
	if rest != "" {
		name += "\n" + lastNameStyle.Render(rest)
	}
	badge := handleStyle.Render(m.cfg.Handle) + "  " + decoStyle.Render(profileID)

	return lipgloss.JoinVertical(lipgloss.Left,
		decoStyle.Render("── "+decoSubtitle),
		"",
		name,
		"",
		badge,
		"",
		bioStyle.Render(m.cfg.Bio),
	)
}

func (m Model) renderLinks() string {
	items := make([]string, len(m.cfg.Links))
	for i, l := range m.cfg.Links {
		left := linkIndexStyle.Render(fmt.Sprintf("%02d.", i+1)) + "  " + linkLabelStyle.Render(l.Label)
		right := decoStyle.Render(decoOpen + " →")
		gap := max(1, linkWidth-lipgloss.Width(left)-lipgloss.Width(right))
		line := left + strings.Repeat(" ", gap) + right
		items[i] = linkStyle.Render(line + "\n" + linkURLStyle.Render(l.URL))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m Model) renderFooter() string {
	left := footerStyle.Render(footerText)
	right := footerStyle.Render(decoEnd)
	gap := max(1, linkWidth+6-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) audible() bool {
	return m.bridge.IsPlaying() && !m.bridge.IsMuted()
}

func (m Model) renderNowPlaying() string {
	style := quietStyle
	dot := "  "
	if m.audible() {
		style = audibleStyle
		dot = "• "
	}
	name := m.bridge.Current().DisplayName()
	if name == "" {
		name = "NO TRACK"
	}
	return lipgloss.JoinVertical(lipgloss.Right,
		style.Render(decoAudio),
		style.Render(dot+strings.ToUpper(name)),
	)
}

func (m Model) controlGlyph() string {
	switch {
	case m.bridge.IsMuted():
		return "×♪"
	case m.bridge.IsPlaying():
		return "❚❚"
	default:
		return "▶"
	}
}
