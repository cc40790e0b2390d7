package views

import (
	"strings"

	"imglab/internal/picker"
	"imglab/internal/presenter"
	"imglab/internal/tui/common"
	"imglab/internal/tui/styles"
	"imglab/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Parts are the rendered components the model owns
type Parts struct {
	Browser string
	Status  string
	Help    string
}

// RenderMainView renders the whole screen
func RenderMainView(m common.ModelReader, parts Parts) string {
	var sb strings.Builder

	sb.WriteString(styles.Theme.Title.Render("imglab"))
	sb.WriteString("\n")
	sb.WriteString(RenderTabs(m.ActiveTab()))
	sb.WriteString("\n\n")

	if m.Mode() == types.Browse {
		sb.WriteString(styles.Theme.Pane.Render(strings.TrimRight(parts.Browser, "\n")))
	} else {
		sb.WriteString(RenderSelection(m))
		sb.WriteString("\n")
		sb.WriteString(RenderTrigger(m))
		sb.WriteString("\n\n")
		op := m.ActiveTab().Operation()
		sb.WriteString(RenderResult(m.Result(op)))
	}

	if parts.Status != "" {
		sb.WriteString("\n" + parts.Status)
	}
	if parts.Help != "" {
		sb.WriteString("\n\n" + parts.Help)
	}

	return styles.Theme.App.Render(sb.String())
}

// RenderTabs renders the tab bar with tab highlighted
func RenderTabs(tab types.ViewMode) string {
	var tabs []string
	for _, v := range types.ViewModes {
		style := styles.Theme.Tab
		if v == tab {
			style = styles.Theme.ActiveTab
		}
		tabs = append(tabs, style.Render(v.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderSelection describes the selected file and its preview
func RenderSelection(m common.ModelReader) string {
	file := m.Current()
	if file == nil {
		return styles.Theme.Help.Render("No image selected. Press o to choose one.")
	}

	var sb strings.Builder
	sb.WriteString(styles.Theme.Label.Render("File: "))
	sb.WriteString(file.Name + " (" + file.MediaType + ", " + humanize.Bytes(uint64(file.Size())) + ")")
	if camera := file.Metadata[picker.MetaCamera]; camera != "" {
		sb.WriteString("\n" + styles.Theme.Label.Render("Camera: ") + camera)
	}
	if taken := file.Metadata[picker.MetaTaken]; taken != "" {
		sb.WriteString("\n" + styles.Theme.Label.Render("Taken: ") + taken)
	}
	if ref := m.PreviewRef(); ref != "" {
		sb.WriteString("\n" + styles.Theme.Label.Render("Preview: ") + ref)
	}
	return sb.String()
}

// RenderTrigger renders the operation button in its enabled, busy or
// disabled form
func RenderTrigger(m common.ModelReader) string {
	label := m.ActiveTab().Label()
	switch {
	case m.Busy():
		return styles.Theme.Warning.Render("[ " + presenter.ProgressText + " ]")
	case !m.CanTrigger():
		return styles.Theme.Tab.Render("[ " + label + " ]") + styles.Theme.Help.Render(" select an image first")
	}
	return styles.Theme.Selected.Render("[ " + label + " ]") + styles.Theme.Help.Render(" press enter")
}

// RenderResult renders a presenter view
func RenderResult(v presenter.View) string {
	var lines []string
	lines = append(lines, styles.Theme.Title.UnsetMarginBottom().Render(v.Title))

	switch {
	case v.Progress != "":
		lines = append(lines, styles.Theme.Warning.Render(v.Progress))
	case v.Notice != "":
		lines = append(lines, styles.Theme.Notice.Render(v.Notice))
		if v.Cause != "" {
			lines = append(lines, styles.Theme.Help.Render(v.Cause))
		}
	case v.Empty():
		lines = append(lines, styles.Theme.Help.Render("No result yet"))
	default:
		lines = append(lines, v.Lines...)
		if v.ImageRef != "" {
			lines = append(lines, styles.Theme.Success.Render(v.ImageRef))
		}
	}
	return styles.Theme.Pane.Render(strings.Join(lines, "\n"))
}
