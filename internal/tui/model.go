package tui

import (
	"fmt"
	"path/filepath"

	"imglab/internal/log"
	"imglab/internal/picker"
	"imglab/internal/presenter"
	"imglab/internal/session"
	"imglab/internal/tui/components"
	"imglab/internal/tui/messages"
	"imglab/internal/tui/views"
	"imglab/internal/watch"
	"imglab/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model of the terminal front end. Its Update
// loop is the single event loop that owns the session.
type Model struct {
	session *session.Session
	picker  *picker.Picker

	watcher    *watch.Watcher
	autoSelect bool

	keys    types.KeyMap
	help    help.Model
	status  *components.StatusBar
	browser *components.FileList

	mode     types.Mode
	tab      types.ViewMode
	showHelp bool
	startDir string
}

// Option configures a Model
type Option func(*Model)

// WithWatcher offers images from w. With autoSelect they are selected as
// soon as they appear.
func WithWatcher(w *watch.Watcher, autoSelect bool) Option {
	return func(m *Model) {
		m.watcher = w
		m.autoSelect = autoSelect
	}
}

// WithStartDir sets the directory the picker opens in
func WithStartDir(dir string) Option {
	return func(m *Model) {
		m.startDir = dir
	}
}

// New creates a model driving s
func New(s *session.Session, p *picker.Picker, opts ...Option) *Model {
	m := &Model{
		session:  s,
		picker:   p,
		keys:     types.DefaultKeyMap(),
		help:     help.New(),
		status:   components.NewStatusBar(),
		browser:  components.NewFileList(),
		mode:     types.Normal,
		tab:      types.ViewClassify,
		startDir: ".",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForWatch()
}

// View implements tea.Model
func (m *Model) View() string {
	m.help.ShowAll = m.showHelp
	return views.RenderMainView(m, views.Parts{
		Browser: m.browser.View(),
		Status:  m.status.View(),
		Help:    m.help.View(m.keys),
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.browser.SetHeight(msg.Height - 12)
		return m, nil

	case messages.DirectoryLoadedMsg:
		if msg.Error != nil {
			m.status.SetText(msg.Error.Error())
			return m, nil
		}
		m.browser.SetFiles(msg.Entries)
		m.browser.SetCurrentDir(msg.Path)
		m.mode = types.Browse
		return m, nil

	case messages.FileLoadedMsg:
		return m, m.handleFileLoaded(msg)

	case messages.CompletionMsg:
		return m, m.handleCompletion(msg)

	case messages.WatchEventMsg:
		return m, m.handleWatchEvent(msg)

	case messages.WatchClosedMsg:
		return m, nil

	case messages.ErrorMsg:
		m.status.SetText(msg.Err.Error())
		return m, nil
	}

	return m, m.status.Update(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.mode == types.Browse {
		return m.handleBrowseKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.NextTab):
		m.tab = m.tab.Next()
	case key.Matches(msg, m.keys.Classify):
		m.tab = types.ViewClassify
	case key.Matches(msg, m.keys.Denoise):
		m.tab = types.ViewDenoise
	case key.Matches(msg, m.keys.Browse):
		dir := m.browser.CurrentDir()
		if dir == "" {
			dir = m.startDir
		}
		return m.loadDirectory(dir)
	case key.Matches(msg, m.keys.Clear):
		m.session.ClearFile()
		m.status.SetText("Selection cleared")
	case key.Matches(msg, m.keys.Trigger):
		return m.trigger()
	}
	return nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.browser.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.browser.MoveCursor(1)
	case key.Matches(msg, m.keys.Open):
		entry := m.browser.Current()
		if entry == nil {
			return nil
		}
		if entry.IsDir {
			return m.loadDirectory(entry.Path)
		}
		return m.loadFile(entry.Path)
	case key.Matches(msg, m.keys.GoBack):
		return m.loadDirectory(filepath.Dir(m.browser.CurrentDir()))
	case key.Matches(msg, m.keys.Cancel):
		m.mode = types.Normal
	}
	return nil
}

// trigger dispatches the operation of the active tab. The network call
// runs in a command and its completion comes back as a CompletionMsg.
func (m *Model) trigger() tea.Cmd {
	op := m.tab.Operation()
	req, err := m.session.Dispatch(op)
	if err != nil {
		m.status.SetText(presenter.Cause(err))
		return nil
	}

	m.status.SetText(fmt.Sprintf("Running %s on %s", op.Noun(), req.File.Name))
	s := m.session
	execute := func() tea.Msg {
		return messages.CompletionMsg{Completion: s.Execute(req)}
	}
	return tea.Batch(execute, m.status.SetLoading(true))
}

func (m *Model) handleCompletion(msg messages.CompletionMsg) tea.Cmd {
	c := msg.Completion
	m.status.SetLoading(false)

	if !m.session.Complete(c) {
		if c.Request != nil {
			m.status.SetText("Discarded result for " + c.Request.File.Name)
		}
		return nil
	}

	op := c.Request.Op
	if c.Err != nil {
		m.status.SetText("An error occurred during " + op.Noun())
		return nil
	}
	m.status.SetText(fmt.Sprintf("%s finished for %s", op.Noun(), c.Request.File.Name))
	return nil
}

func (m *Model) handleFileLoaded(msg messages.FileLoadedMsg) tea.Cmd {
	if msg.Error != nil {
		m.status.SetText(msg.Error.Error())
		return nil
	}
	if err := m.session.SelectFile(msg.File); err != nil {
		m.status.SetText(err.Error())
		return nil
	}
	m.mode = types.Normal
	m.status.SetText("Selected " + msg.File.Name)
	return nil
}

func (m *Model) handleWatchEvent(msg messages.WatchEventMsg) tea.Cmd {
	name := filepath.Base(msg.Event.Path)
	log.LogWithFields(log.F("file", msg.Event.Path), log.F("auto_select", m.autoSelect)).Debug("image offered by watcher")

	if m.autoSelect {
		return tea.Batch(m.loadFile(msg.Event.Path), m.waitForWatch())
	}
	m.status.SetText("New image: " + name)
	return m.waitForWatch()
}

func (m *Model) loadFile(path string) tea.Cmd {
	p := m.picker
	return func() tea.Msg {
		file, err := p.Load(path)
		return messages.FileLoadedMsg{Path: path, File: file, Error: err}
	}
}

func (m *Model) loadDirectory(dir string) tea.Cmd {
	p := m.picker
	return func() tea.Msg {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return messages.DirectoryLoadedMsg{Path: dir, Error: err}
		}
		entries, err := p.List(abs)
		return messages.DirectoryLoadedMsg{Path: abs, Entries: entries, Error: err}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return messages.WatchClosedMsg{}
		}
		return messages.WatchEventMsg{Event: ev}
	}
}

// Close stops the watcher and releases the session
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.session.Close()
}

// Getters

func (m *Model) Mode() types.Mode {
	return m.mode
}

func (m *Model) ActiveTab() types.ViewMode {
	return m.tab
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Current() *types.SelectedFile {
	return m.session.Current()
}

func (m *Model) PreviewRef() string {
	return m.session.PreviewRef()
}

func (m *Model) CanTrigger() bool {
	return m.session.CanTrigger()
}

func (m *Model) Busy() bool {
	return m.session.Busy()
}

func (m *Model) Result(op types.Operation) presenter.View {
	return m.session.View(op)
}

// StatusText returns the current status message
func (m *Model) StatusText() string {
	return m.status.Text()
}

// Browser returns the picker listing
func (m *Model) Browser() *components.FileList {
	return m.browser
}
