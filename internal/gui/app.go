//go:build !nogui

package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"imglab/internal/config"
	"imglab/internal/log"
	"imglab/internal/orchestrator"
	"imglab/internal/picker"
	"imglab/internal/presenter"
	"imglab/internal/session"
	"imglab/internal/watch"
	"imglab/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// imageExtensions limits the file dialog to images
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tif", ".tiff"}

// App is the GUI application. All session access happens on the fyne
// main goroutine; request goroutines hand completions back with fyne.Do.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config

	session    *session.Session
	picker     *picker.Picker
	watcher    *watch.Watcher
	autoSelect bool

	tabs      *container.AppTabs
	panes     map[types.Operation]*pane
	fileLabel *widget.Label
	status    *widget.Label
}

// pane is the content of one operation tab
type pane struct {
	op       types.Operation
	preview  *canvas.Image
	trigger  *widget.Button
	progress *widget.ProgressBarInfinite
	title    *widget.Label
	lines    *widget.Label
	notice   *widget.Label
	cause    *widget.Label
	result   *canvas.Image
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, opts Options) *App {
	return newApp(app.NewWithID("io.github.imglab"), cfg, opts)
}

func newApp(fyneApp fyne.App, cfg *config.Config, opts Options) *App {
	a := &App{
		fyneApp:    fyneApp,
		cfg:        cfg,
		session:    opts.Session,
		picker:     opts.Picker,
		watcher:    opts.Watcher,
		autoSelect: opts.AutoSelect,
		panes:      make(map[types.Operation]*pane),
	}
	a.mainWindow = fyneApp.NewWindow("imglab")
	a.setupMainWindow()
	a.refresh()
	return a
}

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	if f.options.Session == nil || f.options.Picker == nil {
		return nil, fmt.Errorf("gui requires a session and a picker")
	}
	return NewApp(f.config, f.options), nil
}

// StartGUI runs the desktop front end until its window is closed
func StartGUI(cfg *config.Config, opts Options) error {
	g, err := NewFactory(cfg, opts).Create()
	if err != nil {
		return err
	}
	g.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// Run shows the window and blocks until it is closed
func (a *App) Run() {
	a.startWatch()
	a.mainWindow.SetOnClosed(func() {
		if a.watcher != nil {
			a.watcher.Stop()
		}
		a.session.Close()
	})
	a.mainWindow.ShowAndRun()
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(900, 700))

	a.fileLabel = widget.NewLabel("")
	a.status = widget.NewLabel("")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openFile),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			a.session.ClearFile()
			a.setStatus("Selection cleared")
			a.refresh()
		}),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About imglab",
				"Choose an image, then classify it or remove its noise\n"+
					"with the inference service at "+a.cfg.Service.BaseURL+".",
				a.mainWindow)
		}),
	)

	a.tabs = container.NewAppTabs()
	for _, v := range types.ViewModes {
		p := a.newPane(v.Operation())
		a.panes[p.op] = p
		a.tabs.Append(container.NewTabItem(v.Label(), p.content()))
	}
	a.tabs.SetTabLocation(container.TabLocationTop)

	content := container.NewBorder(
		container.NewVBox(toolbar, a.fileLabel, widget.NewSeparator()),
		container.NewHBox(a.status, layout.NewSpacer()),
		nil,
		nil,
		a.tabs,
	)
	a.mainWindow.SetContent(content)
}

func (a *App) newPane(op types.Operation) *pane {
	p := &pane{
		op:       op,
		preview:  newImage(),
		progress: widget.NewProgressBarInfinite(),
		title:    widget.NewLabelWithStyle(presenter.Title(op), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		lines:    widget.NewLabel(""),
		notice:   widget.NewLabel(""),
		cause:    widget.NewLabel(""),
		result:   newImage(),
	}
	p.notice.Importance = widget.DangerImportance
	p.trigger = widget.NewButton(types.ViewModes[op].Label(), func() {
		a.trigger(op)
	})
	p.trigger.Importance = widget.HighImportance
	p.progress.Hide()
	return p
}

func (p *pane) content() fyne.CanvasObject {
	return container.NewVBox(
		p.preview,
		container.NewHBox(p.trigger, p.progress),
		widget.NewSeparator(),
		p.title,
		p.lines,
		p.notice,
		p.cause,
		p.result,
	)
}

func newImage() *canvas.Image {
	img := &canvas.Image{FillMode: canvas.ImageFillContain}
	img.SetMinSize(fyne.NewSize(256, 256))
	img.Hide()
	return img
}

// openFile lets the user pick an image
func (a *App) openFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.ShowError("Open file", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.selectPath(path)
	}, a.mainWindow)
	d.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if dir := a.cfg.Picker.Directory; dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			if uri, err := storage.ListerForURI(storage.NewFileURI(abs)); err == nil {
				d.SetLocation(uri)
			}
		}
	}
	d.Show()
}

// selectPath loads path and makes it the selection
func (a *App) selectPath(path string) {
	if !a.picker.Accepts(path) {
		a.ShowError("Open file", fmt.Errorf("%s is not an accepted image", filepath.Base(path)))
		return
	}
	file, err := a.picker.Load(path)
	if err == nil {
		err = a.session.SelectFile(file)
	}
	if err != nil {
		a.ShowError("Open file", err)
		return
	}
	a.setStatus("Selected " + file.Name)
	a.refresh()
}

// trigger runs op in a goroutine and applies the completion on the main
// goroutine
func (a *App) trigger(op types.Operation) {
	req, ok := a.dispatch(op)
	if !ok {
		return
	}
	go func() {
		c := a.session.Execute(req)
		fyne.Do(func() {
			a.complete(c)
		})
	}()
}

func (a *App) dispatch(op types.Operation) (*orchestrator.Request, bool) {
	req, err := a.session.Dispatch(op)
	if err != nil {
		a.setStatus(presenter.Cause(err))
		return nil, false
	}
	a.setStatus(fmt.Sprintf("Running %s on %s", op.Noun(), req.File.Name))
	a.refresh()
	return req, true
}

func (a *App) complete(c orchestrator.Completion) {
	if !a.session.Complete(c) {
		if c.Request != nil {
			a.setStatus("Discarded result for " + c.Request.File.Name)
		}
	} else if c.Err != nil {
		a.setStatus("An error occurred during " + c.Request.Op.Noun())
	} else {
		a.setStatus(fmt.Sprintf("%s finished for %s", c.Request.Op.Noun(), c.Request.File.Name))
	}
	a.refresh()
}

// refresh copies session state into the widgets
func (a *App) refresh() {
	file := a.session.Current()
	if file == nil {
		a.fileLabel.SetText("No image selected")
	} else {
		a.fileLabel.SetText("File: " + file.String())
	}

	previewRes := a.resource(a.session.PreviewRef())
	busy := a.session.Busy()
	canTrigger := a.session.CanTrigger()

	for _, p := range a.panes {
		setImage(p.preview, previewRes)

		if busy {
			p.trigger.SetText(presenter.ProgressText)
			p.progress.Show()
			p.progress.Start()
		} else {
			p.trigger.SetText(types.ViewModes[p.op].Label())
			p.progress.Stop()
			p.progress.Hide()
		}
		if canTrigger {
			p.trigger.Enable()
		} else {
			p.trigger.Disable()
		}

		v := a.session.View(p.op)
		p.title.SetText(v.Title)
		p.lines.SetText(strings.Join(v.Lines, "\n"))
		p.notice.SetText(v.Notice)
		p.cause.SetText(v.Cause)
		setImage(p.result, a.resource(v.ImageRef))
	}
}

// resource resolves a display reference into a fyne resource
func (a *App) resource(ref string) fyne.Resource {
	if ref == "" {
		return nil
	}
	entry, ok := a.session.Resolve(ref)
	if !ok {
		return nil
	}
	return fyne.NewStaticResource(entry.Name, entry.Data)
}

func setImage(img *canvas.Image, res fyne.Resource) {
	img.Resource = res
	if res == nil {
		img.Hide()
	} else {
		img.Show()
	}
	img.Refresh()
}

// startWatch forwards watcher events to the main goroutine
func (a *App) startWatch() {
	if a.watcher == nil {
		return
	}
	events := a.watcher.Events()
	go func() {
		for ev := range events {
			path := ev.Path
			fyne.Do(func() {
				a.offer(path)
			})
		}
	}()
}

func (a *App) offer(path string) {
	log.LogWithFields(log.F("file", path), log.F("auto_select", a.autoSelect)).Debug("image offered by watcher")
	if a.autoSelect {
		a.selectPath(path)
		return
	}
	a.setStatus("New image: " + filepath.Base(path))
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogWithFields(log.F("title", title)).WithError(err).Warn("gui error")
	dialog.ShowError(err, a.mainWindow)
	a.setStatus(title + ": " + err.Error())
}

// ShowInfo displays an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("Info", message, a.mainWindow)
}
