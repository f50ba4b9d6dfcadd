// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"image-annotator/internal/annotation"
	"image-annotator/internal/command"
	baseimage "image-annotator/internal/image"
	"image-annotator/internal/scene"
	"image-annotator/internal/tool"
	"image-annotator/pkg/colorutil"
	annotcanvas "image-annotator/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const prefKeyLastDir = "lastDirectory"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	scn    *scene.Scene
	tools  *tool.Registry
	canvas *annotcanvas.AnnotationCanvas

	shapeTool *tool.ShapeTool
	lineTool  *tool.LineTool

	statusBar *widget.Label

	undoItem *fyne.MenuItem
	redoItem *fyne.MenuItem
	mainMenu *fyne.MainMenu
}

// New creates the main window with a fresh scene.
func New(fyneApp fyne.App) *MainWindow {
	win := fyneApp.NewWindow("Image Annotator")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		scn:    scene.New(),
	}

	mw.setupTools()
	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1100, 750))
	return mw
}

// Scene exposes the window's scene for startup wiring.
func (mw *MainWindow) Scene() *scene.Scene { return mw.scn }

// setupTools registers the interaction tools; select starts active.
func (mw *MainWindow) setupTools() {
	mw.tools = tool.NewRegistry(mw.scn)

	mw.shapeTool = tool.NewShapeTool(mw.scn, annotation.Rectangle, annotation.ShapeStyle{
		Fill:        colorutil.WithAlpha(colorutil.Yellow, 90),
		Stroke:      colorutil.Red,
		StrokeWidth: 2,
	})
	mw.lineTool = tool.NewLineTool(mw.scn, annotation.LineStyle{
		Stroke:      colorutil.Red,
		StrokeWidth: 2,
		EndArrow:    annotation.ArrowFilled,
		ArrowSize:   10,
	})

	mw.tools.Register(tool.NewSelectTool(mw.scn))
	mw.tools.Register(mw.shapeTool)
	mw.tools.Register(mw.lineTool)
}

// setupUI creates the main layout: toolbar, canvas, status bar.
func (mw *MainWindow) setupUI() {
	mw.canvas = annotcanvas.New(mw.scn, mw.tools)
	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
}

// createToolbar builds the tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	toolButton := func(label, id string) *widget.Button {
		return widget.NewButton(label, func() {
			mw.tools.Activate(id)
			mw.updateStatus("Tool: " + label)
		})
	}
	shapeButton := func(label string, kind annotation.ShapeKind) *widget.Button {
		return widget.NewButton(label, func() {
			mw.shapeTool.Kind = kind
			mw.tools.Activate("shape")
			mw.updateStatus("Tool: " + label)
		})
	}

	return container.NewHBox(
		toolButton("Select", "select"),
		shapeButton("Rect", annotation.Rectangle),
		shapeButton("Rounded", annotation.RoundedRectangle),
		shapeButton("Ellipse", annotation.Ellipse),
		shapeButton("Diamond", annotation.Diamond),
		shapeButton("Triangle", annotation.Triangle),
		toolButton("Line", "line"),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", func() { mw.scn.ZoomOut(); mw.updateZoomStatus() }),
		widget.NewButton("+", func() { mw.scn.ZoomIn(); mw.updateZoomStatus() }),
		widget.NewButton("Fit", func() { mw.scn.ZoomToFit(); mw.updateZoomStatus() }),
		widget.NewButton("1:1", func() { mw.scn.SetZoom(1.0); mw.updateZoomStatus() }),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.undoItem = fyne.NewMenuItem("Undo", mw.onUndo)
	mw.redoItem = fyne.NewMenuItem("Redo", mw.onRedo)
	mw.undoItem.Disabled = true
	mw.redoItem.Disabled = true

	editMenu := fyne.NewMenu("Edit",
		mw.undoItem,
		mw.redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete", mw.onDeleteSelection),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.scn.ZoomIn(); mw.updateZoomStatus() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.scn.ZoomOut(); mw.updateZoomStatus() }),
		fyne.NewMenuItem("Fit to Window", func() { mw.scn.ZoomToFit(); mw.updateZoomStatus() }),
		fyne.NewMenuItem("Actual Size", func() { mw.scn.SetZoom(1.0); mw.updateZoomStatus() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Snap to Grid", mw.onToggleSnap),
	)

	arrangeMenu := fyne.NewMenu("Arrange",
		fyne.NewMenuItem("Bring to Front", func() { mw.onArrange(command.BringToFront) }),
		fyne.NewMenuItem("Bring Forward", func() { mw.onArrange(command.BringForward) }),
		fyne.NewMenuItem("Send Backward", func() { mw.onArrange(command.SendBackward) }),
		fyne.NewMenuItem("Send to Back", func() { mw.onArrange(command.SendToBack) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Align Left", func() { mw.onAlign(command.AlignLeft) }),
		fyne.NewMenuItem("Align Right", func() { mw.onAlign(command.AlignRight) }),
		fyne.NewMenuItem("Align Top", func() { mw.onAlign(command.AlignTop) }),
		fyne.NewMenuItem("Align Bottom", func() { mw.onAlign(command.AlignBottom) }),
		fyne.NewMenuItem("Align Centers", func() { mw.onAlign(command.AlignCenter) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Distribute Horizontally", func() { mw.onDistribute(command.DistributeHorizontal) }),
		fyne.NewMenuItem("Distribute Vertically", func() { mw.onDistribute(command.DistributeVertical) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate 90°", func() { mw.onRotateFlip(command.Rotate90) }),
		fyne.NewMenuItem("Rotate -90°", func() { mw.onRotateFlip(command.RotateMinus90) }),
		fyne.NewMenuItem("Flip Horizontal", func() { mw.onRotateFlip(command.FlipHorizontal) }),
		fyne.NewMenuItem("Flip Vertical", func() { mw.onRotateFlip(command.FlipVertical) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.mainMenu = fyne.NewMainMenu(fileMenu, editMenu, viewMenu, arrangeMenu, helpMenu)
	mw.SetMainMenu(mw.mainMenu)
}

// setupShortcuts wires the keyboard: undo/redo, delete, cancel.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { mw.onUndo() })
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift,
	}, func(fyne.Shortcut) { mw.onRedo() })
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyY,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { mw.onRedo() })

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDeleteSelection()
		case fyne.KeyEscape:
			if t := mw.tools.Active(); t != nil {
				t.Cancel()
			}
			mw.scn.ClearSelection()
			mw.canvas.Refresh()
		}
	})
}

// setupEventHandlers keeps the menus and status bar in sync with the scene.
func (mw *MainWindow) setupEventHandlers() {
	mw.scn.On(scene.EventHistoryChanged, func(interface{}) {
		mw.refreshUndoRedoItems()
	})

	mw.scn.On(scene.EventSelectionChanged, func(data interface{}) {
		ids, ok := data.([]int)
		if !ok {
			return
		}
		switch len(ids) {
		case 0:
			mw.updateStatus("Ready")
		case 1:
			if a := mw.scn.ByID(ids[0]); a != nil {
				mw.updateStatus(fmt.Sprintf("Selected %s #%d", a.Kind, a.ID))
			}
		default:
			mw.updateStatus(fmt.Sprintf("Selected %d annotations", len(ids)))
		}
	})

	mw.scn.On(scene.EventInteractionBegan, func(data interface{}) {
		if tag, ok := data.(scene.InteractionTag); ok && tag == scene.InteractionEditText {
			mw.onEditText()
		}
	})
}

func (mw *MainWindow) refreshUndoRedoItems() {
	mw.undoItem.Disabled = !mw.scn.CanUndo()
	mw.redoItem.Disabled = !mw.scn.CanRedo()
	if name := mw.scn.UndoName(); name != "" {
		mw.undoItem.Label = "Undo " + name
	} else {
		mw.undoItem.Label = "Undo"
	}
	if name := mw.scn.RedoName(); name != "" {
		mw.redoItem.Label = "Redo " + name
	} else {
		mw.redoItem.Label = "Redo"
	}
	mw.mainMenu.Refresh()
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateZoomStatus() {
	mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", mw.scn.Zoom()*100))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))

		layer, err := baseimage.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.scn.SetBaseImage(layer)
		mw.scn.ZoomToFit()
		mw.SetTitle("Image Annotator - " + filepath.Base(path))
		if layer.DPI > 0 {
			mw.updateStatus(fmt.Sprintf("Loaded %s (%.0f DPI)", filepath.Base(path), layer.DPI))
		} else {
			mw.updateStatus("Loaded " + filepath.Base(path))
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}))
	if path := mw.app.Preferences().String(prefKeyLastDir); path != "" {
		if loc, err := storage.ListerForURI(storage.NewFileURI(path)); err == nil {
			fd.SetLocation(loc)
		}
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if mw.scn.Undo() {
		mw.canvas.Refresh()
	}
}

func (mw *MainWindow) onRedo() {
	if mw.scn.Redo() {
		mw.canvas.Refresh()
	}
}

func (mw *MainWindow) onDeleteSelection() {
	ids := mw.scn.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	mw.scn.Execute(&command.Delete{IDs: ids})
}

func (mw *MainWindow) onToggleSnap() {
	mw.scn.SetSnapEnabled(!mw.scn.SnapEnabled())
	if mw.scn.SnapEnabled() {
		mw.updateStatus(fmt.Sprintf("Snap to grid on (%.0f)", mw.scn.GridSize()))
	} else {
		mw.updateStatus("Snap to grid off")
	}
	mw.canvas.Refresh()
}

func (mw *MainWindow) onArrange(action command.ArrangeAction) {
	ids := mw.scn.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	mw.scn.Execute(&command.Arrange{IDs: ids, Action: action})
}

func (mw *MainWindow) onAlign(mode command.Alignment) {
	ids := mw.scn.SelectedIDs()
	if len(ids) < 2 {
		return
	}
	mw.scn.Execute(&command.Align{IDs: ids, Mode: mode})
}

func (mw *MainWindow) onDistribute(dir command.DistributeDirection) {
	ids := mw.scn.SelectedIDs()
	if len(ids) < 3 {
		return
	}
	mw.scn.Execute(&command.Distribute{IDs: ids, Direction: dir})
}

func (mw *MainWindow) onRotateFlip(op command.RotateFlipOp) {
	ids := mw.scn.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	mw.scn.Execute(&command.RotateFlip{IDs: ids, Op: op})
}

// onEditText opens an entry dialog for the double-clicked shape's text.
func (mw *MainWindow) onEditText() {
	ids := mw.scn.SelectedIDs()
	if len(ids) != 1 {
		return
	}
	a := mw.scn.ByID(ids[0])
	if a == nil || a.Kind != annotation.KindShape {
		return
	}

	entry := widget.NewEntry()
	entry.SetText(a.Shape.Text)
	dialog.ShowForm("Edit Text", "OK", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(confirmed bool) {
			if !confirmed || entry.Text == a.Shape.Text {
				return
			}
			text := entry.Text
			mw.scn.Execute(&command.UpdateProperties{
				ID:    a.ID,
				Patch: command.PropertyPatch{Text: &text},
			})
			mw.canvas.Refresh()
		}, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About",
		"Image Annotator\nDraw, arrange, and label annotations over an image.",
		mw.Window)
}
