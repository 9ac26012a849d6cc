package tui

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"scenedit/internal/config"
	"scenedit/internal/scene"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModeInput
)

type inputKind int

const (
	inputRename inputKind = iota
	inputResize
	inputRecolor
	inputSave
	inputOpen
	inputExport
	inputExportText
)

const (
	panelWidth    = 30
	inspectorRows = 9
	gridStep      = 5
	maxGridSize   = 200
	minEntitySize = 10
	maxEntitySize = 500
)

// Model is the terminal editor. It never mutates entities itself: every
// change goes through a store operation or a command on the stack.
type Model struct {
	store       *scene.Store
	stack       *scene.Stack
	cfg         *config.Config
	log         *zap.Logger
	unsubscribe func()

	width   int
	height  int
	cursor  image.Point
	pan     image.Point
	panMode bool
	help    bool

	mode      Mode
	input     inputKind
	inputText string

	movePress  image.Point
	moveOffset image.Point
	mouseDown  bool

	listTop  int
	listRows int

	filename       string
	errorMessage   string
	successMessage string
}

func New(store *scene.Store, cfg *config.Config, log *zap.Logger) *Model {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}
	stack := store.Stack()
	if stack == nil {
		stack = scene.NewStack()
		stack.SetLogger(log)
		store.SetStack(stack)
	}
	m := &Model{
		store:    store,
		stack:    stack,
		cfg:      cfg,
		log:      log,
		listRows: 1,
	}
	m.unsubscribe = store.Subscribe(m.onSceneEvent)
	return m
}

// SetFilename names the file the scene was loaded from, shown in the status
// line and offered as the default save name.
func (m *Model) SetFilename(name string) {
	m.filename = name
}

// Close detaches the model from the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) onSceneEvent(ev scene.Event) {
	m.log.Debug("scene event", zap.Stringer("kind", ev.Kind), zap.Int("index", ev.Index))

	switch ev.Kind {
	case scene.EntityRemoved:
		if ev.Index < m.listTop && m.listTop > 0 {
			m.listTop--
		}
	case scene.SelectionChanged:
		m.followSelection(ev.Index)
	}
	if last := m.store.Len() - m.listRows; m.listTop > last {
		m.listTop = max(last, 0)
	}
}

func (m *Model) followSelection(index int) {
	if index < 0 {
		return
	}
	if index < m.listTop {
		m.listTop = index
	} else if index >= m.listTop+m.listRows {
		m.listTop = index - m.listRows + 1
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listRows = max(m.canvasHeight()-inspectorRows-4, 1)
		m.followSelection(m.store.Selected())
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		m.errorMessage = ""
		m.successMessage = ""

		if m.help {
			switch msg.String() {
			case "?", "esc", "q":
				m.help = false
			}
			return m, nil
		}

		switch m.mode {
		case ModeInput:
			return m.handleInputKey(msg)
		case ModeMove:
			return m.handleMoveKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

func (m *Model) canvasWidth() int {
	return max(m.width-panelWidth, 1)
}

func (m *Model) canvasHeight() int {
	return max(m.height-1, 1)
}

func (m *Model) ensureCursorInBounds() {
	m.cursor.X = min(max(m.cursor.X, 0), m.canvasWidth()-1)
	m.cursor.Y = min(max(m.cursor.Y, 0), m.canvasHeight()-1)
}

// cellToScene maps a canvas cell to the scene point at its top-left corner.
func (m *Model) cellToScene(cell image.Point) image.Point {
	c := cell.Add(m.pan)
	return image.Pt(c.X*m.cfg.View.CellWidth, c.Y*m.cfg.View.CellHeight)
}

func (m *Model) cursorScene() image.Point {
	return m.cellToScene(m.cursor)
}

func (m *Model) modified() bool {
	return !m.stack.IsClean()
}

func (m *Model) modeString() string {
	switch m.mode {
	case ModeMove:
		return "MOVE"
	case ModeInput:
		return "INPUT"
	}
	if m.panMode {
		return "PAN"
	}
	return "NORMAL"
}
