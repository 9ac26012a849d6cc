package scene

import "go.uber.org/zap"

// Stack is a linear undo log. Commands below the cursor are applied, the rest
// are reverted and are dropped by the next Push.
type Stack struct {
	commands  []*Command
	index     int
	clean     int
	executing bool

	log *zap.Logger
}

func NewStack() *Stack {
	return &Stack{
		commands: make([]*Command, 0),
		log:      zap.NewNop(),
	}
}

func (st *Stack) SetLogger(log *zap.Logger) {
	if log != nil {
		st.log = log
	}
}

// Push discards the redo tail, applies c and records it.
func (st *Stack) Push(c *Command) {
	if c == nil || !st.enter("push") {
		return
	}
	defer st.leave()

	for i := st.index; i < len(st.commands); i++ {
		st.commands[i] = nil
	}
	st.commands = st.commands[:st.index]
	if st.clean > st.index {
		st.clean = -1
	}

	c.Redo()
	st.commands = append(st.commands, c)
	st.index++
	st.log.Debug("command pushed", zap.String("command", c.Text()), zap.Int("index", c.index))
}

func (st *Stack) Undo() {
	if st.index == 0 || !st.enter("undo") {
		return
	}
	defer st.leave()

	st.index--
	c := st.commands[st.index]
	c.Undo()
	st.log.Debug("command undone", zap.String("command", c.Text()))
}

func (st *Stack) Redo() {
	if st.index == len(st.commands) || !st.enter("redo") {
		return
	}
	defer st.leave()

	c := st.commands[st.index]
	c.Redo()
	st.index++
	st.log.Debug("command redone", zap.String("command", c.Text()))
}

// A command's Redo or Undo may notify subscribers; those must not start
// another command while one is running.
func (st *Stack) enter(op string) bool {
	if st.executing {
		st.log.Warn("ignoring reentrant stack operation", zap.String("op", op))
		return false
	}
	st.executing = true
	return true
}

func (st *Stack) leave() {
	st.executing = false
}

func (st *Stack) CanUndo() bool { return st.index > 0 }
func (st *Stack) CanRedo() bool { return st.index < len(st.commands) }
func (st *Stack) Len() int      { return len(st.commands) }
func (st *Stack) Index() int    { return st.index }

func (st *Stack) Command(i int) *Command {
	if i < 0 || i >= len(st.commands) {
		return nil
	}
	return st.commands[i]
}

func (st *Stack) UndoText() string {
	if !st.CanUndo() {
		return ""
	}
	return st.commands[st.index-1].Text()
}

func (st *Stack) RedoText() string {
	if !st.CanRedo() {
		return ""
	}
	return st.commands[st.index].Text()
}

func (st *Stack) Clear() {
	st.commands = st.commands[:0]
	st.index = 0
	st.clean = 0
}

// SetClean marks the current position as matching what is on disk.
func (st *Stack) SetClean() {
	st.clean = st.index
}

func (st *Stack) IsClean() bool {
	return st.clean == st.index
}
