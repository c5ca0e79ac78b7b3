package core

import "fmt"

// Command is a player intent applied to an engine on a tick.
type Command uint8

const (
	CmdNone Command = iota
	CmdMoveLeft
	CmdMoveRight
	CmdRotateCW
	CmdRotateCCW
	CmdSoftDrop
	CmdSpawnNext
)

var commandNames = map[Command]string{
	CmdNone:      "none",
	CmdMoveLeft:  "left",
	CmdMoveRight: "right",
	CmdRotateCW:  "rotate_cw",
	CmdRotateCCW: "rotate_ccw",
	CmdSoftDrop:  "soft_drop",
	CmdSpawnNext: "spawn",
}

// String returns the command's wire name, as written to replay logs.
func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}

// ParseCommand is the inverse of Command.String.
func ParseCommand(s string) (Command, error) {
	for c, name := range commandNames {
		if name == s {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("unknown command %q", s)
}

// InputFrame holds the commands one side issues during a single tick.
// Commands are applied in the order they were pushed.
type InputFrame struct {
	Commands []Command
}

// Frame builds an InputFrame from a list of commands.
func Frame(cmds ...Command) InputFrame {
	f := InputFrame{}
	for _, c := range cmds {
		f.Push(c)
	}
	return f
}

// Push appends a command; CmdNone is ignored.
func (f *InputFrame) Push(c Command) {
	if c == CmdNone {
		return
	}
	f.Commands = append(f.Commands, c)
}

// Has reports whether the frame contains c.
func (f InputFrame) Has(c Command) bool {
	for _, x := range f.Commands {
		if x == c {
			return true
		}
	}
	return false
}

// Empty reports whether no commands were issued.
func (f InputFrame) Empty() bool {
	return len(f.Commands) == 0
}

// Clear removes all commands, keeping the backing array.
func (f *InputFrame) Clear() {
	f.Commands = f.Commands[:0]
}

// Clone returns an independent copy.
func (f InputFrame) Clone() InputFrame {
	if len(f.Commands) == 0 {
		return InputFrame{}
	}
	out := make([]Command, len(f.Commands))
	copy(out, f.Commands)
	return InputFrame{Commands: out}
}
