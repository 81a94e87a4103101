package builtin

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/mchprs-go/mchprs/server/block"
	"github.com/mchprs-go/mchprs/server/block/cube"
	"github.com/mchprs-go/mchprs/server/cmd"
	"github.com/mchprs-go/mchprs/server/worldedit"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

type pos1Command struct{ srv Adapter }

func newPos1Command(srv Adapter) cmd.Command { return pos1Command{srv: srv} }

func (pos1Command) Name() string        { return "pos1" }
func (pos1Command) Aliases() []string   { return []string{"1"} }
func (pos1Command) Description() string { return "Sets WorldEdit position 1 to the given coordinates." }

func (c pos1Command) Run(src cmd.Source, o *cmd.Output, args []string) {
	pos, err := parsePos(args)
	if err != nil {
		o.Error("%s", err)
		return
	}
	sess := c.srv.Sessions().Session(src.Actor())
	sess.Sel.SetPos1(pos)
	o.Print("First position set to %s.", pos)
}

type pos2Command struct{ srv Adapter }

func newPos2Command(srv Adapter) cmd.Command { return pos2Command{srv: srv} }

func (pos2Command) Name() string        { return "pos2" }
func (pos2Command) Aliases() []string   { return []string{"2"} }
func (pos2Command) Description() string { return "Sets WorldEdit position 2 to the given coordinates." }

func (c pos2Command) Run(src cmd.Source, o *cmd.Output, args []string) {
	pos, err := parsePos(args)
	if err != nil {
		o.Error("%s", err)
		return
	}
	sess := c.srv.Sessions().Session(src.Actor())
	sess.Sel.SetPos2(pos)
	o.Print("Second position set to %s.", pos)
}

func parsePos(args []string) (cube.Pos, error) {
	if len(args) != 3 {
		return cube.Pos{}, fmt.Errorf("expected x y z, got %d arguments", len(args))
	}
	var v [3]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return cube.Pos{}, fmt.Errorf("%q is not an integer", a)
		}
		v[i] = n
	}
	return cube.Pos{v[0], v[1], v[2]}, nil
}

// selectionBounds resolves the invoking actor's current selection,
// reporting a user-facing error through o and returning ok=false if it is
// incomplete.
func selectionBounds(srv Adapter, src cmd.Source, o *cmd.Output) (min, max cube.Pos, ok bool) {
	sess := srv.Sessions().Session(src.Actor())
	min, max, ok = sess.Sel.Bounds()
	if !ok {
		o.Error("make a selection first with //pos1 and //pos2")
	}
	return min, max, ok
}

type setCommand struct{ srv Adapter }

func newSetCommand(srv Adapter) cmd.Command { return setCommand{srv: srv} }

func (setCommand) Name() string        { return "set" }
func (setCommand) Aliases() []string   { return nil }
func (setCommand) Description() string { return "Fills the current selection with a block pattern." }

func (c setCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	if len(args) != 1 {
		o.Error("usage: //set <pattern>")
		return
	}
	min, max, ok := selectionBounds(c.srv, src, o)
	if !ok {
		return
	}
	pat, err := worldedit.ParsePattern(args[0])
	if err != nil {
		o.Error("%s", err)
		return
	}
	w := c.srv.Plot().World
	sess := c.srv.Sessions().Session(src.Actor())
	sess.CaptureUndo(w, min, max)
	n := worldedit.SetRegion(w, min, max, pat, rng)
	o.Print("%d block(s) have been changed.", n)
}

type replaceCommand struct{ srv Adapter }

func newReplaceCommand(srv Adapter) cmd.Command { return replaceCommand{srv: srv} }

func (replaceCommand) Name() string      { return "replace" }
func (replaceCommand) Aliases() []string { return nil }
func (replaceCommand) Description() string {
	return "Replaces blocks matching a pattern in the current selection with another."
}

func (c replaceCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	if len(args) != 2 {
		o.Error("usage: //replace <from> <to>")
		return
	}
	min, max, ok := selectionBounds(c.srv, src, o)
	if !ok {
		return
	}
	from, err := worldedit.ParsePattern(args[0])
	if err != nil {
		o.Error("%s", err)
		return
	}
	to, err := worldedit.ParsePattern(args[1])
	if err != nil {
		o.Error("%s", err)
		return
	}
	w := c.srv.Plot().World
	sess := c.srv.Sessions().Session(src.Actor())
	sess.CaptureUndo(w, min, max)
	n := worldedit.ReplaceRegion(w, min, max, from, to, rng)
	o.Print("%d block(s) have been replaced.", n)
}

type clearCommand struct{ srv Adapter }

func newClearCommand(srv Adapter) cmd.Command { return clearCommand{srv: srv} }

func (clearCommand) Name() string        { return "clear" }
func (clearCommand) Aliases() []string   { return []string{"clearhistory"} }
func (clearCommand) Description() string { return "Sets every block in the current selection to air." }

func (c clearCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	min, max, ok := selectionBounds(c.srv, src, o)
	if !ok {
		return
	}
	w := c.srv.Plot().World
	sess := c.srv.Sessions().Session(src.Actor())
	sess.CaptureUndo(w, min, max)
	n := worldedit.ClearRegion(w, min, max)
	o.Print("%d block(s) have been cleared.", n)
}

type copyCommand struct{ srv Adapter }

func newCopyCommand(srv Adapter) cmd.Command { return copyCommand{srv: srv} }

func (copyCommand) Name() string        { return "copy" }
func (copyCommand) Aliases() []string   { return nil }
func (copyCommand) Description() string { return "Copies the current selection into the clipboard." }

func (c copyCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	min, max, ok := selectionBounds(c.srv, src, o)
	if !ok {
		return
	}
	sess := c.srv.Sessions().Session(src.Actor())
	sess.Clipboard = worldedit.CaptureRelative(c.srv.Plot().World, min, max, min)
	o.Print("%d block(s) have been copied.", sess.Clipboard.SizeX*sess.Clipboard.SizeY*sess.Clipboard.SizeZ)
}

type pasteCommand struct{ srv Adapter }

func newPasteCommand(srv Adapter) cmd.Command { return pasteCommand{srv: srv} }

func (pasteCommand) Name() string        { return "paste" }
func (pasteCommand) Aliases() []string   { return nil }
func (pasteCommand) Description() string { return "Pastes the clipboard at the given position." }

func (c pasteCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	sess := c.srv.Sessions().Session(src.Actor())
	if sess.Clipboard == nil {
		o.Error("clipboard is empty; //copy something first")
		return
	}
	pos, err := parsePos(args)
	if err != nil {
		o.Error("%s", err)
		return
	}
	ignoreAir := len(args) > 3 && args[3] == "-a"
	w := c.srv.Plot().World
	max := sess.Clipboard.BoundsAt(pos)
	sess.CaptureUndo(w, pos, max)
	n := worldedit.Paste(w, sess.Clipboard, pos, ignoreAir)
	o.Print("%d block(s) have been pasted.", n)
}

type flipCommand struct{ srv Adapter }

func newFlipCommand(srv Adapter) cmd.Command { return flipCommand{srv: srv} }

func (flipCommand) Name() string        { return "flip" }
func (flipCommand) Aliases() []string   { return nil }
func (flipCommand) Description() string { return "Flips the clipboard along an axis (x, y or z)." }

func (c flipCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	sess := c.srv.Sessions().Session(src.Actor())
	if sess.Clipboard == nil {
		o.Error("clipboard is empty; //copy something first")
		return
	}
	axis, err := parseAxis(args)
	if err != nil {
		o.Error("%s", err)
		return
	}
	sess.Clipboard = worldedit.Flip(sess.Clipboard, axis)
	o.Print("The clipboard copy has been flipped.")
}

type rotateCommand struct{ srv Adapter }

func newRotateCommand(srv Adapter) cmd.Command { return rotateCommand{srv: srv} }

func (rotateCommand) Name() string        { return "rotate" }
func (rotateCommand) Aliases() []string   { return nil }
func (rotateCommand) Description() string { return "Rotates the clipboard by a multiple of 90 degrees." }

func (c rotateCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	sess := c.srv.Sessions().Session(src.Actor())
	if sess.Clipboard == nil {
		o.Error("clipboard is empty; //copy something first")
		return
	}
	if len(args) != 1 {
		o.Error("usage: //rotate <degrees>")
		return
	}
	degrees, err := strconv.Atoi(args[0])
	if err != nil {
		o.Error("%q is not an integer", args[0])
		return
	}
	rotated, err := worldedit.Rotate(sess.Clipboard, degrees)
	if err != nil {
		o.Error("%s", err)
		return
	}
	sess.Clipboard = rotated
	o.Print("The clipboard copy has been rotated.")
}

type undoCommand struct{ srv Adapter }

func newUndoCommand(srv Adapter) cmd.Command { return undoCommand{srv: srv} }

func (undoCommand) Name() string        { return "undo" }
func (undoCommand) Aliases() []string   { return nil }
func (undoCommand) Description() string { return "Undoes the last WorldEdit operation." }

func (c undoCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	sess := c.srv.Sessions().Session(src.Actor())
	if !sess.Undo(c.srv.Plot().World) {
		o.Error("nothing left to undo")
		return
	}
	o.Print("Undo successful.")
}

type redoCommand struct{ srv Adapter }

func newRedoCommand(srv Adapter) cmd.Command { return redoCommand{srv: srv} }

func (redoCommand) Name() string        { return "redo" }
func (redoCommand) Aliases() []string   { return nil }
func (redoCommand) Description() string { return "Redoes the last undone WorldEdit operation." }

func (c redoCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	sess := c.srv.Sessions().Session(src.Actor())
	if !sess.Redo(c.srv.Plot().World) {
		o.Error("nothing left to redo")
		return
	}
	o.Print("Redo successful.")
}

func parseAxis(args []string) (axis block.Axis, err error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: //flip <x|y|z>")
	}
	switch strings.ToLower(args[0]) {
	case "x":
		return block.AxisX, nil
	case "y":
		return block.AxisY, nil
	case "z":
		return block.AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", args[0])
	}
}
