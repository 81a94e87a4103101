package builtin

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/mchprs-go/mchprs/server/cmd"
	"github.com/mchprs-go/mchprs/server/plotconf"
	"github.com/mchprs-go/mchprs/server/worldedit"
)

// schematicNameRe restricts //schematic file names to a safe subset, so a
// crafted name can't escape plotconf.Config.SchematicsDir via "../".
var schematicNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type schematicCommand struct {
	srv  Adapter
	conf plotconf.Config
}

func newSchematicCommand(srv Adapter) cmd.Command {
	return schematicCommand{srv: srv, conf: srv.Plot().Conf()}
}

func (schematicCommand) Name() string        { return "schematic" }
func (schematicCommand) Aliases() []string   { return []string{"schem"} }
func (schematicCommand) Description() string { return "Saves or loads the clipboard as a .schem file." }

func (c schematicCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	if len(args) != 2 {
		o.Error("usage: //schematic <save|load> <name>")
		return
	}
	if !schematicNameRe.MatchString(args[1]) {
		o.Error("invalid schematic name %q", args[1])
		return
	}
	path := filepath.Join(c.conf.SchematicsDir, args[1]+".schem")
	sess := c.srv.Sessions().Session(src.Actor())

	switch args[0] {
	case "save":
		if sess.Clipboard == nil {
			o.Error("clipboard is empty; //copy something first")
			return
		}
		if err := os.MkdirAll(c.conf.SchematicsDir, 0755); err != nil {
			o.Error("%s", err)
			return
		}
		f, err := os.Create(path)
		if err != nil {
			o.Error("%s", err)
			return
		}
		defer f.Close()
		if err := worldedit.SaveSchematic(f, sess.Clipboard); err != nil {
			o.Error("%s", err)
			return
		}
		o.Print("saved %s.", args[1])
	case "load":
		f, err := os.Open(path)
		if err != nil {
			o.Error("%s", err)
			return
		}
		defer f.Close()
		clip, err := worldedit.LoadSchematic(f)
		if err != nil {
			o.Error("%s", err)
			return
		}
		sess.Clipboard = clip
		o.Print("loaded %s.", args[1])
	default:
		o.Error("unknown subcommand %q; expected save or load", args[0])
	}
}
