package builtin

import (
	"github.com/mchprs-go/mchprs/server/cmd"
)

type redpilerCommand struct{ srv Adapter }

func newRedpilerCommand(srv Adapter) cmd.Command { return redpilerCommand{srv: srv} }

func (redpilerCommand) Name() string      { return "redpiler" }
func (redpilerCommand) Aliases() []string { return []string{"rp"} }
func (redpilerCommand) Description() string {
	return "Controls the compiled redstone backend: compile, reset or inspect."
}

func (c redpilerCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	if len(args) != 1 {
		o.Error("usage: //redpiler <compile|reset|inspect>")
		return
	}
	p := c.srv.Plot()
	switch args[0] {
	case "compile":
		if p.Redpiler() {
			o.Error("already compiled; //redpiler reset first")
			return
		}
		p.StartRedpiler()
		o.Print("redpiler compiled.")
	case "reset":
		if !p.Redpiler() {
			o.Error("not compiled")
			return
		}
		p.StopRedpiler()
		o.Print("redpiler reset.")
	case "inspect":
		snap := p.Metrics().Snapshot()
		o.Print("compiled: %t", p.Redpiler())
		o.Print("nodes: %d (signature %x)", snap.NodesCompiled, snap.GraphSignature)
		o.Print("ticks run: %d, compiles: %d, resets: %d", snap.TicksRun, snap.CompileCount, snap.ResetCount)
	default:
		o.Error("unknown subcommand %q; expected compile, reset or inspect", args[0])
	}
}
