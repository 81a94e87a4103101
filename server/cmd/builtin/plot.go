package builtin

import (
	"strconv"

	"github.com/mchprs-go/mchprs/server/cmd"
)

type rtpsCommand struct{ srv Adapter }

func newRtpsCommand(srv Adapter) cmd.Command { return rtpsCommand{srv: srv} }

func (rtpsCommand) Name() string        { return "rtps" }
func (rtpsCommand) Aliases() []string   { return nil }
func (rtpsCommand) Description() string { return "Gets or sets the plot's target ticks per second." }

func (c rtpsCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	p := c.srv.Plot()
	if len(args) == 0 {
		o.Print("tps: %d", p.Conf().Tps)
		return
	}
	tps, err := strconv.Atoi(args[0])
	if err != nil || tps < 0 {
		o.Error("usage: //rtps <non-negative ticks per second, 0 for unlimited>")
		return
	}
	p.SetTps(tps)
	o.Print("tps set to %d.", tps)
}

type radvCommand struct{ srv Adapter }

func newRadvCommand(srv Adapter) cmd.Command { return radvCommand{srv: srv} }

func (radvCommand) Name() string        { return "radv" }
func (radvCommand) Aliases() []string   { return nil }
func (radvCommand) Description() string { return "Manually advances the plot by a number of ticks." }

func (c radvCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	if len(args) != 1 {
		o.Error("usage: //radv <ticks>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		o.Error("%q is not a positive integer", args[0])
		return
	}
	c.srv.Plot().TickN(n)
	o.Print("advanced %d tick(s).", n)
}

type worldSendRateCommand struct{ srv Adapter }

func newWorldSendRateCommand(srv Adapter) cmd.Command { return worldSendRateCommand{srv: srv} }

func (worldSendRateCommand) Name() string      { return "worldsendrate" }
func (worldSendRateCommand) Aliases() []string { return []string{"wsr"} }
func (worldSendRateCommand) Description() string {
	return "Gets or sets the minimum interval, in milliseconds, between block-change flushes."
}

func (c worldSendRateCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	p := c.srv.Plot()
	if len(args) == 0 {
		o.Print("world_send_rate_ms: %d", p.Conf().WorldSendRateMs)
		return
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms <= 0 {
		o.Error("usage: //worldsendrate <positive milliseconds>")
		return
	}
	p.SetWorldSendRateMs(ms)
	o.Print("world_send_rate_ms set to %d (takes effect next restart).", ms)
}

type stopCommand struct{ srv Adapter }

func newStopCommand(srv Adapter) cmd.Command { return stopCommand{srv: srv} }

func (stopCommand) Name() string        { return "stop" }
func (stopCommand) Aliases() []string   { return []string{"shutdown"} }
func (stopCommand) Description() string { return "Saves the plot and shuts the server down." }

func (c stopCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	if err := c.srv.Stop(); err != nil {
		o.Error("stop: %s", err)
		return
	}
	o.Print("stopping.")
}

type helpCommand struct{}

func newHelpCommand() cmd.Command { return helpCommand{} }

func (helpCommand) Name() string        { return "help" }
func (helpCommand) Aliases() []string   { return []string{"?"} }
func (helpCommand) Description() string { return "Lists every registered command." }

func (helpCommand) Run(src cmd.Source, o *cmd.Output, args []string) {
	for _, c := range cmd.All() {
		o.Print("/%s - %s", c.Name(), c.Description())
	}
}
