// Package builtin implements the commands registered into server/cmd: the
// WorldEdit selection/editing toolkit, schematic load/save, redpiler
// control, plot tick-rate administration, and server shutdown.
package builtin

import (
	"github.com/mchprs-go/mchprs/server/plot"
	"github.com/mchprs-go/mchprs/server/worldedit"
)

// Adapter gives every builtin command access to the single plot and the
// WorldEdit session set it edits, without coupling the commands themselves
// to however the runtime wires a plot and its sessions together.
type Adapter interface {
	Plot() *plot.Plot
	Sessions() *worldedit.Manager
	Stop() error
}
