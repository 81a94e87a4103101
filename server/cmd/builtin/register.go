package builtin

import "github.com/mchprs-go/mchprs/server/cmd"

// Register registers the full built-in command set against srv.
func Register(srv Adapter) {
	cmd.Register(newPos1Command(srv))
	cmd.Register(newPos2Command(srv))
	cmd.Register(newSetCommand(srv))
	cmd.Register(newReplaceCommand(srv))
	cmd.Register(newCopyCommand(srv))
	cmd.Register(newPasteCommand(srv))
	cmd.Register(newClearCommand(srv))
	cmd.Register(newFlipCommand(srv))
	cmd.Register(newRotateCommand(srv))
	cmd.Register(newUndoCommand(srv))
	cmd.Register(newRedoCommand(srv))
	cmd.Register(newSchematicCommand(srv))
	cmd.Register(newRedpilerCommand(srv))
	cmd.Register(newRtpsCommand(srv))
	cmd.Register(newRadvCommand(srv))
	cmd.Register(newWorldSendRateCommand(srv))
	cmd.Register(newStopCommand(srv))
	cmd.Register(newHelpCommand())
}
