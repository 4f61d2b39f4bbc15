package keymap

// Built-in actions implemented by the line-editing engine.
const (
	ActionInsert         = "ed-insert"
	ActionNewline        = "ed-newline"
	ActionDeletePrevChar = "ed-delete-prev-char"
	ActionDeleteNextChar = "ed-delete-next-char"
	ActionDeleteOrEOF    = "em-delete-or-eof"
	ActionDeletePrevWord = "ed-delete-prev-word"
	ActionDeleteNextWord = "em-delete-next-word"
	ActionPrevChar       = "ed-prev-char"
	ActionNextChar       = "ed-next-char"
	ActionPrevWord       = "ed-prev-word"
	ActionNextWord       = "em-next-word"
	ActionMoveToBeg      = "ed-move-to-beg"
	ActionMoveToEnd      = "ed-move-to-end"
	ActionKillLine       = "ed-kill-line"
	ActionKillToBeg      = "ed-kill-to-beg"
	ActionTransposeChars = "ed-transpose-chars"
	ActionPrevHistory    = "ed-prev-history"
	ActionNextHistory    = "ed-next-history"
	ActionClearScreen    = "ed-clear-screen"
	ActionInterrupt      = "ed-interrupt"
	ActionUndo           = "em-undo"
	ActionUnassigned     = "ed-unassigned"
)

// Actions registered by the editor on top of the engine. Apart from
// ActionComplete they are only bound in MultiLine mode.
const (
	ActionComplete               = "el-complete"
	ActionEndOrAddLine           = "el-end-or-add-line"
	ActionBreakLine              = "el-break-line"
	ActionPreviousLine           = "el-previous-line"
	ActionNextLine               = "el-next-line"
	ActionDeletePreviousChar     = "el-delete-previous-char"
	ActionDeleteFollowingChar    = "el-delete-next-char"
	ActionRevertLine             = "el-revert-line"
	ActionBufferStart            = "el-buffer-start"
	ActionBufferEnd              = "el-buffer-end"
	ActionPreviousLogicalHistory = "el-previous-history"
	ActionNextLogicalHistory     = "el-next-history"
)
