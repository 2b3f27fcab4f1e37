package mode

// Transition computes the mode that follows current when trigger occurs.
//
// Transition is pure: it depends only on its arguments and never touches
// buffer content. Pairs it does not recognize return current unchanged.
func Transition(current Mode, trigger Trigger) Mode {
	if trigger == TriggerEscape {
		return Normal()
	}

	if current.kind == KindCommand && trigger == TriggerEnter {
		return Normal()
	}

	if preserves(current, trigger) {
		return current
	}

	if trigger.IsMouse() {
		return mouseTransition(current, trigger)
	}

	switch current.kind {
	case KindNormal:
		if next, ok := fromNormal(trigger); ok {
			return next
		}
	case KindInsert:
		if trigger.IsInsertOperation() {
			return current
		}
	case KindVisual:
		if next, ok := fromVisual(current, trigger); ok {
			return next
		}
	}

	if trigger.IsSelection() && current.AllowsSelection() {
		if current.kind == KindNormal {
			return Visual(VisualChar)
		}
		return current
	}

	return current
}

// preserves reports whether trigger is a movement, clipboard or scroll
// trigger that the current mode permits.
func preserves(current Mode, trigger Trigger) bool {
	switch {
	case trigger.IsWordMovement():
		return current.AllowsWordMovement()
	case trigger.IsPageMovement():
		return current.AllowsPageMovement()
	case trigger.IsMovement():
		return current.AllowsCursorMovement()
	case trigger.IsClipboard():
		return current.allowsClipboard(trigger)
	case trigger.IsScroll():
		return current.AllowsScrolling()
	}
	return false
}

// allowsClipboard gates system clipboard triggers. Cut needs cut
// permission; copy and paste are available wherever text can be selected
// or typed.
func (m Mode) allowsClipboard(trigger Trigger) bool {
	if trigger == TriggerSystemCut {
		return m.AllowsCut()
	}
	return true
}

func mouseTransition(current Mode, trigger Trigger) Mode {
	if !current.AllowsMouse() {
		return current
	}
	switch trigger {
	case TriggerMouseDoubleClick:
		return Visual(VisualChar)
	case TriggerMouseTripleClick:
		return Visual(VisualLine)
	case TriggerMouseDrag:
		if current.kind == KindVisual {
			return current
		}
		return Visual(VisualChar)
	}
	return current
}

func fromNormal(trigger Trigger) (Mode, bool) {
	switch trigger {
	case TriggerInsert:
		return Insert(InsertPlain), true
	case TriggerInsertAppend:
		return Insert(InsertAppend), true
	case TriggerInsertAppendEnd:
		return Insert(InsertAppendEnd), true
	case TriggerInsertLineStart:
		return Insert(InsertLineStart), true
	case TriggerInsertLineBelow:
		return Insert(InsertLineBelow), true
	case TriggerInsertLineAbove:
		return Insert(InsertLineAbove), true
	case TriggerInsertReplace:
		return Insert(InsertReplace), true
	case TriggerVisualChar:
		return Visual(VisualChar), true
	case TriggerVisualLine:
		return Visual(VisualLine), true
	case TriggerVisualBlock:
		return Visual(VisualBlock), true
	case TriggerCommandMode:
		return Command(CommandRegular), true
	case TriggerSearchForward:
		return Command(CommandSearch), true
	case TriggerSearchBackward:
		return Command(CommandBackward), true
	}
	return Mode{}, false
}

func fromVisual(current Mode, trigger Trigger) (Mode, bool) {
	switch trigger {
	case TriggerVisualChar:
		return Visual(VisualChar), true
	case TriggerVisualLine:
		return Visual(VisualLine), true
	case TriggerVisualBlock:
		return Visual(VisualBlock), true
	case TriggerVisualYank, TriggerVisualDelete:
		return Normal(), true
	case TriggerVisualChange:
		return Insert(InsertPlain), true
	case TriggerVisualIndent, TriggerVisualDedent:
		return current, true
	}
	return Mode{}, false
}
