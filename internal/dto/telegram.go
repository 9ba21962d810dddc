package dto

// Event is the normalized inbound user event the wizard consumes. Either
// Text (a typed message) or Selection (a pressed inline button token) is set.
type Event struct {
	UserID    int64
	ChatID    int64
	Text      string
	Selection string
}

// Input returns the effective user input of the event: the selection token
// when a button was pressed, the raw text otherwise.
func (e Event) Input() string {
	if e.Selection != "" {
		return e.Selection
	}
	return e.Text
}

// Option is one selectable affordance attached to a prompt.
type Option struct {
	Label string
	Token string
}

// Prompt is the single outbound message a wizard transition emits. The
// delivery layer renders Options as an inline keyboard.
type Prompt struct {
	Text    string
	Options []Option
}
