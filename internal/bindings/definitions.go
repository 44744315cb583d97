package bindings

const (
	ActionMoveUp       ActionID = "move_up"
	ActionMoveDown     ActionID = "move_down"
	ActionMoveLeft     ActionID = "move_left"
	ActionMoveRight    ActionID = "move_right"
	ActionMoveNext     ActionID = "move_next"
	ActionMovePrev     ActionID = "move_prev"
	ActionFocusSearch  ActionID = "focus_search"
	ActionToggleHelp   ActionID = "toggle_help"
	ActionClearSelect  ActionID = "clear_selection"
	ActionQuit         ActionID = "quit"
	ActionScrollTop    ActionID = "scroll_top"
	ActionScrollBottom ActionID = "scroll_bottom"
)

type definition struct {
	id       ActionID
	help     string
	defaults []string
}

var definitions = []definition{
	{id: ActionMoveUp, help: "Move up", defaults: []string{"up", "w"}},
	{id: ActionMoveDown, help: "Move down", defaults: []string{"down", "s"}},
	{id: ActionMoveLeft, help: "Move left", defaults: []string{"left", "a"}},
	{id: ActionMoveRight, help: "Move right", defaults: []string{"right", "d"}},
	{id: ActionMoveNext, help: "Next card", defaults: []string{"tab"}},
	{id: ActionMovePrev, help: "Previous card", defaults: []string{"shift+tab"}},
	{id: ActionFocusSearch, help: "Search cards", defaults: []string{"/"}},
	{id: ActionToggleHelp, help: "Toggle help", defaults: []string{"?"}},
	{id: ActionClearSelect, help: "Clear selection", defaults: []string{"backspace"}},
	{id: ActionQuit, help: "Quit", defaults: []string{"ctrl+c", "q"}},
	{id: ActionScrollTop, help: "First card", defaults: []string{"home"}},
	{id: ActionScrollBottom, help: "Last card", defaults: []string{"end"}},
}

var definitionLookup = func() map[ActionID]definition {
	out := make(map[ActionID]definition, len(definitions))
	for _, def := range definitions {
		out[def.id] = def
	}
	return out
}()

// Help returns the human readable description of an action.
func Help(id ActionID) string {
	return definitionLookup[id].help
}
