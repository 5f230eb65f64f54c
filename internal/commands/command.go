package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeGoto     Type = "goto"
	TypeAdd      Type = "add"
	TypeEdit     Type = "edit"
	TypeCategory Type = "category"
	TypeRemind   Type = "remind"
	TypeFilter   Type = "filter"
	TypeView     Type = "view"
	TypeHelp     Type = "help"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type GotoArgs struct {
	Number int
}

type TextArgs struct {
	Text string
}

// FilterArgs selects a category. All is set for "filter all" or a bare
// "filter"; "filter none" selects uncategorized tasks.
type FilterArgs struct {
	Category string
	All      bool
}

type ViewArgs struct {
	Completed bool
}

type Command struct {
	Type   Type
	Raw    string
	Goto   *GotoArgs
	Text   *TextArgs
	Filter *FilterArgs
	View   *ViewArgs
}

var aliases = map[string]Type{
	"g":   TypeGoto,
	"a":   TypeAdd,
	"new": TypeAdd,
	"e":   TypeEdit,
	"cat": TypeCategory,
	"c":   TypeCategory,
	"r":   TypeRemind,
	"f":   TypeFilter,
	"v":   TypeView,
	"h":   TypeHelp,
	"?":   TypeHelp,
}

// Parse reads one prompt line. A bare number is a goto.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, ":"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return Command{Type: TypeGoto, Raw: input, Goto: &GotoArgs{Number: n}}, nil
	}

	head, rest, _ := strings.Cut(raw, " ")
	head = strings.ToLower(head)
	rest = strings.TrimSpace(rest)
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeGoto:
		return parseGoto(input, rest)
	case TypeAdd, TypeEdit:
		if rest == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires task text", typ)}
		}
		return Command{Type: typ, Raw: input, Text: &TextArgs{Text: rest}}, nil
	case TypeCategory, TypeRemind:
		// empty text clears the category or the reminder
		return Command{Type: typ, Raw: input, Text: &TextArgs{Text: rest}}, nil
	case TypeFilter:
		return parseFilter(input, rest), nil
	case TypeView:
		return parseView(input, rest)
	case TypeHelp:
		return Command{Type: TypeHelp, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseGoto(raw, arg string) (Command, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires an item number"}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Number: n}}, nil
}

func parseFilter(raw, arg string) Command {
	switch strings.ToLower(arg) {
	case "", "all", "*":
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{All: true}}
	case "none", "-":
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{}}
	default:
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Category: arg}}
	}
}

func parseView(raw, arg string) (Command, error) {
	switch strings.ToLower(arg) {
	case "current", "cur", "active":
		return Command{Type: TypeView, Raw: raw, View: &ViewArgs{}}, nil
	case "completed", "done":
		return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Completed: true}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires current or completed"}
	}
}
