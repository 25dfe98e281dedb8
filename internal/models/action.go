package models

import "encoding/json"

// ActionKind is the "action" discriminator of an entry in a model's action list.
type ActionKind string

const (
	ActionAddFile    ActionKind = "addFile"
	ActionEditFile   ActionKind = "editFile"
	ActionRunCommand ActionKind = "runCommand"
)

// Action is one discrete mutation derived from a model response.
// Implementations: AddFile, EditFile, RunCommand, UnknownAction.
type Action interface {
	Kind() ActionKind
	// Target is the path or command the action operates on, for reporting.
	Target() string
}

// AddFile creates or fully replaces a file.
type AddFile struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

func (a AddFile) Kind() ActionKind { return ActionAddFile }
func (a AddFile) Target() string   { return a.FileName }

func (a AddFile) MarshalJSON() ([]byte, error) {
	type plain AddFile
	return json.Marshal(struct {
		Action ActionKind `json:"action"`
		plain
	}{ActionAddFile, plain(a)})
}

// EditFile removes lines by their 1-based number and inserts Content as a
// single line at the 1-based position InsertLine.
type EditFile struct {
	FileName    string `json:"fileName"`
	RemoveLines []int  `json:"removeLines"`
	InsertLine  int    `json:"insertLine"`
	Content     string `json:"content"`
}

func (e EditFile) Kind() ActionKind { return ActionEditFile }
func (e EditFile) Target() string   { return e.FileName }

func (e EditFile) MarshalJSON() ([]byte, error) {
	type plain EditFile
	return json.Marshal(struct {
		Action ActionKind `json:"action"`
		plain
	}{ActionEditFile, plain(e)})
}

// RunCommand executes a shell command.
type RunCommand struct {
	Command string `json:"command"`
}

func (r RunCommand) Kind() ActionKind { return ActionRunCommand }
func (r RunCommand) Target() string   { return r.Command }

func (r RunCommand) MarshalJSON() ([]byte, error) {
	type plain RunCommand
	return json.Marshal(struct {
		Action ActionKind `json:"action"`
		plain
	}{ActionRunCommand, plain(r)})
}

// UnknownAction carries an entry whose discriminator is not recognized.
// The executor reports and skips it.
type UnknownAction struct {
	Name string
	Raw  json.RawMessage
}

func (u UnknownAction) Kind() ActionKind { return ActionKind(u.Name) }
func (u UnknownAction) Target() string   { return "" }

func (u UnknownAction) MarshalJSON() ([]byte, error) {
	if len(u.Raw) > 0 {
		return u.Raw, nil
	}
	return json.Marshal(map[string]string{"action": u.Name})
}
