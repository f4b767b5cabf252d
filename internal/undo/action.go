package undo

import "tasklist-cli/internal/model"

// Type is the wire tag of an Action.
type Type string

const (
	TypeAddTodo          Type = "addTodo"
	TypeDeleteTodo       Type = "deleteTodo"
	TypeToggleTodo       Type = "toggleTodo"
	TypeEditTodo         Type = "editTodo"
	TypeAddList          Type = "addList"
	TypeDeleteList       Type = "deleteList"
	TypeEditList         Type = "editList"
	TypeMoveTodos        Type = "moveTodos"
	TypeReorderTodos     Type = "reorderTodos"
	TypeUpdateTodoOrder  Type = "updateTodoOrder"
	TypeBatchDeleteTodos Type = "batchDeleteTodos"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAddTodo, TypeDeleteTodo, TypeToggleTodo, TypeEditTodo,
		TypeAddList, TypeDeleteList, TypeEditList,
		TypeMoveTodos, TypeReorderTodos, TypeUpdateTodoOrder, TypeBatchDeleteTodos:
		return true
	default:
		return false
	}
}

// Action is one reversible record. The set of implementations is closed to this package.
type Action interface {
	Type() Type
	sealed()
}

// AddTodo is undone by deleting the created task.
type AddTodo struct {
	TodoID string `json:"todoId"`
}

// DeleteTodo carries the full snapshot of the removed task.
type DeleteTodo struct {
	Todo model.Task `json:"todo"`
}

type ToggleTodo struct {
	TodoID            string `json:"todoId"`
	PreviousCompleted bool   `json:"previousCompleted"`
}

type EditTodo struct {
	TodoID       string `json:"todoId"`
	PreviousText string `json:"previousText"`
}

type AddList struct {
	ListID string `json:"listId"`
}

// DeleteList carries the removed list and every task that was cascaded with it.
type DeleteList struct {
	List  model.List   `json:"list"`
	Todos []model.Task `json:"todos"`
}

type EditList struct {
	ListID       string `json:"listId"`
	PreviousName string `json:"previousName"`
}

// MoveTodos records each task's origin separately; a batch may come from several lists.
// OriginalListIDs values use the "default" sentinel for unfiled tasks.
type MoveTodos struct {
	TodoIDs         []string          `json:"todoIds"`
	OriginalListIDs map[string]string `json:"originalListIds"`
	OriginalOrders  map[string]int64  `json:"originalOrders,omitempty"`
}

type ReorderTodos struct {
	TodoIDs        []string         `json:"todoIds"`
	OriginalOrders map[string]int64 `json:"originalOrders"`
}

type UpdateTodoOrder struct {
	TodoID        string `json:"todoId"`
	PreviousOrder int64  `json:"previousOrder"`
}

type BatchDeleteTodos struct {
	Todos []model.Task `json:"todos"`
}

func (AddTodo) Type() Type          { return TypeAddTodo }
func (DeleteTodo) Type() Type       { return TypeDeleteTodo }
func (ToggleTodo) Type() Type       { return TypeToggleTodo }
func (EditTodo) Type() Type         { return TypeEditTodo }
func (AddList) Type() Type          { return TypeAddList }
func (DeleteList) Type() Type       { return TypeDeleteList }
func (EditList) Type() Type         { return TypeEditList }
func (MoveTodos) Type() Type        { return TypeMoveTodos }
func (ReorderTodos) Type() Type     { return TypeReorderTodos }
func (UpdateTodoOrder) Type() Type  { return TypeUpdateTodoOrder }
func (BatchDeleteTodos) Type() Type { return TypeBatchDeleteTodos }

func (AddTodo) sealed()          {}
func (DeleteTodo) sealed()       {}
func (ToggleTodo) sealed()       {}
func (EditTodo) sealed()         {}
func (AddList) sealed()          {}
func (DeleteList) sealed()       {}
func (EditList) sealed()         {}
func (MoveTodos) sealed()        {}
func (ReorderTodos) sealed()     {}
func (UpdateTodoOrder) sealed()  {}
func (BatchDeleteTodos) sealed() {}
