package service

import (
	"time"

	"todo-api/internal/domain"
)

// TodoUpdate es la entrada parcial de un update. Solo existen estos dos campos.
type TodoUpdate struct {
	Text      *string
	Completed *bool
}

// NormalizeTodoUpdate acopla completed y completedAt: solo un true explicito
// marca el todo como completado con la hora actual; cualquier otro caso lo
// deja pendiente y sin fecha. Text se copia sin cambios.
func NormalizeTodoUpdate(input TodoUpdate, now time.Time) domain.TodoChanges {
	changes := domain.TodoChanges{Text: input.Text}
	if input.Completed != nil && *input.Completed {
		at := now.UnixMilli()
		changes.Completed = true
		changes.CompletedAt = &at
	}
	return changes
}
