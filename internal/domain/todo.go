package domain

import "time"

// Todo es una tarea perteneciente a una cuenta.
// CompletedAt (milisegundos desde epoch) es no nulo si y solo si Completed.
type Todo struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CompletedAt *int64    `json:"completedAt"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"-"`
}

// TodoChanges son los campos ya normalizados que se persisten en un update.
type TodoChanges struct {
	Text        *string
	Completed   bool
	CompletedAt *int64
}

// Apply devuelve una copia del todo con los cambios aplicados.
func (c TodoChanges) Apply(t Todo) Todo {
	if c.Text != nil {
		t.Text = *c.Text
	}
	t.Completed = c.Completed
	t.CompletedAt = c.CompletedAt
	return t
}
