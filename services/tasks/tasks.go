package tasks

import (
	"encoding/json"
	"time"

	"glowbook/models"

	"github.com/hibiken/asynq"
)

const (
	TypeEmailSend        = "email:send"
	TypePaymentReconcile = "payment:reconcile"
)

// ReconcilePayload names the intent a delayed reconcile task should sweep.
type ReconcilePayload struct {
	Reference string `json:"reference"`
}

func NewEmailTask(payload models.EmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, b), nil
}

// NewReconcileTask schedules a reconcile sweep for a reference. Used as the
// safety net for webhooks that never arrive; reconcile is idempotent, so a
// sweep of an already-resolved intent is a no-op.
func NewReconcileTask(reference string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ReconcilePayload{Reference: reference})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePaymentReconcile, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
