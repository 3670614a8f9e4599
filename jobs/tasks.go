package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpireDocumentRequests rejects document requests whose payment
	// window has elapsed.
	TaskExpireDocumentRequests = "registrar:expire_document_requests"
)

// NewExpireDocumentRequestsTask constructs an Asynq task. The sweep takes no
// parameters; the cutoff is always the invocation time.
func NewExpireDocumentRequestsTask() *asynq.Task {
	return asynq.NewTask(TaskExpireDocumentRequests, nil)
}
