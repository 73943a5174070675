package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskQualifyLead = "chat:qualify_lead"

const TaskForwardServiceRequest = "leads:forward_request"

// TranscriptTurn is one exchange in a chat transcript, flattened for the
// task payload.
type TranscriptTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type QualifyLeadPayload struct {
	SessionID  string           `json:"sessionId"`
	Language   string           `json:"language"`
	Transcript []TranscriptTurn `json:"transcript"`
	ClosedAt   time.Time        `json:"closedAt"`
}

type ForwardServiceRequestPayload struct {
	SessionID      string    `json:"sessionId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Message        string    `json:"message"`
	ContactMethods []string  `json:"contactMethods"`
	ServiceTitle   string    `json:"serviceTitle"`
	RequestedAt    time.Time `json:"requestedAt"`
}

func NewQualifyLeadTask(payload QualifyLeadPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQualifyLead, data), nil
}

func ParseQualifyLeadPayload(task *asynq.Task) (QualifyLeadPayload, error) {
	var payload QualifyLeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QualifyLeadPayload{}, err
	}
	return payload, nil
}

func NewForwardServiceRequestTask(payload ForwardServiceRequestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskForwardServiceRequest, data), nil
}

func ParseForwardServiceRequestPayload(task *asynq.Task) (ForwardServiceRequestPayload, error) {
	var payload ForwardServiceRequestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ForwardServiceRequestPayload{}, err
	}
	return payload, nil
}
