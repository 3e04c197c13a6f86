package questions

import "time"

// QuestionResponse is the API shape of a question.
type QuestionResponse struct {
	ID         string     `json:"id"`
	DocumentID string     `json:"documentId"`
	Question   string     `json:"question"`
	Answer     *string    `json:"answer,omitempty"`
	Status     string     `json:"status"`
	ErrorCode  string     `json:"errorCode,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

func toResponse(q Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		DocumentID: q.DocumentID,
		Question:   q.Question,
		Answer:     q.Answer,
		Status:     q.Status,
		ErrorCode:  q.ErrorCode,
		CreatedAt:  q.CreatedAt,
		AnsweredAt: q.AnsweredAt,
	}
}

func toResponses(qs []Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, toResponse(q))
	}
	return out
}
