package model

// QueueResponse is returned by the queue join and check endpoints. While the
// client is queued it carries a fresh ticket and a suggested poll interval;
// once the backend grants a session the AuthData fields are set and the
// ticket fields are omitted.
type QueueResponse struct {
	QueueTicket     string `json:"queueTicket,omitempty"`
	RetrySuggestion int64  `json:"retrySuggestion,omitempty"` // milliseconds

	AuthData
}

// Granted reports whether the response carries session credentials rather
// than a queue ticket.
func (q *QueueResponse) Granted() bool {
	return q != nil && q.AccessToken != ""
}
