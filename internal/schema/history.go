package schema

// HistoryRecord is one line of the sales log. Records written before the
// retention timestamp existed have no Timestamp.
type HistoryRecord struct {
	Date               string `json:"date"`
	Time               string `json:"time"`
	GuestName          string `json:"guestName"`
	ConfirmationNumber string `json:"confirmationNumber"`
	Amount             string `json:"amount"`
	Link               string `json:"link"`
	Timestamp          *int64 `json:"timestamp,omitempty"`
}

type HistoryResponse struct {
	Records      []HistoryRecord `json:"records"`
	Count        int             `json:"count"`
	TotalCharged Amount          `json:"totalCharged"`
}

type AgentIdentity struct {
	AgentName string `json:"agentName" binding:"required"`
}
