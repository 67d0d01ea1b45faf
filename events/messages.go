package events

import (
	"encoding/json"
	"time"

	"loan-calculator/domain"
)

// CalculationCompletedMessage announces a finished calculation. It carries
// the request and its rounded summary, never the schedule.
type CalculationCompletedMessage struct {
	ID                string    `json:"id"`
	Principal         float64   `json:"principal"`
	AnnualRatePercent float64   `json:"annual_rate_percent"`
	TermMonths        int       `json:"term_months"`
	MonthlyPayment    float64   `json:"monthly_payment"`
	TotalPayment      float64   `json:"total_payment"`
	TotalInterest     float64   `json:"total_interest"`
	Timestamp         time.Time `json:"timestamp"`
}

// NewCalculationCompletedMessage builds the message for a record.
func NewCalculationCompletedMessage(record domain.CalculationRecord) *CalculationCompletedMessage {
	return &CalculationCompletedMessage{
		ID:                record.ID,
		Principal:         record.Request.Principal,
		AnnualRatePercent: record.Request.AnnualRatePercent,
		TermMonths:        record.Request.TermMonths,
		MonthlyPayment:    record.Summary.MonthlyPayment,
		TotalPayment:      record.Summary.TotalPayment,
		TotalInterest:     record.Summary.TotalInterest,
		Timestamp:         record.CreatedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *CalculationCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CalculationCompletedMessageFromJSON decodes a message body.
func CalculationCompletedMessageFromJSON(data []byte) (*CalculationCompletedMessage, error) {
	var msg CalculationCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
