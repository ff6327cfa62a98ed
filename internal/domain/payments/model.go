package payments

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Payment struct {
	ID              int64
	PublicID        string
	ClientID        *string
	ClientName      *string
	ClientPhone     *string
	ServiceID       *string
	ServiceName     string
	ServiceCategory *string
	TotalAmount     int
	CashAmount      int
	TransferAmount  int
	// Quantity — остаток занятий по этой покупке, списание уменьшает его до 0.
	Quantity  int
	Hours     *int
	Comment   *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
