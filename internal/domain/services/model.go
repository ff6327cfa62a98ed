package services

import "time"

type Billing string

const (
	BillingPerHour    Billing = "perHour"
	BillingPerService Billing = "perService"
	BillingCustom     Billing = "custom"
)

type Category struct {
	ID          int64
	PublicID    string
	Name        string
	Description *string
	Accent      string
	CreatedAt   time.Time
}

type Service struct {
	ID          int64
	PublicID    string
	CategoryID  int64
	Name        string
	Price       int
	PriceLabel  string
	Billing     Billing
	Hint        *string
	Description *string
	Duration    *string
	Trainer     *string
	CreatedAt   time.Time
}
