package clients

import "time"

type Client struct {
	ID        int64
	PublicID  string
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Visit struct {
	ID        int64
	ClientID  string
	VisitedAt time.Time
	CreatedAt time.Time
}
