package subscriptions

import "time"

// Row — агрегированный абонемент: все платежи одного клиента по одному типу
// услуги, свёрнутые в одну строку с суммарным остатком.
type Row struct {
	ID          string
	Client      string
	ClientID    string // пустая строка, если платёж не привязан к клиенту
	Type        string
	Left        int
	PurchasedAt time.Time
	Total       int
	PaymentID   string
}

type Band string

const (
	BandGray  Band = "gray"
	BandRed   Band = "red"
	BandAmber Band = "amber"
	BandGreen Band = "green"
)

var bandColors = map[Band]string{
	BandGray:  "#6B7280",
	BandRed:   "#EF4444",
	BandAmber: "#F59E0B",
	BandGreen: "#10B981",
}

func (b Band) Color() string { return bandColors[b] }

// BalanceBand классифицирует остаток по доле от общего числа занятий.
// Границы включительные снизу: ровно 25% — красный, ровно 50% — жёлтый.
func BalanceBand(left, total int) Band {
	if total <= 0 || left <= 0 {
		return BandGray
	}
	ratio := float64(left) / float64(total)
	switch {
	case ratio <= 0.25:
		return BandRed
	case ratio <= 0.50:
		return BandAmber
	default:
		return BandGreen
	}
}
