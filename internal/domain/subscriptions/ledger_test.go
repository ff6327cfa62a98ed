package subscriptions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eywa-space/crm/internal/domain/payments"
)

func strPtr(s string) *string { return &s }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bodyPayment(id, clientID, name string, qty int, createdAt string) payments.Payment {
	p := payments.Payment{
		PublicID:        id,
		ClientName:      strPtr("Иванова Анна"),
		ServiceName:     name,
		ServiceCategory: strPtr("body"),
		Quantity:        qty,
		CreatedAt:       date(createdAt),
	}
	if clientID != "" {
		p.ClientID = strPtr(clientID)
	}
	return p
}

func TestBuildRows_GroupsByClientAndType(t *testing.T) {
	t.Parallel()

	// total извлекается из названия для каждого платежа отдельно и суммируется:
	// 12+12=24, остатки 5+2=7, дата — самая ранняя.
	list := []payments.Payment{
		bodyPayment("p1", "c1", "Body 12 занятий", 5, "2025-01-01"),
		bodyPayment("p2", "c1", "Body 12 занятий", 2, "2025-02-01"),
	}

	rows := BuildRows(list, "body")
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "c1", row.ClientID)
	assert.Equal(t, "Body 12 занятий", row.Type)
	assert.Equal(t, 24, row.Total)
	assert.Equal(t, 7, row.Left)
	assert.Equal(t, date("2025-01-01"), row.PurchasedAt)
	assert.Equal(t, "p1", row.PaymentID)
}

func TestBuildRows_DropsZeroQuantity(t *testing.T) {
	t.Parallel()

	list := []payments.Payment{
		bodyPayment("p1", "c1", "Body 8 занятий", 0, "2025-01-01"),
		bodyPayment("p2", "c2", "Body 8 занятий", -1, "2025-01-01"),
	}
	assert.Empty(t, BuildRows(list, "body"))
}

func TestBuildRows_DropsSingleVisits(t *testing.T) {
	t.Parallel()

	list := []payments.Payment{
		// total=1 и left=1 — разовое занятие
		bodyPayment("p1", "c1", "Body 1 занятие", 1, "2025-01-01"),
		// «разовое» в названии исключается независимо от количества
		bodyPayment("p2", "c2", "Body разовое посещение", 3, "2025-01-01"),
		// не похоже на пакет: total=1 и нет слова «абонемент»
		bodyPayment("p3", "c3", "Body пробное", 1, "2025-01-01"),
	}
	assert.Empty(t, BuildRows(list, "body"))
}

func TestBuildRows_KeepsNamedPackageWithoutCount(t *testing.T) {
	t.Parallel()

	// Числа в названии нет: total берётся из quantity (остатка).
	list := []payments.Payment{
		bodyPayment("p1", "c1", "Абонемент Body безлимит", 6, "2025-03-01"),
	}

	rows := BuildRows(list, "body")
	require.Len(t, rows, 1)
	assert.Equal(t, 6, rows[0].Total)
	assert.Equal(t, 6, rows[0].Left)
}

func TestBuildRows_FiltersByCategoryOrName(t *testing.T) {
	t.Parallel()

	other := payments.Payment{
		PublicID:        "p1",
		ClientID:        strPtr("c1"),
		ClientName:      strPtr("Петров"),
		ServiceName:     "Coworking день",
		ServiceCategory: strPtr("coworking"),
		Quantity:        10,
		CreatedAt:       date("2025-01-01"),
	}
	// Категории нет, но ключевое слово есть в названии.
	byName := payments.Payment{
		PublicID:    "p2",
		ClientID:    strPtr("c2"),
		ClientName:  strPtr("Сидорова"),
		ServiceName: "BODY 16 занятий",
		Quantity:    4,
		CreatedAt:   date("2025-01-01"),
	}
	// Категория совпадает без учёта регистра.
	byCategory := payments.Payment{
		PublicID:        "p3",
		ClientID:        strPtr("c3"),
		ClientName:      strPtr("Кузнецова"),
		ServiceName:     "Фитнес 8 занятий",
		ServiceCategory: strPtr("BODY"),
		Quantity:        8,
		CreatedAt:       date("2025-01-01"),
	}

	rows := BuildRows([]payments.Payment{other, byName, byCategory}, "body")
	require.Len(t, rows, 2)
	assert.Equal(t, "p2", rows[0].PaymentID)
	assert.Equal(t, "p3", rows[1].PaymentID)
}

func TestBuildRows_MergesNamesakesWithoutID(t *testing.T) {
	t.Parallel()

	// Без client_id ключ строится по имени: два тёзки сливаются в одну
	// строку. Известный пробел в данных, поведение сохранено сознательно.
	a := bodyPayment("p1", "", "Body 8 занятий", 3, "2025-01-01")
	b := bodyPayment("p2", "", "Body 8 занятий", 5, "2025-02-01")

	rows := BuildRows([]payments.Payment{a, b}, "body")
	require.Len(t, rows, 1)
	assert.Equal(t, 8, rows[0].Left)
	assert.Equal(t, 16, rows[0].Total)
}

func TestBuildRows_KeepsFirstOccurrenceOrder(t *testing.T) {
	t.Parallel()

	list := []payments.Payment{
		bodyPayment("p1", "c1", "Body 8 занятий", 2, "2025-01-01"),
		bodyPayment("p2", "c2", "Body 12 занятий", 3, "2025-01-02"),
		bodyPayment("p3", "c1", "Body 8 занятий", 4, "2025-01-03"),
	}

	rows := BuildRows(list, "body")
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0].PaymentID)
	assert.Equal(t, "p2", rows[1].PaymentID)
}

func TestBalanceBand_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  int
		total int
		want  Band
	}{
		{"закончился", 0, 12, BandGray},
		{"ровно 25%", 3, 12, BandRed},
		{"ровно 50%", 6, 12, BandAmber},
		{"чуть больше 50%", 51, 100, BandGreen},
		{"полный", 12, 12, BandGreen},
		{"нулевой total", 0, 0, BandGray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BalanceBand(tt.left, tt.total))
		})
	}
}

func TestBand_Color(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#6B7280", BandGray.Color())
	assert.Equal(t, "#EF4444", BandRed.Color())
	assert.Equal(t, "#F59E0B", BandAmber.Color())
	assert.Equal(t, "#10B981", BandGreen.Color())
}
