package subscriptions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/eywa-space/crm/internal/domain/payments"
)

var totalRe = regexp.MustCompile(`(?i)(\d+)\s*занят`)

// BuildRows сворачивает плоский список платежей в строки абонементов:
// оставляет только пакеты по нужному направлению, исключает разовые визиты
// и группирует платежи одного клиента по типу услуги.
func BuildRows(list []payments.Payment, category string) []Row {
	keyword := strings.ToLower(category)

	var rows []Row
	for _, p := range list {
		categoryMatch := p.ServiceCategory != nil && strings.EqualFold(*p.ServiceCategory, category)
		nameMatch := strings.Contains(strings.ToLower(p.ServiceName), keyword)
		if (!categoryMatch && !nameMatch) || p.Quantity <= 0 {
			continue
		}

		// Общее число занятий берём из названия услуги ("Body 12 занятий"),
		// иначе — из quantity. Quantity при этом хранит остаток, так что для
		// переименованных услуг total может занижаться; поведение сохранено
		// ради совместимости с историческими данными.
		total := p.Quantity
		if m := totalRe.FindStringSubmatch(p.ServiceName); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				total = n
			}
		}
		left := p.Quantity

		name := strings.ToLower(p.ServiceName)
		isSingle := total == 1 && left == 1
		isSingleByName := strings.Contains(name, "разовое")
		isPackage := total > 1 || strings.Contains(name, "абонемент")
		if isSingle || isSingleByName || !isPackage {
			continue
		}

		client := "Не указан"
		if p.ClientName != nil && *p.ClientName != "" {
			client = *p.ClientName
		}
		clientID := ""
		if p.ClientID != nil {
			clientID = *p.ClientID
		}

		rows = append(rows, Row{
			ID:          p.PublicID,
			Client:      client,
			ClientID:    clientID,
			Type:        p.ServiceName,
			Left:        left,
			PurchasedAt: p.CreatedAt,
			Total:       total,
			PaymentID:   p.PublicID,
		})
	}

	// Группировка по клиенту и типу услуги. Для платежей без client_id ключ
	// строится по имени: два разных клиента с одинаковым именем без id
	// сольются в одну строку — известный пробел в данных, не чиним молча.
	grouped := make(map[string]int, len(rows))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		keyPart := row.ClientID
		if keyPart == "" {
			keyPart = row.Client
		}
		key := keyPart + "_" + row.Type

		if i, ok := grouped[key]; ok {
			out[i].Left += row.Left
			out[i].Total += row.Total
			if row.PurchasedAt.Before(out[i].PurchasedAt) {
				out[i].PurchasedAt = row.PurchasedAt
			}
			continue
		}
		grouped[key] = len(out)
		out = append(out, row)
	}
	return out
}
