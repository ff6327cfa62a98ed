package subscriptions

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/eywa-space/crm/internal/domain/payments"
)

var (
	ErrNothingToDeduct = errors.New("subscriptions: nothing to deduct")
	ErrDeductInFlight  = errors.New("subscriptions: deduction already in progress")
	ErrMissingClientID = errors.New("subscriptions: missing client id")
)

// Остаток, при котором абонемент считается «истекает скоро».
const lowBalanceThreshold = 2

type PaymentStore interface {
	List(ctx context.Context, serviceName, clientID string) ([]payments.Payment, error)
	UpdateQuantity(ctx context.Context, publicID string, quantity int) (*payments.Payment, error)
}

type VisitRecorder interface {
	AddVisit(ctx context.Context, clientID string, visitedAt time.Time) error
}

type Notifier interface {
	LowBalance(ctx context.Context, client, serviceType string, left int) error
}

type Service struct {
	log      *slog.Logger
	payments PaymentStore
	visits   VisitRecorder
	notifier Notifier // может быть nil
	category string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(log *slog.Logger, store PaymentStore, visits VisitRecorder, notifier Notifier, category string) *Service {
	return &Service{
		log:      log,
		payments: store,
		visits:   visits,
		notifier: notifier,
		category: category,
		inFlight: make(map[string]struct{}),
	}
}

func (s *Service) Rows(ctx context.Context) ([]Row, error) {
	list, err := s.payments.List(ctx, "", "")
	if err != nil {
		return nil, err
	}
	return BuildRows(list, s.category), nil
}

// Deduct списывает одно занятие с абонемента и возвращает пересобранный
// список строк. Повторное списание той же строки, пока первое не завершилось,
// отклоняется без обращения к хранилищу.
func (s *Service) Deduct(ctx context.Context, row Row) ([]Row, error) {
	if row.Left <= 0 {
		return nil, ErrNothingToDeduct
	}

	s.mu.Lock()
	if _, busy := s.inFlight[row.ID]; busy {
		s.mu.Unlock()
		return nil, ErrDeductInFlight
	}
	s.inFlight[row.ID] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, row.ID)
		s.mu.Unlock()
	}()

	newLeft := row.Left - 1
	if _, err := s.payments.UpdateQuantity(ctx, row.PaymentID, newLeft); err != nil {
		return nil, err
	}

	// Визит фиксируем по принципу best-effort: неудача не откатывает списание.
	if row.ClientID != "" {
		if err := s.visits.AddVisit(ctx, row.ClientID, time.Now()); err != nil {
			s.log.Warn("visit not recorded after deduction",
				"client_id", row.ClientID,
				"payment_id", row.PaymentID,
				"err", err,
			)
		}
	}

	if s.notifier != nil && newLeft <= lowBalanceThreshold {
		if err := s.notifier.LowBalance(ctx, row.Client, row.Type, newLeft); err != nil {
			s.log.Warn("low balance notification failed", "client", row.Client, "err", err)
		}
	}

	return s.Rows(ctx)
}

// ExtendURL строит ссылку на форму оплаты с предзаполненным клиентом и услугой.
func (s *Service) ExtendURL(row Row) (string, error) {
	if row.ClientID == "" {
		return "", ErrMissingClientID
	}
	v := url.Values{}
	v.Set("client_id", row.ClientID)
	v.Set("service_name", row.Type)
	return "/payments?" + v.Encode(), nil
}
