package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/metrics"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/payment"
	"github.com/ormeet/ormeet-api/internal/pkg/random"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

// maxCodeAttempts bounds the retries when a generated ticket code collides.
const maxCodeAttempts = 3

var (
	errOrderNotPending      = BadRequest("Order is not in pending status")
	errOrderNotPaid         = BadRequest("Only paid orders can be refunded")
	errDeletePaidOrder      = BadRequest("Cannot delete paid orders")
	errNoItems              = BadRequest("Order must contain at least one item")
	errItemQuantity         = BadRequest("Item quantity must be at least 1")
	errItemQuantityMax      = BadRequest(fmt.Sprintf("Item quantity cannot exceed %d", domain.MaxItemQuantity))
	errItemPrice            = BadRequest("Item unit price cannot be negative")
	errPaymentNotConfirmed  = BadRequest("Payment could not be confirmed")
	errPaymentCaptured      = BadRequest("Payment has already been captured")
	errPromotionWrongEvent  = BadRequest("Promotion does not apply to this event")
	errPromotionInvalidCode = BadRequest(domain.PromotionMsgInvalid)
	errPromotionExhausted   = BadRequest(domain.PromotionMsgMaxUses)
)

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateBilling(ctx context.Context, id string, billing domain.Billing) (domain.Order, error)
	Transition(ctx context.Context, id string, from, to domain.OrderStatus) (domain.Order, error)
	Delete(ctx context.Context, id string) error
	Capture(ctx context.Context, c domain.PaymentCapture) (domain.Order, error)
}

type PromotionFinder interface {
	FindByCode(ctx context.Context, code string) (domain.Promotion, error)
}

type OrderService struct {
	repo        OrderRepository
	ticketTypes TicketTypeRepository
	promotions  PromotionFinder
	events      EventFinder
	venues      VenueFinder
	users       UserRepository
	verifier    payment.Verifier
	notifier    Notifier
	now         clock
}

func NewOrderService(
	repo OrderRepository,
	ticketTypes TicketTypeRepository,
	promotions PromotionFinder,
	events EventFinder,
	venues VenueFinder,
	users UserRepository,
	verifier payment.Verifier,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		repo:        repo,
		ticketTypes: ticketTypes,
		promotions:  promotions,
		events:      events,
		venues:      venues,
		users:       users,
		verifier:    verifier,
		notifier:    notifier,
		now:         time.Now,
	}
}

type CreateOrderInput struct {
	EventID       string
	Items         []domain.OrderItem
	Billing       domain.Billing
	PromotionCode string
}

func orderNotFound(id string) error {
	return notFoundf("Order with ID %s not found", id)
}

// Create prices the items, applies the promotion if any and stores a pending
// order for the actor.
func (s *OrderService) Create(ctx context.Context, actor domain.Actor, in CreateOrderInput) (domain.Order, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindOrder}, policy.ActionCreate); err != nil {
		return domain.Order{}, err
	}
	if err := s.checkItems(ctx, in.EventID, in.Items); err != nil {
		return domain.Order{}, err
	}

	subtotal := domain.Subtotal(in.Items)
	discount := decimal.Zero

	var code *string
	if in.PromotionCode != "" {
		promo, err := s.validPromotion(ctx, in.PromotionCode, in.EventID)
		if err != nil {
			return domain.Order{}, err
		}
		discount = promo.Discount(in.Items)
		code = &promo.Code
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	order, err := s.repo.Create(ctx, domain.Order{
		UserID:        actor.UserID,
		EventID:       in.EventID,
		Items:         in.Items,
		AmountTotal:   total,
		DiscountTotal: discount,
		PromotionCode: code,
		Currency:      "USD",
		Status:        domain.OrderPending,
		Billing:       in.Billing,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.Create -> %w", err)
	}
	metrics.OrderTransitions.WithLabelValues(string(domain.OrderPending)).Inc()

	return order, nil
}

func (s *OrderService) checkItems(ctx context.Context, eventID string, items []domain.OrderItem) error {
	if len(items) == 0 {
		return errNoItems
	}

	for _, item := range items {
		if item.Quantity < 1 {
			return errItemQuantity
		}
		if item.Quantity > domain.MaxItemQuantity {
			return errItemQuantityMax
		}
		if item.UnitPrice.IsNegative() {
			return errItemPrice
		}
	}

	byID, err := s.ticketTypesByID(ctx, items)
	if err != nil {
		return err
	}

	for _, item := range items {
		tt, ok := byID[item.TicketTypeID]
		if !ok {
			return ticketTypeNotFound(item.TicketTypeID)
		}
		if tt.EventID != eventID {
			return BadRequest(fmt.Sprintf("Ticket type %s does not belong to this event", tt.ID))
		}
		if !item.UnitPrice.Equal(tt.Price) {
			return BadRequest(fmt.Sprintf("Unit price of ticket type %s does not match its price", tt.ID))
		}
	}

	return checkStock(byID, items)
}

func (s *OrderService) ticketTypesByID(ctx context.Context, items []domain.OrderItem) (map[string]domain.TicketType, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.TicketTypeID)
	}

	types, err := s.ticketTypes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("s.ticketTypes.FindByIDs -> %w", err)
	}
	byID := make(map[string]domain.TicketType, len(types))
	for _, tt := range types {
		byID[tt.ID] = tt
	}

	return byID, nil
}

// checkStock fails when the items ask for more seats of a ticket type than
// it has left. Missing ticket types have none left.
func checkStock(types map[string]domain.TicketType, items []domain.OrderItem) error {
	requested := make(map[string]int, len(types))
	for _, item := range items {
		left := types[item.TicketTypeID].Available() - requested[item.TicketTypeID]
		if item.Quantity < 1 || item.Quantity > domain.MaxItemQuantity || item.Quantity > left {
			return errNotEnoughTickets
		}
		requested[item.TicketTypeID] += item.Quantity
	}

	return nil
}

func (s *OrderService) validPromotion(ctx context.Context, code, eventID string) (domain.Promotion, error) {
	promo, err := s.promotions.FindByCode(ctx, code)
	if err != nil {
		return domain.Promotion{}, translate("s.promotions.FindByCode", err, on(repository.ErrPromotionNotFound, errPromotionInvalidCode))
	}

	if v := promo.Validate(s.now()); !v.Valid {
		return domain.Promotion{}, BadRequest(v.Message)
	}
	if promo.EventID != nil && *promo.EventID != eventID {
		return domain.Promotion{}, errPromotionWrongEvent
	}

	return promo, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, translate("s.repo.FindByID", err, on(repository.ErrOrderNotFound, orderNotFound(id)))
	}

	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return orders, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.List(ctx, domain.OrderFilter{UserID: userID})
}

// Update changes the billing details. Items are immutable.
func (s *OrderService) Update(ctx context.Context, actor domain.Actor, id string, billing domain.Billing) (domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrder, OwnerID: order.UserID}, policy.ActionUpdate); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.UpdateBilling(ctx, id, billing)
	if err != nil {
		return domain.Order{}, translate("s.repo.UpdateBilling", err, on(repository.ErrOrderNotFound, orderNotFound(id)))
	}

	return updated, nil
}

// ProcessPayment confirms the payment with the provider, then marks the
// order paid and issues its tickets in a single transaction.
func (s *OrderService) ProcessPayment(ctx context.Context, actor domain.Actor, id, provider, paymentID string) (domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrder, OwnerID: order.UserID}, policy.ActionRead); err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanTransitionTo(domain.OrderPaid) {
		return domain.Order{}, errOrderNotPending
	}

	if err = s.verifier.Verify(ctx, provider, paymentID, order.AmountTotal, order.Currency); err != nil {
		if errors.Is(err, payment.ErrPaymentNotConfirmed) {
			zap.L().Warn("payment not confirmed", zap.String("order_id", id), zap.Error(err))
			return domain.Order{}, errPaymentNotConfirmed
		}
		return domain.Order{}, fmt.Errorf("s.verifier.Verify -> %w", err)
	}

	capture := domain.PaymentCapture{
		OrderID:           order.ID,
		Provider:          provider,
		ProviderPaymentID: paymentID,
		CapturedAt:        s.now(),
	}
	if order.PromotionCode != nil {
		promo, err := s.promotions.FindByCode(ctx, *order.PromotionCode)
		if err != nil && !errors.Is(err, repository.ErrPromotionNotFound) {
			return domain.Order{}, fmt.Errorf("s.promotions.FindByCode -> %w", err)
		}
		capture.PromotionID = promo.ID
	}

	// Stock may have moved since the order was placed; no ticket is built
	// for seats that are gone.
	types, err := s.ticketTypesByID(ctx, order.Items)
	if err != nil {
		return domain.Order{}, err
	}
	if err = checkStock(types, order.Items); err != nil {
		return domain.Order{}, err
	}

	var paid domain.Order
	for attempt := 1; ; attempt++ {
		if capture.Tickets, err = s.issueTickets(order, capture.CapturedAt); err != nil {
			return domain.Order{}, err
		}

		paid, err = s.repo.Capture(ctx, capture)
		if errors.Is(err, repository.ErrTicketCodeExists) && attempt < maxCodeAttempts {
			zap.L().Warn("ticket code collision, regenerating", zap.String("order_id", id), zap.Int("attempt", attempt))
			continue
		}
		break
	}
	if err != nil {
		return domain.Order{}, translate("s.repo.Capture", err,
			on(repository.ErrOrderWrongStatus, errOrderNotPending),
			on(repository.ErrOrderNotFound, orderNotFound(id)),
			on(repository.ErrTicketTypeSoldOut, errNotEnoughTickets),
			on(repository.ErrPaymentAlreadyCaptured, errPaymentCaptured),
			on(repository.ErrPromotionExhausted, errPromotionExhausted))
	}

	metrics.OrderTransitions.WithLabelValues(string(domain.OrderPaid)).Inc()
	metrics.TicketsIssued.Add(float64(len(capture.Tickets)))
	if capture.PromotionID != "" {
		metrics.PromotionRedemptions.Inc()
	}

	s.sendConfirmation(ctx, paid, capture.Tickets)

	return paid, nil
}

func (s *OrderService) issueTickets(order domain.Order, at time.Time) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, domain.Seats(order.Items))
	for _, item := range order.Items {
		for i := 0; i < item.Quantity; i++ {
			code, err := random.TicketCode()
			if err != nil {
				return nil, fmt.Errorf("random.TicketCode -> %w", err)
			}
			tickets = append(tickets, domain.Ticket{
				TicketTypeID: item.TicketTypeID,
				EventID:      order.EventID,
				OrderID:      order.ID,
				OwnerID:      order.UserID,
				Code:         code,
				Status:       domain.TicketActive,
				IssuedAt:     at,
			})
		}
	}

	return tickets, nil
}

// sendConfirmation queues the order confirmation. Lookup failures only
// degrade the email.
func (s *OrderService) sendConfirmation(ctx context.Context, order domain.Order, tickets []domain.Ticket) {
	to, name := order.Billing.Email, order.Billing.Name
	if user, err := s.users.FindByID(ctx, order.UserID); err == nil {
		if to == "" {
			to = user.Email
		}
		if name == "" {
			name = user.Name
		}
	}
	if to == "" {
		zap.L().Warn("no recipient for order confirmation", zap.String("order_id", order.ID))
		return
	}

	data := notify.OrderConfirmationData{
		CustomerName: name,
		OrderID:      order.ID,
		Subtotal:     order.AmountTotal.Add(order.DiscountTotal).StringFixed(2),
		Discount:     order.DiscountTotal.StringFixed(2),
		HasDiscount:  order.DiscountTotal.IsPositive(),
		Total:        order.AmountTotal.StringFixed(2),
		Currency:     order.Currency,
	}

	if event, err := s.events.FindByID(ctx, order.EventID); err == nil {
		data.EventTitle = event.Title
		data.EventDate = notify.FormatEventDate(event.StartAt, event.Timezone)
		data.EventLocation = eventLocation(ctx, s.venues, event)
	}

	prices := make(map[string]domain.OrderItem, len(order.Items))
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		prices[item.TicketTypeID] = item
		ids = append(ids, item.TicketTypeID)
	}
	titles := make(map[string]string, len(ids))
	if types, err := s.ticketTypes.FindByIDs(ctx, ids); err == nil {
		for _, tt := range types {
			titles[tt.ID] = tt.Title
		}
	}
	for _, t := range tickets {
		data.Tickets = append(data.Tickets, notify.TicketLine{
			Code:       t.Code,
			TicketType: titles[t.TicketTypeID],
			Price:      prices[t.TicketTypeID].UnitPrice.StringFixed(2),
		})
	}

	s.notifier.Enqueue(notify.OrderConfirmation(to, data))
}

func (s *OrderService) MarkFailed(ctx context.Context, actor domain.Actor, id string) (domain.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrder, OwnerID: order.UserID}, policy.ActionRead); err != nil {
		return domain.Order{}, err
	}
	if !order.Status.CanTransitionTo(domain.OrderFailed) {
		return domain.Order{}, errOrderNotPending
	}

	failed, err := s.repo.Transition(ctx, id, domain.OrderPending, domain.OrderFailed)
	if err != nil {
		return domain.Order{}, translate("s.repo.Transition", err,
			on(repository.ErrOrderWrongStatus, errOrderNotPending),
			on(repository.ErrOrderNotFound, orderNotFound(id)))
	}
	metrics.OrderTransitions.WithLabelValues(string(domain.OrderFailed)).Inc()

	return failed, nil
}

func (s *OrderService) Refund(ctx context.Context, id string) (domain.Order, error) {
	refunded, err := s.repo.Transition(ctx, id, domain.OrderPaid, domain.OrderRefunded)
	if err != nil {
		return domain.Order{}, translate("s.repo.Transition", err,
			on(repository.ErrOrderWrongStatus, errOrderNotPaid),
			on(repository.ErrOrderNotFound, orderNotFound(id)))
	}
	metrics.OrderTransitions.WithLabelValues(string(domain.OrderRefunded)).Inc()

	return refunded, nil
}

func (s *OrderService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrder, OwnerID: order.UserID}, policy.ActionDelete); err != nil {
		return err
	}
	if order.Status == domain.OrderPaid {
		return errDeletePaidOrder
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err,
			on(repository.ErrOrderWrongStatus, errDeletePaidOrder),
			on(repository.ErrOrderNotFound, orderNotFound(id)))
	}

	return nil
}
