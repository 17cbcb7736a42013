package repository

import (
	"context"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var ErrReminderAlreadySent = dao.ErrReminderAlreadySent

type ReminderDAO interface {
	FindRecipients(ctx context.Context, eventID string) ([]dao.ReminderRecipient, error)
	Exists(ctx context.Context, eventID, email string, leadHours int) (bool, error)
	Insert(ctx context.Context, delivery dao.ReminderDelivery) (dao.ReminderDelivery, error)
}

type ReminderRepository struct {
	dao ReminderDAO
}

func NewReminderRepository(dao ReminderDAO) *ReminderRepository {
	return &ReminderRepository{
		dao: dao,
	}
}

func (r *ReminderRepository) FindRecipients(ctx context.Context, eventID string) ([]domain.ReminderRecipient, error) {
	found, err := r.dao.FindRecipients(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecipients -> %w", err)
	}

	recipients := make([]domain.ReminderRecipient, len(found))
	for i, rc := range found {
		recipients[i] = domain.ReminderRecipient{
			TicketID:   rc.TicketID,
			TicketCode: rc.TicketCode,
			TicketType: rc.TicketType,
			OwnerID:    rc.OwnerID,
			Email:      rc.Email,
			Name:       rc.Name,
		}
	}

	return recipients, nil
}

func (r *ReminderRepository) WasSent(ctx context.Context, eventID, email string, leadHours int) (bool, error) {
	sent, err := r.dao.Exists(ctx, eventID, email, leadHours)
	if err != nil {
		return false, fmt.Errorf("r.dao.Exists -> %w", err)
	}

	return sent, nil
}

func (r *ReminderRepository) RecordDelivery(ctx context.Context, d domain.ReminderDelivery) (domain.ReminderDelivery, error) {
	created, err := r.dao.Insert(ctx, dao.ReminderDelivery{
		EventID:   d.EventID,
		TicketID:  d.TicketID,
		Email:     d.Email,
		LeadHours: d.LeadHours,
		SentAt:    d.SentAt,
	})
	if err != nil {
		return domain.ReminderDelivery{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.ReminderDelivery{
		ID:        created.ID,
		EventID:   created.EventID,
		TicketID:  created.TicketID,
		Email:     created.Email,
		LeadHours: created.LeadHours,
		SentAt:    created.SentAt,
	}, nil
}
