package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "mailsift/contracts/mq"
	"mailsift/internal/model"
	"mailsift/internal/repository"
	"mailsift/pkg/outbox"
	"mailsift/pkg/trace"
)

// IngestRequest is a single inbound email observed by an upstream collector.
type IngestRequest struct {
	Account string    `json:"account" binding:"required"`
	UID     string    `json:"uid"`
	Subject string    `json:"subject" binding:"required"`
	From    string    `json:"from" binding:"required"`
	To      []string  `json:"to"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
}

// IngestService stores inbound emails and queues them for categorization via
// the outbox, so the row and the event commit atomically.
type IngestService struct {
	db         *pgxpool.Pool
	emailRepo  *repository.EmailRepository
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewIngestService(
	db *pgxpool.Pool,
	emailRepo *repository.EmailRepository,
	outboxRepo *outbox.Repository,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		db:         db,
		emailRepo:  emailRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateAndQueue persists the email and inserts an email.received outbox
// event in the same transaction. Returns the row id and the (possibly
// assigned) uid.
func (s *IngestService) CreateAndQueue(ctx context.Context, req IngestRequest) (int, string, error) {
	uid := req.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	receivedAt := req.Date
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	email := &model.Email{
		Account:    req.Account,
		UID:        uid,
		Subject:    req.Subject,
		Sender:     req.From,
		Recipients: req.To,
		Body:       req.Body,
		ReceivedAt: receivedAt,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	id, err := s.emailRepo.CreateInTx(ctx, tx, email)
	if err != nil {
		return 0, "", fmt.Errorf("failed to insert email: %w", err)
	}

	payload := mqcontracts.EmailReceivedPayload{
		EmailID:    id,
		Account:    req.Account,
		UID:        uid,
		Subject:    req.Subject,
		From:       req.From,
		To:         req.To,
		Body:       req.Body,
		ReceivedAt: receivedAt,
		TraceID:    trace.FromContext(ctx),
	}
	emailID := int64(id)
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "email", &emailID, mqcontracts.EmailReceivedKey, payload); err != nil {
		return 0, "", fmt.Errorf("failed to queue email.received: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Email ingested",
		zap.Int("email_id", id),
		zap.String("uid", uid),
		zap.String("account", req.Account),
	)
	return id, uid, nil
}
