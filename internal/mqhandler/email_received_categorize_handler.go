package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "mailsift/contracts/mq"
	"mailsift/internal/model"
	"mailsift/internal/repository"
	"mailsift/pkg/logger"
	"mailsift/pkg/metrics"
	"mailsift/pkg/outbox"
	"mailsift/pkg/trace"
	"mailsift/pkg/util"
)

const maxCategorizeRetries = 5

type emailFinder interface {
	FindByID(ctx context.Context, id int) (*model.Email, error)
}

type classifier interface {
	Categorize(ctx context.Context, text string) model.CategoryLabel
}

type retryCount interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// categorizedWriter persists an assigned category together with its
// email.categorized outbox event.
type categorizedWriter interface {
	Store(ctx context.Context, payload mqcontracts.EmailCategorizedPayload) error
}

// CategorizedStore writes the category to the email row and inserts the
// email.categorized outbox event in one transaction, so the row update and
// the event commit together.
type CategorizedStore struct {
	db         *pgxpool.Pool
	emailRepo  *repository.EmailRepository
	outboxRepo *outbox.Repository
}

func NewCategorizedStore(
	db *pgxpool.Pool,
	emailRepo *repository.EmailRepository,
	outboxRepo *outbox.Repository,
) *CategorizedStore {
	return &CategorizedStore{
		db:         db,
		emailRepo:  emailRepo,
		outboxRepo: outboxRepo,
	}
}

func (s *CategorizedStore) Store(ctx context.Context, payload mqcontracts.EmailCategorizedPayload) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	label := model.CategoryLabel(payload.Category)
	if err := s.emailRepo.UpdateCategoryInTx(ctx, tx, payload.EmailID, label); err != nil {
		return fmt.Errorf("failed to store category: %w", err)
	}

	emailID := int64(payload.EmailID)
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "email", &emailID, mqcontracts.EmailCategorizedKey, payload); err != nil {
		return fmt.Errorf("failed to insert categorized event to outbox: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EmailReceivedCategorizeHandler consumes email.received events, assigns a
// category, and emits email.categorized through the outbox. The handler is
// idempotent: an already-categorized email and a deduped redelivery are both
// acked without a provider call, so redeliveries never burn provider quota.
type EmailReceivedCategorizeHandler struct {
	emailFinder  emailFinder
	store        categorizedWriter
	categorizer  classifier
	deduper      dedupe
	retryCounter retryCount
	logger       *zap.Logger
}

func NewEmailReceivedCategorizeHandler(
	emailFinder emailFinder,
	store categorizedWriter,
	categorizer classifier,
	deduper dedupe,
	retryCounter retryCount,
	log *zap.Logger,
) *EmailReceivedCategorizeHandler {
	return &EmailReceivedCategorizeHandler{
		emailFinder:  emailFinder,
		store:        store,
		categorizer:  categorizer,
		deduper:      deduper,
		retryCounter: retryCounter,
		logger:       log,
	}
}

func (h *EmailReceivedCategorizeHandler) HandleEmailReceived(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.EmailReceivedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal email received payload",
			zap.Error(err),
			zap.String("raw_payload", string(raw)),
		)
		return fmt.Errorf("json: %w", err)
	}

	if p.TraceID != "" {
		ctx = trace.WithContext(ctx, p.TraceID)
	}
	log := logger.WithTrace(ctx, h.logger)

	log.Info("Processing email categorization",
		zap.Int("email_id", p.EmailID),
		zap.String("uid", p.UID),
		zap.String("subject", p.Subject),
	)

	email, err := h.emailFinder.FindByID(ctx, p.EmailID)
	if err != nil {
		log.Error("Failed to find email",
			zap.Int("email_id", p.EmailID),
			zap.Error(err),
		)
		return err
	}

	if email.Status == "categorized" {
		log.Debug("Email already categorized, skipping",
			zap.Int("email_id", p.EmailID),
		)
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "categorize", p.UID) {
		log.Info("Skipped duplicated categorize event",
			zap.Int("email_id", p.EmailID),
			zap.String("uid", p.UID),
		)
		return nil
	}

	retryKey := util.FormatRetryKey("categorize", p.UID)
	retryCount, err := h.retryCounter.IncrementAndGet(ctx, retryKey)
	if err != nil {
		log.Warn("Failed to get retry count, continuing anyway",
			zap.String("uid", p.UID),
			zap.Error(err),
		)
		retryCount = 1
	}
	if retryCount > maxCategorizeRetries {
		log.Warn("Max retries exceeded, dropping categorize event",
			zap.Int("email_id", p.EmailID),
			zap.Int64("retry_count", retryCount),
		)
		h.retryCounter.Reset(ctx, retryKey)
		return nil
	}

	label := h.categorizer.Categorize(ctx, p.Subject+"\n\n"+p.Body)

	payload := mqcontracts.EmailCategorizedPayload{
		EmailID:    p.EmailID,
		Account:    p.Account,
		UID:        p.UID,
		Subject:    p.Subject,
		From:       p.From,
		To:         p.To,
		Category:   string(label),
		ReceivedAt: p.ReceivedAt,
		TraceID:    trace.FromContext(ctx),
	}
	if err := h.store.Store(ctx, payload); err != nil {
		log.Error("Failed to store categorized email",
			zap.Int("email_id", p.EmailID),
			zap.Error(err),
		)
		// Free the dedupe slot so the redelivery is not skipped.
		h.deduper.Release(ctx, "categorize", p.UID)
		return err
	}

	h.retryCounter.Reset(ctx, retryKey)
	metrics.IncrementEmailCategorized(string(label))

	log.Info("Email categorized",
		zap.Int("email_id", p.EmailID),
		zap.String("category", string(label)),
	)
	return nil
}
