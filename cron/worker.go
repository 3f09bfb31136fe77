package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"deskhive/config"
	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/models"
	"deskhive/utils"
)

const TypeInvoiceGenerate = "invoice:generate"

// invoicePayload is the task body for invoice generation.
type invoicePayload struct {
	BookingID string `json:"booking_id"`
}

// InvoiceQueue enqueues invoice generation tasks onto the asynq queue.
type InvoiceQueue struct {
	client *asynq.Client
}

func NewInvoiceQueue() *InvoiceQueue {
	return &InvoiceQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskDB,
		}),
	}
}

func (q *InvoiceQueue) EnqueueInvoice(ctx context.Context, bookingID string) error {
	payload, err := json.Marshal(invoicePayload{BookingID: bookingID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeInvoiceGenerate, payload)
	_, err = q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	return err
}

func (q *InvoiceQueue) Close() error {
	return q.client.Close()
}

// InitInvoiceWorker runs the async invoice worker in background.
func InitInvoiceWorker(repo inventoryRepo.InventoryRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvoiceGenerate, handleInvoiceTask(repo))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting invoice worker")

		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("invoice worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("invoice worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleInvoiceTask creates the invoice for a confirmed booking. Idempotent:
// a booking that already has an invoice, or that was cancelled before the
// task ran, completes without error.
func handleInvoiceTask(repo inventoryRepo.InventoryRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p invoicePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invoice task has invalid payload", zap.Error(err))
			return err
		}

		if _, err := repo.FindInvoiceByBookingID(ctx, p.BookingID); err == nil {
			return nil
		} else if !errors.Is(err, inventoryRepo.ErrNotFound) {
			return err
		}

		booking, err := repo.FindByID(ctx, p.BookingID)
		if errors.Is(err, inventoryRepo.ErrNotFound) {
			logger.Warn("invoice task for unknown booking", zap.String("bookingID", p.BookingID))
			return nil
		}
		if err != nil {
			return err
		}
		if booking.Status != models.StatusBooked {
			logger.Info("skipping invoice for non-booked reservation",
				zap.String("bookingID", p.BookingID), zap.String("status", booking.Status))
			return nil
		}

		var amount float64
		if booking.Details != nil {
			amount = booking.Details.Price
		}

		invoice := &models.Invoice{
			InvoiceID: uuid.New().String(),
			BookingID: booking.ID,
			UserID:    booking.UserID,
			Amount:    amount,
			Status:    "issued",
			CreatedAt: time.Now(),
		}
		if err := repo.InsertInvoice(ctx, invoice); err != nil {
			return err
		}

		logger.Info("invoice generated",
			zap.String("invoiceID", invoice.InvoiceID),
			zap.String("bookingID", booking.ID),
			zap.Float64("amount", amount))
		return nil
	}
}
