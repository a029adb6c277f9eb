package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shiftloop-dev/shiftloop/backend/internal/config"
	"github.com/shiftloop-dev/shiftloop/backend/internal/domain"
)

const QueueName = "notification_queue"

// Publisher 把排班相关的通知投递到消息队列，由 cmd/notifier 消费后发邮件。
type Publisher struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewPublisher(cfg *config.Config, channel *amqp.Channel) *Publisher {
	return &Publisher{
		cfg:     cfg,
		channel: channel,
	}
}

func (p *Publisher) PublishScheduleGenerated(tenant *domain.Tenant, schedule *domain.Schedule) error {
	message := domain.NotificationMessage{
		Type: "schedule_generated",
		To:   tenant.Email,
		Data: domain.ScheduleGeneratedData{
			TenantName: tenant.Name,
			WeekStart:  schedule.WeekStart.Format("2006-01-02"),
			ShiftCount: len(schedule.Shifts),
			Warnings:   schedule.Warnings,
		},
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
