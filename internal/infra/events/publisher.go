// Package events публикует события журнала бронирований в Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// MessageWriter часть *kafka.Writer, нужная публикатору
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Metrics учет публикаций
type Metrics interface {
	ObserveEvent(eventType string, err error)
}

// BookingEvent тело сообщения
type BookingEvent struct {
	EventID           string    `json:"eventId"`
	Type              string    `json:"type"`
	OccurredAt        time.Time `json:"occurredAt"`
	BookingID         string    `json:"bookingId"`
	HostID            int64     `json:"hostId"`
	EventTypeID       int64     `json:"eventTypeId"`
	Status            string    `json:"status"`
	StartAt           time.Time `json:"startAt"`
	EndAt             time.Time `json:"endAt"`
	InviteeName       string    `json:"inviteeName"`
	InviteeEmail      string    `json:"inviteeEmail"`
	RescheduledFromID *string   `json:"rescheduledFromId,omitempty"`
}

// NewBookingEvent собирает событие по бронированию
func NewBookingEvent(eventType domain.BookingEventType, b *domain.Booking, at time.Time) BookingEvent {
	ev := BookingEvent{
		EventID:      uuid.NewString(),
		Type:         string(eventType),
		OccurredAt:   at.UTC(),
		BookingID:    b.ID.String(),
		HostID:       b.HostID,
		EventTypeID:  b.EventTypeID,
		Status:       string(b.Status),
		StartAt:      b.StartAt.UTC(),
		EndAt:        b.EndAt.UTC(),
		InviteeName:  b.Invitee.Name,
		InviteeEmail: b.Invitee.Email,
	}
	if b.RescheduledFromID != nil {
		id := b.RescheduledFromID.String()
		ev.RescheduledFromID = &id
	}
	return ev
}

// KafkaPublisher пишет события в топик, ключ сообщения - ID хоста (порядок событий хоста сохраняется)
type KafkaPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	metrics Metrics
}

// NewKafkaWriter создает writer с балансировкой по ключу
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher создает публикатор. metrics может быть nil.
func NewKafkaPublisher(writer MessageWriter, timeout time.Duration, metrics Metrics) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, timeout: timeout, metrics: metrics}
}

// PublishBooking публикует событие бронирования
func (p *KafkaPublisher) PublishBooking(ctx context.Context, eventType domain.BookingEventType, b *domain.Booking) error {
	err := p.publish(ctx, NewBookingEvent(eventType, b, time.Now()))
	if p.metrics != nil {
		p.metrics.ObserveEvent(string(eventType), err)
	}
	return err
}

func (p *KafkaPublisher) publish(ctx context.Context, ev BookingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.HostID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.EventID)},
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s booking=%s: %v", ErrPublish, ev.Type, ev.BookingID, err)
	}
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop публикатор-заглушка, когда Kafka выключена
type Nop struct{}

func (Nop) PublishBooking(context.Context, domain.BookingEventType, *domain.Booking) error {
	return nil
}

func (Nop) Close() error { return nil }
