package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher defines the interface for event publishing and analysis task
// dispatch. Publishing is best-effort: a broker outage must never fail the
// originating request.
type Publisher interface {
	PublishCVUploaded(ctx context.Context, cvID, ownerID, originalName string) error
	PublishCVAnalyzed(ctx context.Context, cvID, ownerID, status string) error
	PublishCVDeleted(ctx context.Context, cvID, ownerID string) error
	PublishJobCreated(ctx context.Context, jobID, recruiterID string) error
	PublishJobApplied(ctx context.Context, jobID, applicantID string) error
	PublishUserRegistered(ctx context.Context, userID, username, role string) error

	// EnqueueAnalysis puts one analyzer run on the work queue.
	EnqueueAnalysis(ctx context.Context, task *AnalysisTask) error

	Close() error
}

// EventPublisher implements Publisher using RabbitMQ: a topic exchange for
// domain events and a durable work queue for analysis tasks.
type EventPublisher struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchangeName  string
	analysisQueue string
	enabled       bool
}

func NewEventPublisher(rabbitURI, exchangeName, analysisQueue string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		analysisQueue, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare analysis queue: %w", err)
	}

	return &EventPublisher{
		conn:          conn,
		channel:       channel,
		exchangeName:  exchangeName,
		analysisQueue: analysisQueue,
		enabled:       true,
	}, nil
}

func (p *EventPublisher) publishEvent(ctx context.Context, routingKey string, event any) error {
	if !p.enabled {
		log.Printf("Event publishing is disabled, skipping event: %s", routingKey)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event: %s", routingKey)
	return nil
}

// EnqueueAnalysis publishes a task directly to the analysis work queue via
// the default exchange. Unlike domain events, failing to enqueue matters to
// the caller: the CV would otherwise sit in pending forever.
func (p *EventPublisher) EnqueueAnalysis(ctx context.Context, task *AnalysisTask) error {
	if !p.enabled {
		return fmt.Errorf("analysis queue is disabled")
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis task: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		"",              // default exchange
		p.analysisQueue, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue analysis task: %w", err)
	}

	log.Printf("Enqueued analysis task for CV %s (attempt %d)", task.CVID, task.Attempt)
	return nil
}

func (p *EventPublisher) PublishCVUploaded(ctx context.Context, cvID, ownerID, originalName string) error {
	event := &CVEvent{
		BaseEvent:    newBaseEvent(EventTypeCVUploaded),
		CVID:         cvID,
		OwnerID:      ownerID,
		OriginalName: originalName,
	}
	return p.publishEvent(ctx, string(EventTypeCVUploaded), event)
}

func (p *EventPublisher) PublishCVAnalyzed(ctx context.Context, cvID, ownerID, status string) error {
	event := &CVEvent{
		BaseEvent: newBaseEvent(EventTypeCVAnalyzed),
		CVID:      cvID,
		OwnerID:   ownerID,
		Status:    status,
	}
	return p.publishEvent(ctx, string(EventTypeCVAnalyzed), event)
}

func (p *EventPublisher) PublishCVDeleted(ctx context.Context, cvID, ownerID string) error {
	event := &CVEvent{
		BaseEvent: newBaseEvent(EventTypeCVDeleted),
		CVID:      cvID,
		OwnerID:   ownerID,
	}
	return p.publishEvent(ctx, string(EventTypeCVDeleted), event)
}

func (p *EventPublisher) PublishJobCreated(ctx context.Context, jobID, recruiterID string) error {
	event := &JobEvent{
		BaseEvent: newBaseEvent(EventTypeJobCreated),
		JobID:     jobID,
		ActorID:   recruiterID,
	}
	return p.publishEvent(ctx, string(EventTypeJobCreated), event)
}

func (p *EventPublisher) PublishJobApplied(ctx context.Context, jobID, applicantID string) error {
	event := &JobEvent{
		BaseEvent:   newBaseEvent(EventTypeJobApplied),
		JobID:       jobID,
		ActorID:     applicantID,
		ApplicantID: applicantID,
	}
	return p.publishEvent(ctx, string(EventTypeJobApplied), event)
}

func (p *EventPublisher) PublishUserRegistered(ctx context.Context, userID, username, role string) error {
	event := &UserEvent{
		BaseEvent: newBaseEvent(EventTypeUserRegistered),
		UserID:    userID,
		Username:  username,
		Role:      role,
	}
	return p.publishEvent(ctx, string(EventTypeUserRegistered), event)
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		log.Printf("Error closing RabbitMQ channel: %v", err)
	}
	return p.conn.Close()
}
