package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// TaskProcessor runs one analysis task. Process errors trigger a redelivery
// with a bumped attempt counter; once attempts are exhausted, Abandon records
// the terminal failure.
type TaskProcessor interface {
	Process(ctx context.Context, task *AnalysisTask) error
	Abandon(ctx context.Context, task *AnalysisTask)
}

// AnalysisConsumer drains the analysis work queue. Delivery is at-least-once:
// messages are acked only after processing, and a crash before the ack means
// a redelivery, which the processor must tolerate.
type AnalysisConsumer struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	processor  TaskProcessor
	publisher  Publisher
	maxRetries int
	shutdown   chan struct{}
	wg         sync.WaitGroup
	enabled    bool
}

func NewAnalysisConsumer(rabbitURI, queueName string, processor TaskProcessor, publisher Publisher, maxRetries int) (*AnalysisConsumer, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, analysis consumption is disabled")
		return &AnalysisConsumer{
			processor:  processor,
			publisher:  publisher,
			maxRetries: maxRetries,
			shutdown:   make(chan struct{}),
			enabled:    false,
		}, nil
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

	err = channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AnalysisConsumer{
		conn:       conn,
		channel:    channel,
		queueName:  queueName,
		processor:  processor,
		publisher:  publisher,
		maxRetries: maxRetries,
		shutdown:   make(chan struct{}),
		enabled:    true,
	}, nil
}

func (c *AnalysisConsumer) Start() error {
	if !c.enabled {
		log.Println("Analysis consumption is disabled, not starting consumer")
		return nil
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs)
	}()

	log.Println("Analysis consumer started")
	return nil
}

func (c *AnalysisConsumer) consume(msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-c.shutdown:
			log.Println("Stopping analysis consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("Message channel closed, consumer stopping")
				return
			}
			c.handleDelivery(msg)
		}
	}
}

func (c *AnalysisConsumer) handleDelivery(msg amqp091.Delivery) {
	var task AnalysisTask
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		log.Printf("Error decoding analysis task, dropping: %v", err)
		if err := msg.Nack(false, false); err != nil {
			log.Printf("Error NACKing message: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := c.processor.Process(ctx, &task)
	if err == nil {
		if err := msg.Ack(false); err != nil {
			log.Printf("Error ACKing message: %v", err)
		}
		return
	}

	log.Printf("Error processing analysis task for CV %s (attempt %d): %v", task.CVID, task.Attempt, err)

	// Redelivery goes through a fresh publish so the attempt counter
	// survives; a plain nack/requeue would loop forever.
	if task.Attempt+1 < c.maxRetries {
		retry := task
		retry.Attempt++
		if err := c.publisher.EnqueueAnalysis(ctx, &retry); err != nil {
			log.Printf("Error re-enqueueing analysis task for CV %s: %v", task.CVID, err)
			if err := msg.Nack(false, true); err != nil {
				log.Printf("Error NACKing message: %v", err)
			}
			return
		}
	} else {
		c.processor.Abandon(ctx, &task)
	}

	if err := msg.Ack(false); err != nil {
		log.Printf("Error ACKing message: %v", err)
	}
}

func (c *AnalysisConsumer) Close() error {
	close(c.shutdown)
	if !c.enabled {
		return nil
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Println("Timed out waiting for analysis consumer to stop")
	}

	if err := c.channel.Close(); err != nil {
		log.Printf("Error closing RabbitMQ channel: %v", err)
	}
	return c.conn.Close()
}
