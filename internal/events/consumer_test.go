package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

type fakeProcessor struct {
	processErr error
	processed  []*AnalysisTask
	abandoned  []*AnalysisTask
}

func (f *fakeProcessor) Process(ctx context.Context, task *AnalysisTask) error {
	f.processed = append(f.processed, task)
	return f.processErr
}

func (f *fakeProcessor) Abandon(ctx context.Context, task *AnalysisTask) {
	f.abandoned = append(f.abandoned, task)
}

type fakePublisher struct {
	enqueued   []*AnalysisTask
	enqueueErr error
}

func (f *fakePublisher) PublishCVUploaded(ctx context.Context, cvID, ownerID, originalName string) error {
	return nil
}
func (f *fakePublisher) PublishCVAnalyzed(ctx context.Context, cvID, ownerID, status string) error {
	return nil
}
func (f *fakePublisher) PublishCVDeleted(ctx context.Context, cvID, ownerID string) error  { return nil }
func (f *fakePublisher) PublishJobCreated(ctx context.Context, jobID, recruiterID string) error {
	return nil
}
func (f *fakePublisher) PublishJobApplied(ctx context.Context, jobID, applicantID string) error {
	return nil
}
func (f *fakePublisher) PublishUserRegistered(ctx context.Context, userID, username, role string) error {
	return nil
}

func (f *fakePublisher) EnqueueAnalysis(ctx context.Context, task *AnalysisTask) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, task)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func newTestConsumer(processor TaskProcessor, publisher Publisher, maxRetries int) *AnalysisConsumer {
	consumer, _ := NewAnalysisConsumer("", "cv-analysis-tasks", processor, publisher, maxRetries)
	return consumer
}

func taskDelivery(t *testing.T, task *AnalysisTask, ack *fakeAcknowledger) amqp091.Delivery {
	t.Helper()
	body, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	return amqp091.Delivery{Acknowledger: ack, Body: body}
}

func TestHandleDeliverySuccess(t *testing.T) {
	processor := &fakeProcessor{}
	publisher := &fakePublisher{}
	consumer := newTestConsumer(processor, publisher, 3)

	ack := &fakeAcknowledger{}
	consumer.handleDelivery(taskDelivery(t, &AnalysisTask{CVID: "cv-1", UserID: "u-1"}, ack))

	if len(processor.processed) != 1 {
		t.Fatalf("Expected 1 processed task, got %d", len(processor.processed))
	}
	if ack.acks != 1 || ack.nacks != 0 {
		t.Errorf("Expected 1 ack and 0 nacks, got %d/%d", ack.acks, ack.nacks)
	}
	if len(publisher.enqueued) != 0 {
		t.Errorf("Success should not re-enqueue, got %d", len(publisher.enqueued))
	}
}

func TestHandleDeliveryRetriesWithBumpedAttempt(t *testing.T) {
	processor := &fakeProcessor{processErr: errors.New("storage unavailable")}
	publisher := &fakePublisher{}
	consumer := newTestConsumer(processor, publisher, 3)

	ack := &fakeAcknowledger{}
	consumer.handleDelivery(taskDelivery(t, &AnalysisTask{CVID: "cv-1", Attempt: 0}, ack))

	if len(publisher.enqueued) != 1 {
		t.Fatalf("Expected 1 re-enqueued task, got %d", len(publisher.enqueued))
	}
	if publisher.enqueued[0].Attempt != 1 {
		t.Errorf("Expected bumped attempt 1, got %d", publisher.enqueued[0].Attempt)
	}
	// The original delivery is acked: the retry lives in the fresh publish.
	if ack.acks != 1 || ack.nacks != 0 {
		t.Errorf("Expected 1 ack and 0 nacks, got %d/%d", ack.acks, ack.nacks)
	}
	if len(processor.abandoned) != 0 {
		t.Errorf("Task should not be abandoned before retries are exhausted")
	}
}

func TestHandleDeliveryAbandonsAfterMaxRetries(t *testing.T) {
	processor := &fakeProcessor{processErr: errors.New("storage unavailable")}
	publisher := &fakePublisher{}
	consumer := newTestConsumer(processor, publisher, 3)

	ack := &fakeAcknowledger{}
	consumer.handleDelivery(taskDelivery(t, &AnalysisTask{CVID: "cv-1", Attempt: 2}, ack))

	if len(publisher.enqueued) != 0 {
		t.Errorf("Exhausted task should not be re-enqueued, got %d", len(publisher.enqueued))
	}
	if len(processor.abandoned) != 1 {
		t.Fatalf("Expected 1 abandoned task, got %d", len(processor.abandoned))
	}
	if ack.acks != 1 {
		t.Errorf("Abandoned delivery should still be acked, got %d acks", ack.acks)
	}
}

func TestHandleDeliveryRequeuesWhenEnqueueFails(t *testing.T) {
	processor := &fakeProcessor{processErr: errors.New("storage unavailable")}
	publisher := &fakePublisher{enqueueErr: errors.New("broker down")}
	consumer := newTestConsumer(processor, publisher, 3)

	ack := &fakeAcknowledger{}
	consumer.handleDelivery(taskDelivery(t, &AnalysisTask{CVID: "cv-1", Attempt: 0}, ack))

	if ack.nacks != 1 || !ack.requeue {
		t.Errorf("Expected a requeueing nack when re-enqueue fails, got nacks=%d requeue=%v", ack.nacks, ack.requeue)
	}
	if ack.acks != 0 {
		t.Errorf("Expected no ack when re-enqueue fails, got %d", ack.acks)
	}
}

func TestHandleDeliveryDropsUndecodableMessage(t *testing.T) {
	processor := &fakeProcessor{}
	consumer := newTestConsumer(processor, &fakePublisher{}, 3)

	ack := &fakeAcknowledger{}
	consumer.handleDelivery(amqp091.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	if len(processor.processed) != 0 {
		t.Errorf("Undecodable message should not reach the processor")
	}
	if ack.nacks != 1 || ack.requeue {
		t.Errorf("Expected a non-requeueing nack, got nacks=%d requeue=%v", ack.nacks, ack.requeue)
	}
}
