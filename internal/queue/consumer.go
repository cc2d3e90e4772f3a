package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pet-med-tracker/internal/domain/doses"
	"pet-med-tracker/internal/platform/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const doseQueueName = "dose.scheduled"

// StartDoseConsumer se conecta a RabbitMQ, declara la cola dose.scheduled
// (durable) y consume. Corre un loop de reconexión con backoff; los
// mensajes que no se pueden procesar se rechazan sin requeue para no
// entrar en loop.
func StartDoseConsumer(url string, svc *doses.Service, log logger.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("dose-consumer: dial failed", map[string]any{
				"error": err.Error(),
				"retry": backoff.String(),
			})
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, svc, log); err != nil {
			log.Warn("dose-consumer: consume loop ended", map[string]any{"error": err.Error()})
			time.Sleep(2 * time.Second)
		}
		_ = conn.Close()
	}
}

func consumeLoop(conn *amqp.Connection, svc *doses.Service, log logger.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("dose-consumer: set QoS failed", map[string]any{"error": err.Error()})
	}

	if _, err := ch.QueueDeclare(doseQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(doseQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, svc, log); err != nil {
			log.Error("dose-consumer: handle message failed", map[string]any{"error": err.Error()})
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, svc *doses.Service, log logger.Logger) error {
	var ev DoseScheduledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	at, err := time.Parse(time.RFC3339, ev.ScheduledTime)
	if err != nil {
		return fmt.Errorf("scheduled_time: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dose, err := svc.Schedule(ctx, doses.ScheduleInput{
		MedicationID:  ev.MedicationID,
		ScheduledTime: at,
		ShortCode:     ev.ShortCode,
		OneTimeToken:  ev.OneTimeToken,
		Legacy:        ev.Legacy,
	})
	if err != nil {
		return fmt.Errorf("schedule dose: %w", err)
	}

	log.Info("dose-consumer: ledger row created", map[string]any{
		"dose_id":        dose.ID,
		"medication_id":  dose.MedicationID,
		"scheduled_time": dose.ScheduledTime.Format(time.RFC3339),
	})
	return nil
}
