package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pharmaguard/coldtrace/internal/ledger"
)

const groupID = "ledger-events-consumer-group"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}

	log.Println("Starting ledger events consumer...")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{brokers},
		GroupID:        groupID,
		Topic:          ledger.EventsTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		log.Println("Closing Kafka reader...")
		if err := r.Close(); err != nil {
			log.Printf("Error closing Kafka reader: %v", err)
		}
	}()

	log.Printf("Consumer connected to topic '%s' on brokers %s", ledger.EventsTopic, brokers)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown signal received, stopping consumer.")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error reading message: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			var event ledger.Event
			if err := json.Unmarshal(m.Value, &event); err != nil {
				log.Printf("Skipping undecodable event at offset %d: %v", m.Offset, err)
				continue
			}

			fmt.Printf("\n--- LEDGER EVENT ---\n")
			fmt.Printf("Time:      %s\n", m.Time.Format(time.RFC3339))
			fmt.Printf("Partition: %d  Offset: %d\n", m.Partition, m.Offset)
			fmt.Printf("Type:      %s\n", event.Type)
			fmt.Printf("Payload:   %s\n", string(m.Value))
			fmt.Println("--- END EVENT ---")
		}
	}
}
