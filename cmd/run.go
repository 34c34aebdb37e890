package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"fantasyleague/application"
	"fantasyleague/config"
	"fantasyleague/database"
	"fantasyleague/domain/events"
	"fantasyleague/domain/interfaces"
	"fantasyleague/infrastructure"
	"fantasyleague/infrastructure/observability"
	"fantasyleague/repository"
)

// Run initializes and starts the ledger engine
func Run(ctx context.Context) error {
	log.Println("Starting ledger engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize observability
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	// Audit every balance change twice: in-process as it is published, and
	// again off the stream once it lands
	auditListener := infrastructure.NewBalanceAuditListener(natsClient, subjectMapper)
	eventPublisher.RegisterLocalHandler(events.EventTypeBalanceChange, auditListener.HandleEvent)
	if err := auditListener.Start(); err != nil {
		return fmt.Errorf("failed to start balance audit listener: %w", err)
	}

	// Initialize unit of work factory; each unit of work buffers its events
	// until commit
	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNATSTransactionalPublisher(eventPublisher)
	})

	// Initialize operation facades
	var metrics application.Metrics = application.NopMetrics{}
	if mp := observability.GetMetrics(); mp != nil {
		metrics = mp
	}
	betting := application.NewBettingOperations(uowFactory, eventPublisher, metrics, cfg.DefaultBetTTL)

	// Start the settlement sweep
	worker := application.NewSettlementWorker(uowFactory, betting)
	stopWorker := worker.Start(ctx, cfg.SweepInterval)

	log.Printf("Ledger engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down ledger engine...")
	stopWorker()

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
