package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/issue-tracker/internal/config"
	"github.com/spec-kit/issue-tracker/internal/domain"
	"github.com/spec-kit/issue-tracker/internal/events"
	"github.com/spec-kit/issue-tracker/internal/observability"
	"github.com/spec-kit/issue-tracker/internal/repository"
	"github.com/spec-kit/issue-tracker/internal/service"
	"github.com/spec-kit/issue-tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	issueRepo := repository.NewInMemoryIssueRepository()
	customerRepo := repository.NewInMemoryCustomerRepository()
	agentRepo := repository.NewInMemoryAgentRepository()

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		CustomerRepo: customerRepo,
		AgentRepo:    agentRepo,
	})
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:    issueRepo,
		CustomerRepo: customerRepo,
		AgentRepo:    agentRepo,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	logger.Info("starting demo run",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version))

	customer, err := directoryService.RegisterCustomer(ctx, service.RegisterCustomerInput{
		ID:    "C1",
		Name:  "John Doe",
		Email: "john@example.com",
	})
	if err != nil {
		logger.Fatal("failed to register customer", zap.Error(err))
	}

	agent, err := directoryService.RegisterAgent(ctx, service.RegisterAgentInput{
		ID:   "A1",
		Name: "Agent Smith",
	})
	if err != nil {
		logger.Fatal("failed to register agent", zap.Error(err))
	}

	issue, err := issueService.CreateIssue(ctx, service.CreateIssueInput{
		Title:       "Payment Failure",
		Description: "Payment not going through",
		CustomerID:  customer.ID,
		Priority:    domain.IssuePriorityHigh,
	})
	if err != nil {
		logger.Fatal("failed to create issue", zap.Error(err))
	}
	logger.Info("issue created",
		zap.String("issue_id", issue.ID),
		zap.String("status", string(issue.Status)))

	if _, err := issueService.AssignIssue(ctx, issue.ID, agent.ID); err != nil {
		logger.Fatal("failed to assign issue", zap.Error(err))
	}
	if _, err := issueService.ResolveIssue(ctx, issue.ID); err != nil {
		logger.Fatal("failed to resolve issue", zap.Error(err))
	}
	if _, err := issueService.CloseIssue(ctx, issue.ID); err != nil {
		logger.Fatal("failed to close issue", zap.Error(err))
	}

	final, err := issueService.GetIssue(ctx, issue.ID)
	if err != nil {
		logger.Fatal("failed to fetch issue", zap.Error(err))
	}

	reportIssue(logger, final)

	operations, errCounts := metrics.Snapshot()
	logger.Info("metrics snapshot",
		zap.Any("operations", operations),
		zap.Any("errors", errCounts))
}

func reportIssue(logger *zap.Logger, issue *domain.Issue) {
	agentID := ""
	if issue.AgentID != nil {
		agentID = *issue.AgentID
	}
	logger.Info("issue lifecycle complete",
		zap.String("issue_id", issue.ID),
		zap.String("status", string(issue.Status)),
		zap.String("agent_id", agentID),
		zap.Int("history_entries", len(issue.History)))
	for i, entry := range issue.History {
		logger.Info("history entry", zap.Int("index", i), zap.String("entry", entry))
	}
}
