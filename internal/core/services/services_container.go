package services

import (
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil when no broker is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.OccurrencePublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo)
	container.Recurring = NewRecurringTransactionService(repos.RecurringRepo, WithRecurringLocation(cfg.RecurringLocation))

	// Friend service first since goals check friendships
	container.Friend = NewFriendService(repos.FriendRepo, repos.UserRepo)
	container.Goal = NewGoalService(repos.GoalRepo, repos.UserRepo, container.Friend)

	processorOptions := []RecurringProcessorOption{WithProcessingLocation(cfg.RecurringLocation)}
	if publisher != nil {
		processorOptions = append(processorOptions, WithOccurrencePublisher(publisher))
	}
	container.RecurringProcessor = NewRecurringProcessor(repos.RecurringRepo, processorOptions...)

	return container
}
