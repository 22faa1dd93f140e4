package app

import (
	"fmt"

	billingDomain "github.com/felixgeelhaar/inkwell/internal/billing/domain"
	billingPersistence "github.com/felixgeelhaar/inkwell/internal/billing/infrastructure/persistence"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	waitlistDomain "github.com/felixgeelhaar/inkwell/internal/waitlist/domain"
	waitlistPersistence "github.com/felixgeelhaar/inkwell/internal/waitlist/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// SubscriptionRepository creates a subscription repository for the configured driver.
func (f *RepositoryFactory) SubscriptionRepository() (billingDomain.SubscriptionRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return billingPersistence.NewPostgresSubscriptionRepository(f.conn), nil
	case database.DriverSQLite:
		return billingPersistence.NewSQLiteSubscriptionRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// WaitlistRepository creates a waitlist repository for the configured driver.
func (f *RepositoryFactory) WaitlistRepository() (waitlistDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return waitlistPersistence.NewPostgresWaitlistRepository(f.conn), nil
	case database.DriverSQLite:
		return waitlistPersistence.NewSQLiteWaitlistRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
