package postgres

import (
	"database/sql"

	"gearhouse-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.InventoryRepository
	repository.MaintenanceRepository
	repository.TransactionRepository
	repository.WaiverRepository
	repository.CustomerRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		RentalRepository:      NewRentalRepository(db),
		InventoryRepository:   NewInventoryRepository(db),
		MaintenanceRepository: NewMaintenanceRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		WaiverRepository:      NewWaiverRepository(db),
		CustomerRepository:    NewCustomerRepository(db),
	}
}
