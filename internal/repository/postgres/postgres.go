package postgres

import (
	"database/sql"

	"fleetrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.AgencyRepository
	repository.VehicleRepository
	repository.CustomerRepository
	repository.BookingRepository
	repository.ContractRepository
	repository.PaymentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		AgencyRepository:   NewAgencyRepository(db),
		VehicleRepository:  NewVehicleRepository(db),
		CustomerRepository: NewCustomerRepository(db),
		BookingRepository:  NewBookingRepository(db),
		ContractRepository: NewContractRepository(db),
		PaymentRepository:  NewPaymentRepository(db),
	}
}
