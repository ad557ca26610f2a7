package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"fleetrental-backend/internal/domain"
)

var bookingTestColumns = []string{
	"id", "booking_number", "agency_id", "vehicle_id", "customer_id", "created_by_id",
	"start_date", "end_date", "pickup_at", "return_at",
	"daily_rate", "duration_days", "subtotal", "tax_amount", "stamp_fee", "total_amount", "deposit_amount",
	"status", "mileage_limit", "extra_mileage_rate",
	"initial_mileage", "final_mileage",
	"fuel_policy", "initial_fuel_level", "final_fuel_level",
	"notes", "cancellation_reason", "created_at", "updated_at",
}

func bookingRow(id int64, status domain.BookingStatus, start, end time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingTestColumns).AddRow(
		id, "BK-20240301-ABCD1234", 1, 2, 3, 10,
		start, end, nil, nil,
		50000, 3, 150000, 10500, 1000, 161500, 0,
		string(status), 0, 0,
		nil, nil,
		"full_to_full", "", "",
		"", "", now, now,
	)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(55)).
			WillReturnRows(bookingRow(55, domain.BookingStatusPending, date("2024-03-01"), date("2024-03-04")))

		booking, err := repo.GetByID(ctx, 55)
		assert.NoError(t, err)
		assert.Equal(t, int64(55), booking.ID)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		assert.Equal(t, "161.500", booking.TotalAmount.String())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(bookingTestColumns))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_CreateIfAvailable(t *testing.T) {
	ctx := context.Background()
	start, end := date("2024-03-01"), date("2024-03-04")

	newBooking := func() *domain.Booking {
		return &domain.Booking{
			BookingNumber: "BK-20240301-ABCD1234",
			AgencyID:      1, VehicleID: 2, CustomerID: 3, CreatedByID: 10,
			StartDate: start, EndDate: end,
			DailyRate: 50000, DurationDays: 3,
			Subtotal: 150000, TaxAmount: 10500, StampFee: 1000, TotalAmount: 161500,
			Status:     domain.BookingStatusPending,
			FuelPolicy: domain.DefaultFuelPolicy,
		}
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE vehicle_id = \\$1").
			WithArgs(int64(2), start, end, int64(0)).
			WillReturnRows(sqlmock.NewRows(bookingTestColumns))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
		mock.ExpectCommit()

		b := newBooking()
		err = repo.CreateIfAvailable(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, int64(55), b.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConflictRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE vehicle_id = \\$1").
			WithArgs(int64(2), start, end, int64(0)).
			WillReturnRows(bookingRow(99, domain.BookingStatusConfirmed, start, end))
		mock.ExpectRollback()

		err = repo.CreateIfAvailable(ctx, newBooking())
		var ce *domain.ConflictError
		assert.ErrorAs(t, err, &ce)
		assert.Len(t, ce.Conflicts, 1)
		assert.ErrorIs(t, err, domain.ErrVehicleUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingVehicle", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err = repo.CreateIfAvailable(ctx, newBooking())
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_Update(t *testing.T) {
	ctx := context.Background()
	start, end := date("2024-03-01"), date("2024-03-04")

	booking := func(status domain.BookingStatus) *domain.Booking {
		return &domain.Booking{
			ID: 55, AgencyID: 1, VehicleID: 2, CustomerID: 3,
			StartDate: start, EndDate: end,
			Status:     status,
			FuelPolicy: domain.DefaultFuelPolicy,
		}
	}

	t.Run("GuardedByObservedStatus", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectExec("UPDATE bookings SET(.+)WHERE id=\\$22 AND status=\\$23").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Update(ctx, booking(domain.BookingStatusCancelled), domain.BookingStatusPending)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConcurrentWriterWins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectExec("UPDATE bookings SET(.+)WHERE id=\\$22 AND status=\\$23").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM bookings WHERE id = \\$1").
			WithArgs(int64(55)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(domain.BookingStatusCancelled)))

		err = repo.Update(ctx, booking(domain.BookingStatusInProgress), domain.BookingStatusConfirmed)
		var te *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &te)
		assert.Equal(t, domain.BookingStatusCancelled, te.From)
		assert.Equal(t, domain.BookingStatusInProgress, te.To)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RowGone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectExec("UPDATE bookings SET(.+)WHERE id=\\$22 AND status=\\$23").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM bookings WHERE id = \\$1").
			WithArgs(int64(55)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))

		err = repo.Update(ctx, booking(domain.BookingStatusCancelled), domain.BookingStatusPending)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_StartRental(t *testing.T) {
	ctx := context.Background()
	start, end := date("2024-03-01"), date("2024-03-04")

	initial := int64(42000)
	booking := &domain.Booking{
		ID: 55, AgencyID: 1, VehicleID: 2, CustomerID: 3,
		StartDate: start, EndDate: end,
		Status:         domain.BookingStatusInProgress,
		InitialMileage: &initial,
		FuelPolicy:     domain.DefaultFuelPolicy,
	}

	t.Run("BookingAndVehicleMoveTogether", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET(.+)WHERE id=\\$22 AND status=\\$23").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE vehicles SET status=\\$1").
			WithArgs(string(domain.VehicleStatusRented), sqlmock.AnyArg(), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.StartRental(ctx, booking, domain.BookingStatusConfirmed)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GuardMissRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET(.+)WHERE id=\\$22 AND status=\\$23").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM bookings WHERE id = \\$1").
			WithArgs(int64(55)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(domain.BookingStatusCancelled)))
		mock.ExpectRollback()

		err = repo.StartRental(ctx, booking, domain.BookingStatusConfirmed)
		var te *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &te)
		assert.Equal(t, domain.BookingStatusCancelled, te.From)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_CompleteRental(t *testing.T) {
	ctx := context.Background()
	start, end := date("2024-03-01"), date("2024-03-04")

	final := int64(42500)
	booking := &domain.Booking{
		ID: 55, AgencyID: 1, VehicleID: 2, CustomerID: 3,
		StartDate: start, EndDate: end,
		Status:       domain.BookingStatusCompleted,
		FinalMileage: &final,
		FuelPolicy:   domain.DefaultFuelPolicy,
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET(.+)WHERE id=\\$22 AND status=\\$23").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles SET status=\\$1, mileage=GREATEST\\(mileage, \\$2\\)").
		WithArgs(string(domain.VehicleStatusAvailable), final, sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.CompleteRental(ctx, booking, domain.BookingStatusInProgress)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_ConfirmIfAvailable(t *testing.T) {
	ctx := context.Background()
	start, end := date("2024-03-01"), date("2024-03-04")

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(55)).
			WillReturnRows(bookingRow(55, domain.BookingStatusPending, start, end))
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE vehicle_id = \\$1").
			WithArgs(int64(2), start, end, int64(55)).
			WillReturnRows(sqlmock.NewRows(bookingTestColumns))
		mock.ExpectExec("UPDATE bookings SET status=\\$1").
			WithArgs(string(domain.BookingStatusConfirmed), sqlmock.AnyArg(), int64(55)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		booking, err := repo.ConfirmIfAvailable(ctx, 55, start, end)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CancelledBookingStaysCancelled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		// A cancel committed between the caller's read and this
		// transaction; the locked re-read must refuse to confirm.
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(55)).
			WillReturnRows(bookingRow(55, domain.BookingStatusCancelled, start, end))
		mock.ExpectRollback()

		_, err = repo.ConfirmIfAvailable(ctx, 55, start, end)
		var te *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &te)
		assert.Equal(t, domain.BookingStatusCancelled, te.From)
		assert.Equal(t, domain.BookingStatusConfirmed, te.To)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RaceLostToOverlappingBooking", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(55)).
			WillReturnRows(bookingRow(55, domain.BookingStatusPending, start, end))
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE vehicle_id = \\$1").
			WithArgs(int64(2), start, end, int64(55)).
			WillReturnRows(bookingRow(77, domain.BookingStatusConfirmed, start, end))
		mock.ExpectRollback()

		_, err = repo.ConfirmIfAvailable(ctx, 55, start, end)
		assert.ErrorIs(t, err, domain.ErrVehicleUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
