// Package http exposes the REST API. Every route except login, refresh
// and the health probe sits behind the JWT auth middleware; tenant
// scoping itself happens in the service layer, never here.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"fleetrental-backend/internal/security"
	"fleetrental-backend/internal/service"
)

type RouterConfig struct {
	Tokens    security.TokenManager
	Auth      service.AuthService
	Bookings  service.BookingService
	Vehicles  service.VehicleService
	Customers service.CustomerService
	Contracts service.ContractService
	Payments  service.PaymentService
}

func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	authHandler := NewAuthHandler(cfg.Auth)
	router.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/refresh", authHandler.Refresh).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(cfg.Tokens))

	bookings := NewBookingHandler(cfg.Bookings)
	api.HandleFunc("/vehicles/{id:[0-9]+}/availability", bookings.CheckAvailability).Methods("GET")
	api.HandleFunc("/bookings", bookings.Create).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}", bookings.Get).Methods("GET")
	api.HandleFunc("/bookings/{id:[0-9]+}", bookings.Update).Methods("PATCH")
	api.HandleFunc("/bookings/{id:[0-9]+}/confirm", bookings.Confirm).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}/start", bookings.Start).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}/complete", bookings.Complete).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookings.Cancel).Methods("POST")
	api.HandleFunc("/agencies/{agencyID:[0-9]+}/bookings", bookings.List).Methods("GET")

	vehicles := NewVehicleHandler(cfg.Vehicles)
	api.HandleFunc("/vehicles", vehicles.Create).Methods("POST")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicles.Get).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicles.Update).Methods("PUT")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicles.Delete).Methods("DELETE")
	api.HandleFunc("/agencies/{agencyID:[0-9]+}/vehicles", vehicles.List).Methods("GET")
	api.HandleFunc("/agencies/{agencyID:[0-9]+}/vehicles/available", vehicles.ListAvailable).Methods("GET")

	customers := NewCustomerHandler(cfg.Customers)
	api.HandleFunc("/customers", customers.Create).Methods("POST")
	api.HandleFunc("/customers/{id:[0-9]+}", customers.Get).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", customers.Update).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}/blacklist", customers.SetBlacklist).Methods("POST")
	api.HandleFunc("/agencies/{agencyID:[0-9]+}/customers", customers.List).Methods("GET")

	contracts := NewContractHandler(cfg.Contracts)
	api.HandleFunc("/bookings/{id:[0-9]+}/contract", contracts.CreateFromBooking).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}/contract", contracts.GetByBooking).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}", contracts.Get).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}/sign", contracts.Sign).Methods("POST")
	api.HandleFunc("/contracts/{id:[0-9]+}/cancel", contracts.Cancel).Methods("POST")
	api.HandleFunc("/agencies/{agencyID:[0-9]+}/contracts", contracts.List).Methods("GET")

	payments := NewPaymentHandler(cfg.Payments)
	api.HandleFunc("/payments", payments.Record).Methods("POST")
	api.HandleFunc("/payments/{id:[0-9]+}/complete", payments.Complete).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}/payments", payments.ListByBooking).Methods("GET")

	return router
}
