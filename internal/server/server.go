//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmaguard/coldtrace/internal/cache"
	"github.com/pharmaguard/coldtrace/internal/credential"
	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/signature"
	"github.com/pharmaguard/coldtrace/internal/verifier"
)

// callerHeader carries the wallet address the request acts as. The ledger does
// its own authorization against it; the header is identification, not proof.
const callerHeader = "X-Caller-Address"

type Ledger interface {
	RegisterWorker(ctx context.Context, caller identity.Address, name string, role ledger.Role, addr identity.Address) (*ledger.Worker, error)
	AddProduct(ctx context.Context, caller identity.Address, params ledger.ProductParams) (*ledger.Product, error)
	UpdateStatus(ctx context.Context, caller identity.Address, productID uint64, location string, temperature, humidity int64, quantity uint64) (*ledger.StatusRecord, error)
	TransferOwnership(ctx context.Context, caller identity.Address, productID, toWorker uint64) error
	GetProduct(ctx context.Context, productID uint64) (*ledger.Product, error)
	GetWorker(ctx context.Context, workerID uint64) (*ledger.Worker, error)
	GetProductHistory(ctx context.Context, productID uint64) ([]ledger.StatusRecord, error)
	GetAssignedProducts(ctx context.Context, workerID uint64) ([]ledger.Product, error)
	ListProducts(ctx context.Context) ([]ledger.Product, error)
	ListWorkers(ctx context.Context) ([]ledger.Worker, error)
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type Server struct {
	ledger       Ledger
	verifier     *verifier.Verifier
	userRepo     UserRepo
	cache        *cache.ProductCache
	issuer       signature.Provider
	meta         credential.Meta
	server       *http.Server
	AuditManager *AuditManager
}

func New(ldg Ledger, vrf *verifier.Verifier, userRepo UserRepo, productCache *cache.ProductCache, issuer signature.Provider, meta credential.Meta) *Server {
	auditManager := NewAuditManager(2, 5, 500*time.Millisecond)
	return &Server{
		ledger:       ldg,
		verifier:     vrf,
		userRepo:     userRepo,
		cache:        productCache,
		issuer:       issuer,
		meta:         meta,
		AuditManager: auditManager,
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	log.Printf("Server starting on port %s", port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("HTTP server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	log.Println("Server shutdown completed successfully")

	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	// Worker registration is the admin bootstrap surface; everything else is
	// authorized by the ledger against the caller address.
	router.Handle("/workers", s.basicAuthMiddleware(http.HandlerFunc(s.handleRegisterWorker))).Methods(http.MethodPost)
	router.HandleFunc("/workers", s.handleListWorkers).Methods(http.MethodGet)
	router.HandleFunc("/workers/{id}", s.handleGetWorker).Methods(http.MethodGet)
	router.HandleFunc("/workers/{id}/products", s.handleAssignedProducts).Methods(http.MethodGet)

	router.HandleFunc("/products", s.handleAddProduct).Methods(http.MethodPost)
	router.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", s.handleGetProduct).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}/history", s.handleProductHistory).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}/status", s.handleUpdateStatus).Methods(http.MethodPost)
	router.HandleFunc("/products/{id}/transfer", s.handleTransferOwnership).Methods(http.MethodPost)
	router.HandleFunc("/products/{id}/credential", s.handleIssueCredential).Methods(http.MethodGet)

	router.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return s.auditLogMiddleware(router)
}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil || !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondLedgerError translates ledger sentinels into HTTP statuses.
func respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrDuplicateIdentity), errors.Is(err, ledger.ErrAlreadySpoiled):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidRange), errors.Is(err, ledger.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func callerAddress(r *http.Request) (identity.Address, error) {
	return identity.Parse(r.Header.Get(callerHeader))
}
