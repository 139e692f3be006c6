package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pharmaguard/coldtrace/internal/credential"
	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/metrics"
)

func pathID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
}

func (s *Server) handleRegisterWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Role    string `json:"role"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller, err := callerAddress(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid "+callerHeader+" header")
		return
	}
	role, err := ledger.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := identity.Parse(req.Address)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid worker address")
		return
	}

	worker, err := s.ledger.RegisterWorker(r.Context(), caller, req.Name, role, addr)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("register_worker").Inc()
		respondLedgerError(w, err)
		return
	}

	metrics.WorkersRegisteredTotal.Inc()
	respondJSON(w, http.StatusCreated, worker)
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.ledger.ListWorkers(r.Context())
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, workers)
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	worker, err := s.ledger.GetWorker(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, worker)
}

func (s *Server) handleAssignedProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid worker ID")
		return
	}

	products, err := s.ledger.GetAssignedProducts(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		MinTemp     int64  `json:"min_temp"`
		MaxTemp     int64  `json:"max_temp"`
		MinHumidity int64  `json:"min_humidity"`
		MaxHumidity int64  `json:"max_humidity"`
		Quantity    uint64 `json:"quantity"`
		MfgDate     string `json:"mfg_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller, err := callerAddress(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid "+callerHeader+" header")
		return
	}

	product, err := s.ledger.AddProduct(r.Context(), caller, ledger.ProductParams{
		Name:        req.Name,
		Description: req.Description,
		MinTemp:     req.MinTemp,
		MaxTemp:     req.MaxTemp,
		MinHumidity: req.MinHumidity,
		MaxHumidity: req.MaxHumidity,
		Quantity:    req.Quantity,
		MfgDate:     req.MfgDate,
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("add_product").Inc()
		respondLedgerError(w, err)
		return
	}

	s.cache.Set(product)
	metrics.ProductsRegisteredTotal.Inc()
	respondJSON(w, http.StatusCreated, product)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.ledger.ListProducts(r.Context())
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if product, found := s.cache.Get(id); found {
		respondJSON(w, http.StatusOK, product)
		return
	}

	product, err := s.ledger.GetProduct(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	s.cache.Set(product)
	respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleProductHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	history, err := s.ledger.GetProductHistory(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Location    string `json:"location"`
		Temperature int64  `json:"temperature"`
		Humidity    int64  `json:"humidity"`
		Quantity    uint64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller, err := callerAddress(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid "+callerHeader+" header")
		return
	}

	record, err := s.ledger.UpdateStatus(r.Context(), caller, id, req.Location, req.Temperature, req.Humidity, req.Quantity)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("update_status").Inc()
		respondLedgerError(w, err)
		return
	}

	metrics.StatusUpdatesTotal.Inc()
	if !record.Compliant {
		metrics.ProductsSpoiledTotal.Inc()
		s.cache.Delete(id)
	}
	respondJSON(w, http.StatusOK, record)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		ToWorker uint64 `json:"to_worker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caller, err := callerAddress(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing or invalid "+callerHeader+" header")
		return
	}

	if err := s.ledger.TransferOwnership(r.Context(), caller, id, req.ToWorker); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("transfer_ownership").Inc()
		respondLedgerError(w, err)
		return
	}

	metrics.TransfersTotal.Inc()
	if product, err := s.ledger.GetProduct(r.Context(), id); err == nil {
		s.cache.Set(product)
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Custody transferred successfully",
	})
}

// handleIssueCredential signs a fresh product snapshot and returns it either as
// a QR PNG (default) or, with ?format=json, as the raw credential payload.
func (s *Server) handleIssueCredential(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := s.ledger.GetProduct(r.Context(), id)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	cred, err := credential.Issue(r.Context(), product, s.issuer, s.meta, time.Now().UTC())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("issue_credential").Inc()
		respondError(w, http.StatusInternalServerError, "Failed to sign credential: "+err.Error())
		return
	}
	metrics.CredentialsIssuedTotal.Inc()

	if r.URL.Query().Get("format") == "json" {
		respondJSON(w, http.StatusOK, cred)
		return
	}

	payload, err := cred.Pack()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	png, err := credential.EncodeImage(payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render QR code: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleVerify accepts either a raw credential payload (application/json) or a
// multipart upload with an "image" part containing a QR photo.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	payload, err := s.verifyPayload(r)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("unreadable").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.verifier.Verify(r.Context(), payload)
	if result.Valid {
		metrics.VerificationsTotal.WithLabelValues("valid").Inc()
	} else {
		metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) verifyPayload(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, errors.New("failed to read request body")
		}
		return payload, nil
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, errors.New("missing 'image' part in multipart upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read uploaded image")
	}
	payload, err := credential.DecodeImageBytes(data)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
