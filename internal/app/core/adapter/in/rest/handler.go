// Package rest is the inbound HTTP/JSON adapter. Handlers only decode
// requests, call the use cases and translate domain errors to status codes;
// every ledger rule lives below this layer.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/finapi/go-ledger/internal/app/core/usecase"
)

type Server struct {
	ledger *usecase.LedgerUseCase
	users  *usecase.UserUseCase
}

func NewServer(ledger *usecase.LedgerUseCase, users *usecase.UserUseCase) *Server {
	return &Server{ledger: ledger, users: users}
}

// POST /api/v1/users
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// POST /api/v1/sessions
//
// Verifies the credential against the directory and returns the user. No
// token is issued; authentication mechanics live outside this service.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// GET /api/v1/statements/{user_id}/balance
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}
	balance, err := s.ledger.GetBalance(r.Context(), userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

type amountRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// POST /api/v1/statements/{user_id}/deposit
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := s.ledger.Deposit(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// POST /api/v1/statements/{user_id}/withdraw
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := s.ledger.Withdraw(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// POST /api/v1/statements/{user_id}/transfers/{receiver_id}
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	senderID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}
	receiverID, ok := pathUUID(w, r, "receiver_id")
	if !ok {
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := s.ledger.Transfer(r.Context(), senderID, receiverID, req.Amount, req.Description)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// GET /api/v1/health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
