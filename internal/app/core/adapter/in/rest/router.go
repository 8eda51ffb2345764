package rest

import "net/http"

// Router binds the API surface. Method and path parameters use the ServeMux
// pattern syntax, so no routing framework is needed.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.health)

	mux.HandleFunc("POST /api/v1/users", s.createUser)
	mux.HandleFunc("POST /api/v1/sessions", s.createSession)

	mux.HandleFunc("GET /api/v1/statements/{user_id}/balance", s.getBalance)
	mux.HandleFunc("POST /api/v1/statements/{user_id}/deposit", s.deposit)
	mux.HandleFunc("POST /api/v1/statements/{user_id}/withdraw", s.withdraw)
	mux.HandleFunc("POST /api/v1/statements/{user_id}/transfers/{receiver_id}", s.transfer)

	return mux
}
