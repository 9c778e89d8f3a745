package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/middleware"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/monitoring"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	monitoring.RegisterMetricsEndpoint(mux)

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/items", s.handleItemsCollection)
	mux.HandleFunc("/items/", s.handleItemRoutes)
	mux.HandleFunc("/bids", s.auth.RequireAdmin(s.adminHandler.HandleListBids))

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.NewHTTPMetricsMiddleware(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) handleItemsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.catalogHandler.HandleListItems(w, r)
	case http.MethodPost:
		s.auth.RequireAdmin(s.adminHandler.HandleCreateItem)(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleItemRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/items/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] != "" {
		itemID := parts[0]
		switch r.Method {
		case http.MethodGet:
			s.catalogHandler.HandleGetItem(w, r, itemID)
		case http.MethodPut, http.MethodPatch:
			s.auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				s.adminHandler.HandleUpdateItem(w, r, itemID)
			})(w, r)
		case http.MethodDelete:
			s.auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				s.adminHandler.HandleDeleteItem(w, r, itemID)
			})(w, r)
		default:
			http.NotFound(w, r)
		}
		return
	}

	if len(parts) == 2 && parts[0] != "" && r.Method == http.MethodPost {
		itemID := parts[0]
		switch parts[1] {
		case "bids":
			s.auth.RequireBidder(func(w http.ResponseWriter, r *http.Request) {
				s.bidHandler.HandlePlaceBid(w, r, itemID)
			})(w, r)
			return
		case "close":
			s.auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				s.lifecycleHandler.HandleCloseAuction(w, r, itemID)
			})(w, r)
			return
		case "notify-winner":
			s.auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				s.lifecycleHandler.HandleNotifyWinner(w, r, itemID)
			})(w, r)
			return
		}
	}

	http.NotFound(w, r)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
