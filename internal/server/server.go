package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/skillconnect/marketplace/internal/config"
	"github.com/skillconnect/marketplace/internal/middleware"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
)

const (
	CacheKeyMarketplaceStats = "marketplaceStats"
)

type Server struct {
	cfg      config.Config
	Conn     *sql.DB
	router   *mux.Router
	bigCache *bigcache.BigCache
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
) Server {
	if cfg.SentryDSN != "" {
		raven.SetDSN(cfg.SentryDSN)
	}

	bigCache, err := bigcache.NewBigCache(bigcache.DefaultConfig(5 * time.Minute))
	svr := Server{
		cfg:      cfg,
		Conn:     conn,
		router:   r,
		bigCache: bigCache,
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

// GetCaller extracts the verified caller identity from the request token.
func (s Server) GetCaller(r *http.Request) (*middleware.CallerIdentity, error) {
	return middleware.GetCallerFromRequest(r, s.cfg.JwtSigningKey)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) JSONError(w http.ResponseWriter, status int, msg string) {
	s.JSON(w, status, map[string]string{"error": msg})
}

func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" {
		raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	}
	log.Printf("%s: %+v", msg, err)
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	if s.bigCache == nil {
		return []byte{}, false
	}
	out, err := s.bigCache.Get(key)
	if err != nil {
		return []byte{}, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	if s.bigCache == nil {
		return nil
	}
	return s.bigCache.Set(key, val)
}

func (s Server) CacheDelete(key string) error {
	if s.bigCache == nil {
		return nil
	}
	return s.bigCache.Delete(key)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		log.Printf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	return http.ListenAndServe(
		addr,
		middleware.HTTPSMiddleware(
			middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env)),
			s.cfg.Env,
		),
	)
}
