// Package api implements the HTTP server that builds unsigned Solana
// instructions and signs or verifies messages.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	klog "github.com/Klingon-tech/solforge/internal/log"
	"github.com/Klingon-tech/solforge/pkg/crypto"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Journal records every request and response the server handles.
// Implementations must be safe for concurrent use.
type Journal interface {
	Startup()
	Request(route, method, uri string, body []byte)
	Response(route string, status int, body []byte)
}

// Options configures a Server. The zero value allows all IPs, disables
// CORS, discards the journal and serves no metrics.
type Options struct {
	AllowedIPs   []string
	CORSOrigins  []string // "*" allows any origin.
	Journal      Journal
	Metrics      *Metrics
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the instruction API HTTP server.
type Server struct {
	addr        string
	handler     http.Handler
	server      *http.Server
	logger      zerolog.Logger
	ln          net.Listener
	journal     Journal
	metrics     *Metrics
	verifier    crypto.Verifier
	allowedNets []*net.IPNet // Empty = allow all.
	corsOrigins []string     // Empty = no CORS headers.
}

// handlerFunc handles a decoded route. It returns the success payload or
// the error to report.
type handlerFunc func(body []byte) (interface{}, *Error)

// New creates a new API server listening on addr once started.
func New(addr string, opts Options) *Server {
	s := &Server{
		addr:        addr,
		logger:      klog.API,
		journal:     opts.Journal,
		metrics:     opts.Metrics,
		verifier:    crypto.Ed25519Verifier{},
		allowedNets: parseAllowedIPs(opts.AllowedIPs),
		corsOrigins: opts.CORSOrigins,
	}
	if s.journal == nil {
		s.journal = klog.NopJournal{}
	}

	r := mux.NewRouter()
	r.Handle("/health", s.route("/health", s.handleHealth)).Methods(http.MethodGet)
	r.Handle("/keypair", s.route("/keypair", s.handleKeypair)).Methods(http.MethodPost)
	r.Handle("/token/create", s.route("/token/create", s.handleCreateToken)).Methods(http.MethodPost)
	r.Handle("/token/mint", s.route("/token/mint", s.handleMintToken)).Methods(http.MethodPost)
	r.Handle("/message/sign", s.route("/message/sign", s.handleSignMessage)).Methods(http.MethodPost)
	r.Handle("/message/verify", s.route("/message/verify", s.handleVerifyMessage)).Methods(http.MethodPost)
	r.Handle("/send/sol", s.route("/send/sol", s.handleSendSol)).Methods(http.MethodPost)
	r.Handle("/send/token", s.route("/send/token", s.handleSendToken)).Methods(http.MethodPost)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	r.NotFoundHandler = s.plainError(http.StatusNotFound, MsgNotFound)
	r.MethodNotAllowedHandler = s.plainError(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	r.Use(s.logRequests)

	s.handler = s.filterIP(s.withCORS(r))

	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	s.server = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	return s
}

// parseAllowedIPs converts string IP/CIDR entries into net.IPNet.
// Unparseable entries are skipped.
func parseAllowedIPs(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		if _, ipNet, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, ipNet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return nets
}

// Start begins listening and serving in a background goroutine.
// It returns immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.ln = ln
	s.journal.Startup()

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Handler returns the server's full handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// route adapts a handlerFunc to HTTP: it reads the body, journals the
// exchange, writes the envelope and records metrics.
func (s *Server) route(name string, h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
		s.journal.Request(name, r.Method, r.RequestURI, body)

		var (
			result interface{}
			apiErr *Error
		)
		switch {
		case err != nil, len(body) > maxBodySize:
			apiErr = badRequest(MsgInvalidBody)
		default:
			result, apiErr = h(body)
		}

		var status int
		var out []byte
		if apiErr != nil {
			status = apiErr.Status
			out = writeJSON(w, status, ErrorResponse{Success: false, Error: apiErr.Message})
		} else {
			status = http.StatusOK
			out = writeJSON(w, status, SuccessResponse{Success: true, Data: result})
		}

		s.journal.Response(name, status, out)
		s.metrics.observe(name, status, time.Since(start))
	})
}

// plainError answers with an error envelope without reading the body.
func (s *Server) plainError(status int, msg string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
		s.metrics.observe("unmatched", status, 0)
	})
}

// decodeBody unmarshals a JSON request body into target. Field names are
// matched case-sensitively: a key that equals a field tag only under case
// folding is rejected.
func decodeBody(body []byte, target interface{}) *Error {
	if !exactFieldNames(body, target) {
		return badRequest(MsgInvalidBody)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return badRequest(MsgInvalidBody)
	}
	return nil
}

// exactFieldNames reports whether every top-level key of body that names a
// field of target spells it with the tag's exact case. Bodies that are not
// JSON objects pass through to the regular decode.
func exactFieldNames(body []byte, target interface{}) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return true
	}
	tags := jsonTags(reflect.TypeOf(target))
	for key := range fields {
		if _, ok := tags[key]; ok {
			continue
		}
		for tag := range tags {
			if strings.EqualFold(key, tag) {
				return false
			}
		}
	}
	return true
}

// jsonTags returns the JSON field names of a struct or pointer-to-struct type.
func jsonTags(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	tags := make(map[string]struct{})
	if t.Kind() != reflect.Struct {
		return tags
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		tags[name] = struct{}{}
	}
	return tags
}

// writeJSON writes v with the given status and returns the encoded bytes.
func writeJSON(w http.ResponseWriter, status int, v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"success":false,"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	return data
}

// logRequests logs each routed request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tmpl := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if t, err := route.GetPathTemplate(); err == nil {
				tmpl = t
			}
		}
		s.logger.Debug().
			Str("method", r.Method).
			Str("route", tmpl).
			Str("remote", r.RemoteAddr).
			Msg("request")
		next.ServeHTTP(w, r)
	})
}

// filterIP rejects clients outside the allow list.
func (s *Server) filterIP(next http.Handler) http.Handler {
	if len(s.allowedNets) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: MsgForbidden})
			return
		}
		ip := net.ParseIP(host)
		if ip == nil || !s.isIPAllowed(ip) {
			s.logger.Warn().Str("remote", host).Msg("Rejected client outside allow list")
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: MsgForbidden})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS sets CORS headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	if len(s.corsOrigins) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := s.setCORSHeaders(w, r)
		if allowed && r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isIPAllowed checks if the IP is in the allowed networks list.
func (s *Server) isIPAllowed(ip net.IP) bool {
	for _, n := range s.allowedNets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// setCORSHeaders adds CORS headers when the request origin is allowed and
// reports whether it was.
func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	allowed := false
	for _, o := range s.corsOrigins {
		if o == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			allowed = true
			break
		}
		if o == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			allowed = true
			break
		}
	}

	if allowed {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
	}
	return allowed
}
