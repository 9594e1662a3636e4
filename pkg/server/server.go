package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/hehify/pkg/config"
	hehErrors "github.com/bastiangx/hehify/pkg/errors"
	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for text transforms.
type Server struct {
	transformer  *heh.Transformer
	config       *config.Config
	configPath   string
	resolve      config.Resolver
	overrides    config.Overrides
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a server reading requests from r and writing
// responses to w. configPath may be empty when built-in defaults are in
// use; settings changes are then kept in memory. overrides stay in force
// across config reloads until set_settings replaces a field.
func NewServer(t *heh.Transformer, cfg *config.Config, configPath string, resolve config.Resolver, overrides config.Overrides, r io.Reader, w io.Writer) *Server {
	return &Server{
		transformer: t,
		config:      cfg,
		configPath:  configPath,
		resolve:     resolve,
		overrides:   overrides,
		decoder:     msgpack.NewDecoder(r),
		encoder:     msgpack.NewEncoder(w),
	}
}

// Start signals readiness and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting msgpack server.")
	s.sendResponse(AdminResponse{Status: "ready"})

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server.")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack stream", 400)
			return err
		}
		s.handleMessage(raw)
	}
}

func (s *Server) handleMessage(raw msgpack.RawMessage) {
	s.requestCount++
	if every := s.config.Server.ReloadEvery; every > 0 && s.requestCount%every == 0 {
		s.reloadConfig()
	}

	var head actionHeader
	if err := msgpack.Unmarshal(raw, &head); err != nil {
		log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "request must be a msgpack map", 400)
		return
	}
	if head.Action != "" {
		var req AdminRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.sendError(head.ID, fmt.Sprintf("invalid admin request: %v", err), 400)
			return
		}
		s.handleAdmin(req)
		return
	}

	var req TransformRequest
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.sendError(head.ID, fmt.Sprintf("invalid transform request: %v", err), 400)
		return
	}
	s.handleTransform(req)
}

func (s *Server) handleTransform(req TransformRequest) {
	id := requestID(req.ID)

	if limit := s.config.Server.MaxTextLen; limit > 0 && len(req.Text) > limit {
		s.sendError(id, fmt.Sprintf("text exceeds %d bytes", limit), 400)
		return
	}
	if !heh.ValidText(req.Text) {
		s.sendError(id, "text is not valid UTF-8", 400)
		return
	}

	t := s.transformer
	if req.Rate != nil || req.Level != nil || req.Seed != nil {
		settings := t.Settings()
		if req.Rate != nil {
			settings.Rate = *req.Rate
		}
		if req.Level != nil {
			settings.Level = *req.Level
		}
		if req.Seed != nil {
			settings = settings.WithSeed(*req.Seed)
		}
		var err error
		if t, err = t.WithSettings(settings); err != nil {
			s.sendError(id, err.Error(), hehErrors.Status(err))
			return
		}
	}

	start := time.Now()
	out, st := t.Transform(req.Text)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for %d words (id=%s)", elapsed, st.Words, id)

	s.sendResponse(TransformResponse{
		ID:      id,
		Text:    out,
		Changed: st.Changed,
		Stats: WordStats{
			Words:     st.Words,
			Changed:   st.Changed,
			Replaced:  st.Replaced,
			Protected: st.Protected,
		},
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleAdmin(req AdminRequest) {
	id := requestID(req.ID)
	switch req.Action {
	case "health":
		s.sendResponse(AdminResponse{ID: id, Status: "ok", Requests: s.requestCount})
	case "get_config":
		s.sendResponse(AdminResponse{ID: id, Status: "ok", Settings: s.settingsInfo()})
	case "set_settings":
		if err := s.config.Update(s.configPath, req.Rate, req.Level, req.Seed); err != nil {
			log.Warnf("Rejected settings update: %v", err)
			s.sendResponse(AdminResponse{ID: id, Status: "error", Error: err.Error()})
			return
		}
		if req.Rate != nil {
			s.overrides.Rate = nil
		}
		if req.Level != nil {
			s.overrides.Level = nil
		}
		if req.Seed != nil {
			s.overrides.Seed = nil
		}
		settings := s.config.Settings()
		s.overrides.Apply(&settings)
		t, err := s.transformer.WithSettings(settings)
		if err != nil {
			s.sendResponse(AdminResponse{ID: id, Status: "error", Error: err.Error()})
			return
		}
		s.transformer = t
		log.Infof("Settings updated: rate=%v level=%v", s.config.Heh.Rate, s.config.Heh.Level)
		s.sendResponse(AdminResponse{ID: id, Status: "ok", Settings: s.settingsInfo()})
	default:
		s.sendError(id, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// reloadConfig rebuilds the transformer from the config file. A file that
// fails to load keeps the running config.
func (s *Server) reloadConfig() {
	if s.configPath == "" {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Config reload failed, keeping current settings: %v", err)
		return
	}
	t, err := cfg.NewTransformer(s.resolve, s.overrides.Apply)
	if err != nil {
		log.Warnf("Config reload failed, keeping current settings: %v", err)
		return
	}
	s.config = cfg
	s.transformer = t
	log.Debugf("Reloaded config from %s after %d requests", s.configPath, s.requestCount)
}

func (s *Server) settingsInfo() *SettingsInfo {
	settings := s.transformer.Settings()
	return &SettingsInfo{
		Rate:          settings.Rate,
		Level:         settings.Level,
		Seed:          settings.Seed,
		ReseedPerWord: settings.ReseedPerWord,
		MaxTextLen:    s.config.Server.MaxTextLen,
	}
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

func requestID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
