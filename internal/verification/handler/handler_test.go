package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/engine"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/handler"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/modules"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/processor"
)

type HandlerSuite struct {
	suite.Suite
	server *httptest.Server
	eng    *engine.Engine
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupSuite() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.eng = engine.New(engine.Config{
		MaxConcurrentVerifications: 5,
		DefaultTimeout:             5 * time.Second,
	},
		processor.New(processor.Config{}),
		engine.WithLogger(log),
	)
	s.eng.RegisterModule(modules.NewFactCheck())

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		handler.New(s.eng, log).Register(r)
	})
	s.server = httptest.NewServer(router)
}

func (s *HandlerSuite) TearDownSuite() {
	s.server.Close()
}

func (s *HandlerSuite) postVerify(body string) *http.Response {
	resp, err := http.Post(s.server.URL+"/v1/verifications", "application/json",
		bytes.NewBufferString(body))
	s.Require().NoError(err)
	return resp
}

func decodeBody[T any](s *HandlerSuite, resp *http.Response) T {
	defer resp.Body.Close()
	var out T
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *HandlerSuite) TestVerify() {
	s.Run("valid request returns a verdict", func() {
		resp := s.postVerify(`{
			"content": {"id": "doc-1", "extracted_text": "growth reached 150% this year"},
			"domain": "financial",
			"urgency": "high"
		}`)
		s.Equal(http.StatusOK, resp.StatusCode)

		body := decodeBody[handler.VerifyResponse](s, resp)
		s.NotEmpty(body.VerificationID)
		s.Len(body.Issues, 1)
		s.Equal("factual_error", body.Issues[0].Type)
		s.NotEmpty(body.AuditTrail)
		s.Equal("verification_started", body.AuditTrail[0].Action)
	})

	s.Run("malformed JSON is a bad request", func() {
		resp := s.postVerify(`{"content": `)
		s.Equal(http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[map[string]string](s, resp)
		s.Equal("bad_request", body["error"])
	})

	s.Run("missing content text is a validation error", func() {
		resp := s.postVerify(`{
			"content": {"id": "doc-1", "extracted_text": ""},
			"domain": "legal"
		}`)
		s.Equal(http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[map[string]string](s, resp)
		s.Equal("validation_error", body["error"])
		s.Contains(body["error_description"], "extracted_text")
	})

	s.Run("unknown domain is a validation error", func() {
		resp := s.postVerify(`{
			"content": {"id": "doc-1", "extracted_text": "text"},
			"domain": "astrology"
		}`)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *HandlerSuite) TestCancelUnknownVerification() {
	req, err := http.NewRequest(http.MethodDelete,
		s.server.URL+"/v1/verifications/no-such-id", nil)
	s.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestActiveCount() {
	resp, err := http.Get(s.server.URL + "/v1/verifications/active")
	s.Require().NoError(err)

	s.Equal(http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]int](s, resp)
	s.Equal(0, body["active"])
}

func (s *HandlerSuite) TestModules() {
	resp, err := http.Get(s.server.URL + "/v1/modules")
	s.Require().NoError(err)

	s.Equal(http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string][]string](s, resp)
	s.Contains(body["modules"], "fact-checker")
}
