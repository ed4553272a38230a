package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/YoshitsuguKoike/billrecon/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
	"github.com/YoshitsuguKoike/billrecon/internal/application/usecase/reconcile"
	"github.com/YoshitsuguKoike/billrecon/internal/domain/model/expense"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Message: "ok"})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	report, err := s.useCases.Audit.Execute(r.Context())
	if err != nil {
		var data interface{}
		if report != nil {
			data = report // describes which stores failed
		}
		s.writeError(w, err, data)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Data: report})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	report, err := s.useCases.Repair.Execute(r.Context())
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Message: report.Message, Data: report})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeJSON(w, statusForBodyError(err), presenter.Envelope{Success: false, Error: err.Error()})
		return
	}
	req.PersonID = strings.TrimSpace(req.PersonID)

	var (
		report *dto.GenerateReport
		err    error
	)
	if req.PersonID != "" {
		report, err = s.useCases.Generate.GenerateForPerson(r.Context(), req)
	} else {
		report, err = s.useCases.Generate.GenerateAll(r.Context(), req)
	}
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Message: report.Message, Data: report})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.GenerateRequest{
		Period:   strings.TrimSpace(q.Get("period")),
		PersonID: strings.TrimSpace(q.Get("personId")),
	}
	report, err := s.useCases.Generate.Preview(r.Context(), req)
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Message: report.Message, Data: report})
}

func (s *Server) handleListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := s.useCases.Directory.ListRates(r.Context())
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Data: rates})
}

func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	listing, err := s.useCases.Directory.ListLedger(r.Context(), strings.TrimSpace(r.URL.Query().Get("period")))
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Envelope{Success: true, Data: listing})
}

// decodeBody reads an optional JSON body. An empty body leaves v untouched.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func statusForBodyError(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// statusFor maps use case errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrInvalidRequest), errors.Is(err, expense.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, reconcile.ErrPersonNotFound):
		return http.StatusNotFound
	case errors.Is(err, reconcile.ErrGenerationInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, data interface{}) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected (%d): %v", status, err)
	}

	writeJSON(w, status, presenter.Envelope{Success: false, Error: err.Error(), Data: data})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
