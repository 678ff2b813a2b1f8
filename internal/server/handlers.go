package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/course-validator/internal/types"
	"github.com/jonathan/course-validator/internal/validation"
)

// maxRequestBody caps the request body. Course material is text, so
// anything larger is almost certainly a mistake.
const maxRequestBody = 2 << 20 // 2 MiB

// handleValidate runs the full validation pipeline on the posted
// content and returns the combined report.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeValidationRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := validation.Run(r.Context(), req, s.grader, s.options)
	if err != nil {
		// Run only fails on invalid input; analyzer failures degrade
		// inside the result instead.
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("[validate] score=%d status=%s citations=%d blocks=%d",
		result.Overall.OverallScore, result.Overall.Status,
		result.Grounding.TotalCitations, result.Syntax.BlocksChecked)

	s.jsonResponse(w, http.StatusOK, result)
}

// decodeValidationRequest reads and decodes the request body.
func decodeValidationRequest(w http.ResponseWriter, r *http.Request) (*types.ValidationRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req types.ValidationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &ErrPayloadTooLarge{Limit: maxRequestBody}
		}
		return nil, &ErrBadRequest{Message: "invalid JSON body: " + err.Error()}
	}

	if err := req.Validate(); err != nil {
		return nil, &ErrValidation{Message: err.Error()}
	}

	return &req, nil
}
