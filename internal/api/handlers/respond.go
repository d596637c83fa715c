package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/wonny/buildbid/backend/internal/contracts"
	"github.com/wonny/buildbid/backend/pkg/logger"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps domain errors onto status codes.
// Anything unrecognised is logged and answered with fallback as a 500.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, contracts.ErrEmailTaken):
		respondError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, contracts.ErrBidNotPending):
		respondError(w, http.StatusConflict, "Bid has already been decided")
	case errors.Is(err, contracts.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, contracts.ErrTooManyAttempts):
		respondError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
	case errors.Is(err, contracts.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Error(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON reads a JSON body into dst and runs its validate tags
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, contracts.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: invalid request body", contracts.ErrInvalidInput)
	}

	if err := getValidator().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", lowerFirst(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid fields: %s", contracts.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", contracts.ErrInvalidInput, err)
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pathID parses a positive integer mux variable
func pathID(r *http.Request, name string) (int64, error) {
	return parseID(mux.Vars(r)[name], name)
}

// queryID parses a positive integer query parameter
func queryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", contracts.ErrInvalidInput, name)
	}
	return id, nil
}

// queryFloat parses an optional numeric query parameter; blank means nil
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := contracts.ParseMoney(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", contracts.ErrInvalidInput, name)
	}
	return &v, nil
}
