package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

type analyzeRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
}

type matchRequest struct {
	JobDescription  string   `json:"jobDescription" validate:"required"`
	ExtractedSkills []string `json:"extractedSkills" validate:"omitempty,max=100,dive,required,max=100"`
	JobContext      []string `json:"jobContext" validate:"omitempty,max=20,dive,required,max=100"`
}

type matchQuery struct {
	MinScore int  `json:"min_score" validate:"min=0,max=100"`
	Limit    int  `json:"limit" validate:"min=0"`
	Explain  bool `json:"explain" validate:"-"`
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field names in validation details.
		vld.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
	})
	return vld
}

// errBodyTooLarge marks a request body over the configured cap.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSON decodes a capped JSON body into dst and validates it.
// The returned details are field to failed-tag pairs.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) (map[string]string, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument)
	}
	return validateStruct(dst)
}

func validateStruct(v any) (map[string]string, error) {
	err := getValidator().Struct(v)
	if err == nil {
		return nil, nil
	}
	details := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument)
}

// parseMatchQuery reads min_score, limit and explain.
func parseMatchQuery(r *http.Request) (matchQuery, map[string]string, error) {
	var q matchQuery
	bad := map[string]string{}
	vals := r.URL.Query()
	if s := vals.Get("min_score"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			bad["min_score"] = "int"
		}
		q.MinScore = n
	}
	if s := vals.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			bad["limit"] = "int"
		}
		q.Limit = n
	}
	if s := vals.Get("explain"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			bad["explain"] = "bool"
		}
		q.Explain = b
	}
	if len(bad) > 0 {
		return matchQuery{}, bad, fmt.Errorf("%w: invalid query parameters", domain.ErrInvalidArgument)
	}
	if details, err := validateStruct(q); err != nil {
		return matchQuery{}, details, err
	}
	return q, nil, nil
}
