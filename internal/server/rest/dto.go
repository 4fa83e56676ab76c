package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/civicreport/internal/common"
	"github.com/dmitrijs2005/civicreport/internal/server/models"
	"github.com/go-playground/validator/v10"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type UploadImageResponse struct {
	ImageURL string `json:"image_url"`
}

// IssueRequest carries coordinates as pointers so that 0 (the equator,
// the prime meridian) is a valid value while an absent field is not. An
// image_url that is null, absent or "" means no photo.
type IssueRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Latitude    *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address     string   `json:"address" validate:"required"`
}

func (r *IssueRequest) toModel() *models.Issue {
	issue := &models.Issue{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Address:     r.Address,
	}
	if r.ImageURL != "" {
		u := r.ImageURL
		issue.ImageURL = &u
	}
	if r.Latitude != nil {
		issue.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		issue.Longitude = *r.Longitude
	}
	return issue
}

var errMalformedBody = errors.New("malformed request body")

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// A body that is not JSON yields errMalformedBody; failed tags yield an
// error wrapping common.ErrorValidation.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errMalformedBody)
		}
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	return nil
}
