package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/priceslice/priceslice/internal/pricing"
)

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, tag := range e.Fields {
		parts = append(parts, field+": "+tag)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%v: %s", ErrInvalid, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Service loads and saves preferences per profile.
type Service struct {
	store     Store
	validator *validator.Validate
	logger    *slog.Logger
}

// NewService constructs a Service on top of store.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	_ = v.RegisterValidation("taxrate", validTaxRate)
	return &Service{store: store, validator: v, logger: logger}
}

// NewProfileID returns a fresh profile identifier.
func NewProfileID() string {
	return uuid.NewString()
}

// Get returns the stored preferences for profileID, or defaults.
func (s *Service) Get(ctx context.Context, profileID string) (Preferences, error) {
	if err := s.checkProfile(profileID); err != nil {
		return Preferences{}, err
	}
	return Load(ctx, s.profileStore(profileID))
}

// Put validates and stores prefs for profileID, returning what a later Get
// will observe.
func (s *Service) Put(ctx context.Context, profileID string, prefs Preferences) (Preferences, error) {
	if err := s.checkProfile(profileID); err != nil {
		return Preferences{}, err
	}
	prefs.TaxRate = pricing.NormalizeDecimalText(strings.TrimSpace(prefs.TaxRate))
	if err := s.validator.Struct(prefs); err != nil {
		return Preferences{}, toValidationError(err)
	}

	store := s.profileStore(profileID)
	if err := Save(ctx, store, prefs); err != nil {
		return Preferences{}, err
	}
	s.logger.Debug("preferences saved", slog.String("profile", profileID), slog.String("theme", prefs.Theme))
	return Load(ctx, store)
}

func (s *Service) checkProfile(profileID string) error {
	if err := s.validator.Var(profileID, "required,uuid"); err != nil {
		return &ValidationError{Fields: map[string]string{"profileID": "uuid"}}
	}
	return nil
}

func (s *Service) profileStore(profileID string) Store {
	return Prefixed(s.store, "profile:"+strings.ToLower(profileID))
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// validTaxRate accepts empty text or text the numeric parser reads as a
// non-negative number containing at least one digit.
func validTaxRate(fl validator.FieldLevel) bool {
	text := strings.TrimSpace(fl.Field().String())
	if text == "" {
		return true
	}
	if !strings.ContainsAny(text, "0123456789") {
		return false
	}
	return pricing.ParseNumber(text) >= 0
}
