package patient

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/schoolclinic/cms/pkg/normalize"
)

// ValidationError marks a failure caught before any storage call; the
// record in progress is never written.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

var validGenders = map[string]bool{"Male": true, "Female": true, "Other": true}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the visit-date clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// validate applies the shared add/update form rules. The normalized
// mobile is returned so callers store the canonical form.
func (s *Service) validate(p *Patient) (string, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "", validationErr("name is required")
	}
	if containsDigit(name) {
		return "", validationErr("name cannot contain numbers")
	}
	if strings.TrimSpace(p.Mobile) == "" || strings.TrimSpace(p.Email) == "" ||
		p.Address.Raw == "" || strings.TrimSpace(p.Gender) == "" ||
		strings.TrimSpace(p.Diagnosis) == "" {
		return "", validationErr("all information is required")
	}
	if !validGenders[strings.TrimSpace(p.Gender)] {
		return "", validationErr("gender must be one of Male, Female or Other")
	}
	if !p.DOB.Valid {
		return "", validationErr("a complete date of birth is required")
	}
	mobile, ok := normalize.Mobile(p.Mobile)
	if !ok {
		return "", validationErr("mobile number must follow the format +63 XXX XXX XXXX or 09XX XXX XXXX")
	}
	return mobile, nil
}

// normalizeForStorage applies the producer-side canonicalization: proper
// case for free text, canonical mobile, visit date stamped to today.
func (s *Service) normalizeForStorage(p *Patient, mobile string) {
	p.Name = normalize.ProperCase(p.Name)
	p.Mobile = mobile
	p.Email = strings.TrimSpace(p.Email)
	p.Address = ParseAddress(normalize.ProperCase(p.Address.Raw))
	p.Gender = strings.TrimSpace(p.Gender)
	p.Diagnosis = normalize.ProperCase(p.Diagnosis)
	p.VisitDate = DateOf(s.now())
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	p.ID = strings.TrimSpace(p.ID)
	if !isAllDigits(p.ID) {
		return validationErr("patient ID should contain only numbers")
	}
	mobile, err := s.validate(p)
	if err != nil {
		return err
	}
	s.normalizeForStorage(p, mobile)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites every non-key field and resets the visit date; the
// patient ID itself is immutable.
func (s *Service) Update(ctx context.Context, p *Patient) error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return validationErr("patient ID is required")
	}
	mobile, err := s.validate(p)
	if err != nil {
		return err
	}
	s.normalizeForStorage(p, mobile)
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteMany removes the selected records in one statement and reports
// how many actually existed.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int, error) {
	var cleaned []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return 0, validationErr("select at least one patient to delete")
	}
	return s.repo.DeleteMany(ctx, cleaned)
}

func (s *Service) List(ctx context.Context, q QueryContext, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, q, limit, offset)
}
