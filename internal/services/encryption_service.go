package services

import (
	"strings"

	"kompas/internal/crypto"
	"kompas/internal/models"
)

// EncryptionService applies field encryption to the private parts of the
// domain records. Catalog values (emotion, activities, value of the day)
// stay readable because statistics are computed over them.
type EncryptionService struct {
	cipher *crypto.FieldCipher
}

func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	c, err := crypto.NewFieldCipher(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{cipher: c}, nil
}

// NormalizeEmail is the form under which emails are indexed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailBlindIndex is the lookup key for a user's email.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	return s.cipher.BlindIndex(NormalizeEmail(email))
}

func (s *EncryptionService) EncryptUser(u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	u.EmailBlindIndex = s.cipher.BlindIndex(u.Email)
	sealed, err := s.cipher.Seal(u.Email)
	if err != nil {
		return err
	}
	u.Email = sealed
	return nil
}

func (s *EncryptionService) DecryptUser(u *models.User) error {
	plain, err := s.cipher.Open(u.Email)
	if err != nil {
		return err
	}
	u.Email = plain
	return nil
}

func (s *EncryptionService) DecryptProfile(p *models.Profile) error {
	plain, err := s.cipher.Open(p.Email)
	if err != nil {
		return err
	}
	p.Email = plain
	return nil
}

func compassSecrets(e *models.CompassEntry) []**string {
	return []**string{
		&e.PhysicalDescription,
		&e.IntellectualDescription,
		&e.ThoughtOfDay,
		&e.EventOfDay,
		&e.PersonOfDay,
		&e.GratitudeOfDay,
	}
}

// EncryptCompassEntry seals the free-text reflections. Unset fields stay
// nil; set fields get fresh pointers so the caller's strings are untouched.
func (s *EncryptionService) EncryptCompassEntry(e *models.CompassEntry) error {
	for _, pp := range compassSecrets(e) {
		if *pp == nil {
			continue
		}
		sealed, err := s.cipher.Seal(**pp)
		if err != nil {
			return err
		}
		*pp = &sealed
	}
	return nil
}

func (s *EncryptionService) DecryptCompassEntry(e *models.CompassEntry) error {
	for _, pp := range compassSecrets(e) {
		if err := s.cipher.OpenPtr(*pp); err != nil {
			return err
		}
	}
	return nil
}

func (s *EncryptionService) EncryptEssay(e *models.Essay) error {
	sealed, err := s.cipher.Seal(e.Content)
	if err != nil {
		return err
	}
	e.Content = sealed
	return nil
}

func (s *EncryptionService) DecryptEssay(e *models.Essay) error {
	plain, err := s.cipher.Open(e.Content)
	if err != nil {
		return err
	}
	e.Content = plain
	return nil
}
