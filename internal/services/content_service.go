package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
)

var ErrBadMessageStatus = errors.New("unknown message status")

// ContentService covers the storefront content: banners, the about page
// and contact messages.
type ContentService struct {
	Banners  *repos.BannerRepo
	About    *repos.AboutRepo
	Messages *repos.MessageRepo
}

func NewContentService(banners *repos.BannerRepo, about *repos.AboutRepo, messages *repos.MessageRepo) *ContentService {
	return &ContentService{Banners: banners, About: about, Messages: messages}
}

func (s *ContentService) ActiveBanners() ([]domain.Banner, error) { return s.Banners.ListActive() }
func (s *ContentService) AllBanners() ([]domain.Banner, error)    { return s.Banners.ListAll() }

func (s *ContentService) CreateBanner(b domain.Banner) (domain.Banner, error) {
	b.ID = uuid.NewString()
	if err := s.Banners.Create(b); err != nil {
		return domain.Banner{}, err
	}
	return b, nil
}

func (s *ContentService) UpdateBanner(b domain.Banner) (domain.Banner, error) {
	if err := s.Banners.Update(b); err != nil {
		return domain.Banner{}, err
	}
	return b, nil
}

func (s *ContentService) DeleteBanner(id string) error { return s.Banners.Delete(id) }

func (s *ContentService) AboutPage() (domain.About, error) { return s.About.Get() }

func (s *ContentService) UpdateAbout(a domain.About) (domain.About, error) {
	if err := s.About.Update(a); err != nil {
		return domain.About{}, err
	}
	return s.About.Get()
}

// SubmitMessage stores a contact-form message with status new.
func (s *ContentService) SubmitMessage(name, email, subject, body string) (domain.Message, error) {
	m := domain.Message{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Subject: subject,
		Body:    body,
		Status:  domain.MessageStatusNew,
	}
	if err := s.Messages.Insert(m); err != nil {
		return domain.Message{}, err
	}
	return s.Messages.Get(m.ID)
}

func (s *ContentService) ListMessages(status string, limit, offset int) ([]domain.Message, error) {
	if status != "" && !validMessageStatus(status) {
		return nil, ErrBadMessageStatus
	}
	return s.Messages.List(status, limit, offset)
}

func (s *ContentService) GetMessage(id string) (domain.Message, error) { return s.Messages.Get(id) }

func (s *ContentService) UpdateMessageStatus(id, status string) (domain.Message, error) {
	if !validMessageStatus(status) {
		return domain.Message{}, ErrBadMessageStatus
	}
	if err := s.Messages.UpdateStatus(id, status); err != nil {
		return domain.Message{}, err
	}
	return s.Messages.Get(id)
}

func (s *ContentService) DeleteMessage(id string) error { return s.Messages.Delete(id) }

func validMessageStatus(s string) bool {
	switch s {
	case domain.MessageStatusNew, domain.MessageStatusRead, domain.MessageStatusArchived:
		return true
	}
	return false
}
